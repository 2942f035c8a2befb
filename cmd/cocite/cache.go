package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fredbr/cocite/internal/config"
	"github.com/fredbr/cocite/internal/storage"
)

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the fetch cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show fetch cache location and contents",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.CachePath()
		if err != nil {
			exitWithError(ExitConfigError, "locating fetch cache: %v", err)
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if humanOutput {
				fmt.Printf("No cache at %s\n", path)
			} else {
				outputJSON(CacheInfoResponse{Path: path})
			}
			return nil
		}

		cache, err := storage.Open(path)
		if err != nil {
			return err
		}
		defer cache.Close()

		info, err := cache.Stats()
		if err != nil {
			return err
		}

		if humanOutput {
			fmt.Printf("Cache: %s\n", path)
			fmt.Printf("Entries: %d\n", info.Entries)
			if info.OldestAt != nil {
				fmt.Printf("Oldest: %s\n", info.OldestAt.Format("2006-01-02 15:04:05"))
			}
			if info.NewestAt != nil {
				fmt.Printf("Newest: %s\n", info.NewestAt.Format("2006-01-02 15:04:05"))
			}
		} else {
			outputJSON(CacheInfoResponse{Path: path, Info: info})
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached fetch results",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.CachePath()
		if err != nil {
			exitWithError(ExitConfigError, "locating fetch cache: %v", err)
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if humanOutput {
				fmt.Println("Cache is already empty")
			} else {
				outputJSON(CacheClearResponse{Removed: 0})
			}
			return nil
		}

		cache, err := storage.Open(path)
		if err != nil {
			return err
		}
		defer cache.Close()

		removed, err := cache.Clear()
		if err != nil {
			return err
		}

		if humanOutput {
			fmt.Printf("Removed %d cached entries\n", removed)
		} else {
			outputJSON(CacheClearResponse{Removed: removed})
		}
		return nil
	},
}

// CacheInfoResponse is the JSON output of cache info.
type CacheInfoResponse struct {
	Path string        `json:"path"`
	Info *storage.Info `json:"info,omitempty"`
}

// CacheClearResponse is the JSON output of cache clear.
type CacheClearResponse struct {
	Removed int `json:"removed"`
}
