// Package config handles global configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/cocite/config.yml.
type GlobalConfig struct {
	S2APIKey string `yaml:"s2_api_key,omitempty"`
	// Mailto places OpenAlex requests in the polite pool.
	Mailto   string `yaml:"mailto,omitempty"`
	CacheDir string `yaml:"cache_dir,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "cocite"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// CacheFile is the fetch-cache database file name.
	CacheFile = "fetch.db"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/cocite/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.CacheDir != "" {
		cfg.CacheDir = ExpandTilde(cfg.CacheDir)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetS2APIKey returns the Semantic Scholar API key from global config.
func GetS2APIKey() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.S2APIKey
}

// GetMailto returns the OpenAlex polite-pool contact address from global config.
func GetMailto() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.Mailto
}

// CachePath returns the path to the fetch-cache database. The configured
// cache_dir wins; otherwise the XDG cache directory is used.
func CachePath() (string, error) {
	cfg, _ := LoadGlobalConfig()
	if cfg.CacheDir != "" {
		return filepath.Join(cfg.CacheDir, CacheFile), nil
	}

	cacheHome, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating cache directory: %w", err)
	}
	return filepath.Join(cacheHome, GlobalConfigDir, CacheFile), nil
}

// ExpandTilde expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
