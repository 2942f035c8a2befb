package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fredbr/cocite/internal/config"
	"github.com/fredbr/cocite/internal/fetch"
	"github.com/fredbr/cocite/internal/openalex"
	"github.com/fredbr/cocite/internal/pdfdoi"
	"github.com/fredbr/cocite/internal/s2"
	"github.com/fredbr/cocite/internal/storage"
)

var (
	fetchInput     string
	fetchInputPDF  string
	fetchOutput    string
	fetchMaxCiting int
	fetchNoCache   bool
)

func init() {
	fetchCmd.Flags().StringVarP(&fetchInput, "input", "i", "", "Input file containing DOIs (one per line)")
	fetchCmd.Flags().StringVar(&fetchInputPDF, "input-pdf", "", "PDF file to extract seed DOIs from")
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "citations.json", "Output JSON file")
	fetchCmd.Flags().IntVar(&fetchMaxCiting, "max-citing", fetch.DefaultMaxCiting, "Maximum citing works to fetch per paper")
	fetchCmd.Flags().BoolVar(&fetchNoCache, "no-cache", false, "Bypass the fetch cache")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch citation data for a list of DOIs",
	Long: `Fetch paper metadata, references, and citing works for each DOI
from OpenAlex and Semantic Scholar, merging results from both sources.

The seed DOI list comes from a text file (one DOI per line, blank lines
ignored) or from a PDF whose text is scanned for DOIs.

Fetched results are cached in a local SQLite database so repeated runs
skip the network; use --no-cache to bypass it.

Examples:
  cocite fetch --input dois.txt --output citations.json
  cocite fetch --input-pdf survey.pdf --max-citing 200
  cocite fetch --input dois.txt --no-cache`,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	// Load .env so S2_API_KEY can come from the working directory
	_ = godotenv.Load()

	dois, err := readSeedDOIs()
	if err != nil {
		return err
	}
	if len(dois) == 0 {
		return fmt.Errorf("no DOIs found in input")
	}
	fmt.Fprintf(os.Stderr, "Processing %d DOIs using OpenAlex + Semantic Scholar...\n", len(dois))

	// The S2_API_KEY environment variable wins over the config file.
	var s2Opts []s2.ClientOption
	if key := config.GetS2APIKey(); key != "" && os.Getenv("S2_API_KEY") == "" {
		s2Opts = append(s2Opts, s2.WithAPIKey(key))
	}
	var oaOpts []openalex.ClientOption
	if mailto := config.GetMailto(); mailto != "" {
		oaOpts = append(oaOpts, openalex.WithMailto(mailto))
	}

	fetcher := &fetch.Fetcher{
		OpenAlex:  openalex.NewClient(oaOpts...),
		S2:        s2.NewClient(s2Opts...),
		MaxCiting: fetchMaxCiting,
		Progress:  os.Stderr,
	}

	if !fetchNoCache {
		cache, err := openCache()
		if err != nil {
			exitWithError(ExitConfigError, "opening fetch cache: %v", err)
		}
		defer cache.Close()
		fetcher.Cache = cache
	}

	doc, err := fetcher.Run(context.Background(), dois)
	if err != nil {
		return fmt.Errorf("fetching citation data: %w", err)
	}
	if fetchInput != "" {
		doc.QueryInfo.InputFile = fetchInput
	} else {
		doc.QueryInfo.InputFile = fetchInputPDF
	}

	if err := writeJSONFile(fetchOutput, doc); err != nil {
		return err
	}

	found := 0
	for _, p := range doc.Papers {
		if p.Metadata != nil {
			found++
		}
	}
	if humanOutput {
		fmt.Printf("Fetched %d/%d papers to %s\n", found, len(dois), fetchOutput)
	} else {
		outputJSON(FetchResponse{Output: fetchOutput, NumDOIs: len(dois), Found: found})
	}
	return nil
}

// FetchResponse is the JSON output of the fetch command.
type FetchResponse struct {
	Output  string `json:"output"`
	NumDOIs int    `json:"num_dois"`
	Found   int    `json:"found"`
}

// readSeedDOIs resolves the seed DOI list from --input or --input-pdf.
func readSeedDOIs() ([]string, error) {
	switch {
	case fetchInput != "" && fetchInputPDF != "":
		return nil, fmt.Errorf("--input and --input-pdf are mutually exclusive")
	case fetchInputPDF != "":
		dois, err := pdfdoi.ExtractDOIs(fetchInputPDF)
		if err != nil {
			return nil, fmt.Errorf("extracting DOIs from %s: %w", fetchInputPDF, err)
		}
		return dois, nil
	case fetchInput != "":
		return readDOIFile(fetchInput)
	default:
		return nil, fmt.Errorf("either --input or --input-pdf is required")
	}
}

// readDOIFile reads one DOI per line, skipping blanks and # comments.
func readDOIFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening DOI list: %w", err)
	}
	defer f.Close()

	var dois []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		dois = append(dois, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading DOI list: %w", err)
	}
	return dois, nil
}

// openCache opens the fetch cache, creating its directory if needed.
func openCache() (*storage.Cache, error) {
	path, err := config.CachePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return storage.Open(path)
}
