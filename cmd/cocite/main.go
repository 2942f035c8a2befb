// Package main provides the cocite CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fredbr/cocite/internal/citations"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		if errors.Is(err, citations.ErrNoPapers) || errors.Is(err, citations.ErrMalformedDocument) {
			os.Exit(ExitDataError)
		}
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}

var rootCmd = &cobra.Command{
	Use:   "cocite",
	Short: "Seed-set citation analysis CLI",
	Long: `cocite resolves paper identities across metadata sources and
aggregates citation relationships around a seed set of papers.

Workflow:
  1. cocite fetch   - retrieve metadata, references, and citing papers
                      for a list of DOIs from OpenAlex and Semantic Scholar
  2. cocite analyze - compute papers cited by at least k seed papers (R_k)
                      and papers citing at least k' seed papers (Q_k')
  3. cocite graph   - render the citation graph as interactive HTML

Duplicate records from different sources are merged by canonical key
(normalized title, arXiv ID, DOI, OpenAlex ID, or S2 ID).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
