package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fredbr/cocite/internal/citations"
)

const summaryTopN = 20

var (
	analyzeInput        string
	analyzeKCited       int
	analyzeKCiting      int
	analyzeOutputCited  string
	analyzeOutputCiting string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "citations.json", "Citation document to analyze")
	analyzeCmd.Flags().IntVar(&analyzeKCited, "kcited", 2, "Minimum seed papers citing a reference")
	analyzeCmd.Flags().IntVar(&analyzeKCiting, "kciting", 2, "Minimum seed papers cited by a citing work")
	analyzeCmd.Flags().StringVar(&analyzeOutputCited, "output-cited", "frequently_cited.json", "Output file for frequently cited papers")
	analyzeCmd.Flags().StringVar(&analyzeOutputCiting, "output-citing", "frequently_citing.json", "Output file for frequently citing papers")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank frequently cited and frequently citing papers",
	Long: `Analyze a fetched citation document and rank papers outside the seed
set by how many distinct seed papers they connect to.

Two rankings are produced: papers cited by at least --kcited seed papers,
and papers citing at least --kciting seed papers. Each is written to its
own JSON file, sorted by count descending with ties broken by title.

Examples:
  cocite analyze --input citations.json
  cocite analyze --kcited 3 --kciting 5`,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	doc, err := citations.LoadDocument(analyzeInput)
	if err != nil {
		return err
	}

	cited, citing := citations.Analyze(doc, analyzeKCited, analyzeKCiting)

	if err := writeJSONFile(analyzeOutputCited, cited); err != nil {
		return err
	}
	if err := writeJSONFile(analyzeOutputCiting, citing); err != nil {
		return err
	}

	if humanOutput {
		printResultSummary(fmt.Sprintf("Papers cited by >= %d seed papers", analyzeKCited), cited)
		printResultSummary(fmt.Sprintf("Papers citing >= %d seed papers", analyzeKCiting), citing)
		fmt.Printf("Wrote %s and %s\n", analyzeOutputCited, analyzeOutputCiting)
		return nil
	}

	outputJSON(AnalyzeResponse{
		OutputCited:  analyzeOutputCited,
		OutputCiting: analyzeOutputCiting,
		NumCited:     cited.Count,
		NumCiting:    citing.Count,
	})
	return nil
}

// AnalyzeResponse is the JSON output of the analyze command.
type AnalyzeResponse struct {
	OutputCited  string `json:"output_cited"`
	OutputCiting string `json:"output_citing"`
	NumCited     int    `json:"num_cited"`
	NumCiting    int    `json:"num_citing"`
}

// printResultSummary prints the top entries of one ranking.
func printResultSummary(header string, r *citations.Result) {
	fmt.Printf("\n%s: %d found\n", header, r.Count)
	fmt.Println(strings.Repeat("-", len(header)+12))

	for i, p := range r.Papers {
		if i >= summaryTopN {
			fmt.Printf("  ... and %d more\n", r.Count-summaryTopN)
			break
		}
		count := p.CIn + p.COut
		title := truncateString(p.Title, summaryTitleMaxLen)
		if title == "" {
			title = p.Key
		}
		year := ""
		if p.Year > 0 {
			year = fmt.Sprintf(" (%d)", p.Year)
		}
		fmt.Printf("%3d. [%d] %s%s\n", i+1, count, title, year)
	}
}
