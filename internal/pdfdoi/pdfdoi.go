// Package pdfdoi extracts DOIs from PDF files, used to build seed DOI
// lists from a paper's bibliography.
package pdfdoi

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// ExtractDOIs extracts every distinct DOI from a PDF, in first-occurrence
// order. Pages that cannot be read are skipped; an empty result is not an
// error.
func ExtractDOIs(filePath string) ([]string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var builder strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return FindDOIs(builder.String()), nil
}

// FindDOIs finds all distinct DOIs in text, in first-occurrence order.
func FindDOIs(text string) []string {
	seen := make(map[string]bool)
	var dois []string

	for _, match := range doiPattern.FindAllString(text, -1) {
		// Remove trailing punctuation picked up by the pattern
		match = strings.TrimRight(match, ".,;:)")
		if !isValidDOI(match) || seen[match] {
			continue
		}
		seen[match] = true
		dois = append(dois, match)
	}
	return dois
}

// isValidDOI performs basic validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	if !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	if slashIdx == -1 || slashIdx >= len(doi)-1 {
		return false
	}
	return true
}
