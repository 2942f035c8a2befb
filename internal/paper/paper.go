// Package paper defines the core domain type for paper metadata records.
package paper

// Provider tags recorded in the Source field of a Paper.
const (
	SourceOpenAlex = "openalex"
	SourceS2       = "semantic_scholar"
	// SourceCombined marks a record merged from more than one provider.
	SourceCombined = "openalex+semantic_scholar"
)

// Paper is a metadata record for an academic paper as supplied by one
// provider (or merged from several). Every field is optional: providers
// disagree about which identifiers and descriptive fields they know, and
// a record may arrive with nothing but a title or a single external ID.
// The zero value is a degenerate record that resolves to no identity.
type Paper struct {
	// External identifiers
	DOI        string `json:"doi"`
	ArXivID    string `json:"arxiv_id,omitempty"`
	OpenAlexID string `json:"openalex_id,omitempty"`
	S2ID       string `json:"s2_id,omitempty"`

	// Metadata
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	Year    int      `json:"year"` // 0 if unknown
	Venue   string   `json:"venue"`

	// Provider passthrough
	Type         string `json:"type,omitempty"`
	CitedByCount int    `json:"cited_by_count,omitempty"`

	// Provider that supplied this record (see Source* constants).
	Source string `json:"source,omitempty"`
}

// IsZero reports whether the record carries no identifying or descriptive
// fields at all.
func (p Paper) IsZero() bool {
	return p.DOI == "" && p.ArXivID == "" && p.OpenAlexID == "" && p.S2ID == "" &&
		p.Title == "" && len(p.Authors) == 0 && p.Year == 0 && p.Venue == ""
}

// Label returns a display label for the paper, truncating the title to
// maxLen characters with an ellipsis. Returns "Unknown" for untitled records.
func (p Paper) Label(maxLen int) string {
	if p.Title == "" {
		return "Unknown"
	}
	return Truncate(p.Title, maxLen)
}

// Truncate shortens s to at most maxLen characters, replacing the tail
// with "..." when it is longer. Operates on runes so multi-byte titles
// are not split mid-character.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
