package s2

import "github.com/fredbr/cocite/internal/paper"

// Paper is a Semantic Scholar Graph API paper object, limited to the
// fields the fetcher requests.
type Paper struct {
	PaperID       string      `json:"paperId"`
	ExternalIDs   ExternalIDs `json:"externalIds"`
	Title         string      `json:"title"`
	Authors       []Author    `json:"authors"`
	Year          int         `json:"year"`
	Venue         string      `json:"venue"`
	CitationCount int         `json:"citationCount"`
}

// ExternalIDs holds the external identifiers S2 knows for a paper.
type ExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}

// Author is an S2 author object.
type Author struct {
	Name string `json:"name"`
}

// referenceEntry wraps a referenced paper in the /references envelope.
type referenceEntry struct {
	CitedPaper Paper `json:"citedPaper"`
}

// citationEntry wraps a citing paper in the /citations envelope.
type citationEntry struct {
	CitingPaper Paper `json:"citingPaper"`
}

// pagedResponse is the envelope of S2 paginated endpoints.
type pagedResponse[T any] struct {
	Data []T  `json:"data"`
	Next *int `json:"next"`
}

// ToPaper maps an S2 paper to the provider-neutral record.
func ToPaper(p Paper) paper.Paper {
	authors := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		if a.Name != "" {
			authors = append(authors, a.Name)
		}
	}

	return paper.Paper{
		S2ID:         p.PaperID,
		DOI:          p.ExternalIDs.DOI,
		ArXivID:      p.ExternalIDs.ArXiv,
		Title:        p.Title,
		Authors:      authors,
		Year:         p.Year,
		Venue:        p.Venue,
		CitedByCount: p.CitationCount,
		Source:       paper.SourceS2,
	}
}

// IsZero reports whether the S2 paper object is empty (a null entry in a
// references or citations page).
func (p Paper) IsZero() bool {
	return p.PaperID == "" && p.Title == "" && p.ExternalIDs.DOI == "" && p.ExternalIDs.ArXiv == ""
}
