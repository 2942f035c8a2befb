package openalex

import (
	"strings"

	"github.com/fredbr/cocite/internal/paper"
)

// Work is an OpenAlex work object, limited to the fields the fetcher uses.
type Work struct {
	ID              string       `json:"id"`
	DOI             string       `json:"doi"`
	Title           string       `json:"title"`
	PublicationYear int          `json:"publication_year"`
	Type            string       `json:"type"`
	CitedByCount    int          `json:"cited_by_count"`
	Authorships     []Authorship `json:"authorships"`
	PrimaryLocation *Location    `json:"primary_location"`
	ReferencedWorks []string     `json:"referenced_works"`
}

// Authorship is one author attribution on a work.
type Authorship struct {
	Author Author `json:"author"`
}

// Author is an OpenAlex author object.
type Author struct {
	DisplayName string `json:"display_name"`
}

// Location is the place a work was published.
type Location struct {
	Source *LocationSource `json:"source"`
}

// LocationSource names the venue of a location.
type LocationSource struct {
	DisplayName string `json:"display_name"`
}

// listResponse is the envelope of OpenAlex list endpoints.
type listResponse struct {
	Results []Work   `json:"results"`
	Meta    listMeta `json:"meta"`
}

type listMeta struct {
	NextCursor string `json:"next_cursor"`
}

// ToPaper maps a work to the provider-neutral paper record. The DOI URL
// prefix is stripped and the venue is taken from the primary location.
func ToPaper(w Work) paper.Paper {
	authors := make([]string, 0, len(w.Authorships))
	for _, a := range w.Authorships {
		if a.Author.DisplayName != "" {
			authors = append(authors, a.Author.DisplayName)
		}
	}

	venue := ""
	if w.PrimaryLocation != nil && w.PrimaryLocation.Source != nil {
		venue = w.PrimaryLocation.Source.DisplayName
	}

	doi := w.DOI
	if strings.HasPrefix(doi, "https://doi.org/") {
		doi = strings.TrimPrefix(doi, "https://doi.org/")
	}

	return paper.Paper{
		OpenAlexID:   w.ID,
		DOI:          doi,
		Title:        w.Title,
		Authors:      authors,
		Year:         w.PublicationYear,
		Venue:        venue,
		Type:         w.Type,
		CitedByCount: w.CitedByCount,
		Source:       paper.SourceOpenAlex,
	}
}
