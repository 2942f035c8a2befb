package citations

import (
	"fmt"
	"sort"
)

// AggregatedEntry is one thresholded candidate paper in ranked result
// output. Exactly one of CIn/CitedBySeedPapers or COut/CitesSeedPapers is
// populated, depending on the relation direction.
type AggregatedEntry struct {
	Key     string   `json:"key"`
	DOI     string   `json:"doi"`
	ArXivID string   `json:"arxiv_id"`
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	Year    int      `json:"year"`
	Venue   string   `json:"venue"`

	CIn  int `json:"c_in,omitempty"`
	COut int `json:"c_out,omitempty"`

	CitedBySeedPapers []SeedRef `json:"cited_by_seed_papers,omitempty"`
	CitesSeedPapers   []SeedRef `json:"cites_seed_papers,omitempty"`

	// Always false by construction (seed members are excluded before
	// thresholding); retained for downstream consumer convenience.
	IsInSeedSet bool `json:"is_in_seed_set"`
}

// Result is one ranked output document, one per relation direction.
type Result struct {
	Description string            `json:"description"`
	KCited      int               `json:"k_cited,omitempty"`
	KCiting     int               `json:"k_citing,omitempty"`
	Count       int               `json:"count"`
	Papers      []AggregatedEntry `json:"papers"`
}

// Rank filters and orders an index: seed-set members are excluded, entries
// below the threshold k are dropped, and the rest are sorted by count
// descending with ties broken by ascending title. The sort is stable, so
// entries with identical count and title keep index-insertion order.
func Rank(ix *Index, seeds *SeedSet, k int, rel Relation) []AggregatedEntry {
	entries := make([]AggregatedEntry, 0)
	for _, e := range ix.Entries() {
		if seeds.Contains(e.Key) {
			continue
		}
		count := e.Count()
		if count < k {
			continue
		}

		agg := AggregatedEntry{
			Key:     e.Key,
			DOI:     e.Record.DOI,
			ArXivID: e.Record.ArXivID,
			Title:   e.Record.Title,
			Authors: e.Record.Authors,
			Year:    e.Record.Year,
			Venue:   e.Record.Venue,
		}
		if rel == References {
			agg.CIn = count
			agg.CitedBySeedPapers = e.Seeds()
		} else {
			agg.COut = count
			agg.CitesSeedPapers = e.Seeds()
		}
		entries = append(entries, agg)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		ci, cj := entries[i].CIn+entries[i].COut, entries[j].CIn+entries[j].COut
		if ci != cj {
			return ci > cj
		}
		return entries[i].Title < entries[j].Title
	})
	return entries
}

// Analyze computes both ranked result documents from a citation document:
// the frequently-cited references (R_k, threshold kCited) and the
// frequently-citing papers (Q_k', threshold kCiting). Empty documents
// produce empty results, never an error.
func Analyze(doc *Document, kCited, kCiting int) (cited, citing *Result) {
	seeds := BuildSeedSet(doc)

	citedEntries := Rank(BuildIndex(doc, References), seeds, kCited, References)
	citingEntries := Rank(BuildIndex(doc, CitedBy), seeds, kCiting, CitedBy)

	cited = &Result{
		Description: fmt.Sprintf("Papers cited by at least %d papers from the seed set", kCited),
		KCited:      kCited,
		Count:       len(citedEntries),
		Papers:      citedEntries,
	}
	citing = &Result{
		Description: fmt.Sprintf("Papers citing at least %d papers from the seed set", kCiting),
		KCiting:     kCiting,
		Count:       len(citingEntries),
		Papers:      citingEntries,
	}
	return cited, citing
}
