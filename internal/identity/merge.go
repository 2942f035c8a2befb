package identity

import "github.com/fredbr/cocite/internal/paper"

// Merge combines an ordered group of records that resolve to the same
// canonical key into one canonical record. For each field the first
// non-empty value in traversal order wins; a populated field is never
// overwritten by a later, possibly conflicting value. The merge result is
// therefore deterministic for a fixed input order but order-dependent when
// records disagree; callers must supply a stable order.
//
// The Source field accumulates: a single distinct provider tag is kept,
// more than one becomes the combined marker. Input records are not mutated.
func Merge(group []paper.Paper) paper.Paper {
	var out paper.Paper
	for _, p := range group {
		if out.DOI == "" {
			out.DOI = p.DOI
		}
		if out.ArXivID == "" {
			out.ArXivID = p.ArXivID
		}
		if out.OpenAlexID == "" {
			out.OpenAlexID = p.OpenAlexID
		}
		if out.S2ID == "" {
			out.S2ID = p.S2ID
		}
		if out.Title == "" {
			out.Title = p.Title
		}
		if len(out.Authors) == 0 && len(p.Authors) > 0 {
			out.Authors = append([]string(nil), p.Authors...)
		}
		if out.Year == 0 {
			out.Year = p.Year
		}
		if out.Venue == "" {
			out.Venue = p.Venue
		}
		if out.Type == "" {
			out.Type = p.Type
		}
		if out.CitedByCount == 0 {
			out.CitedByCount = p.CitedByCount
		}
		if p.Source != "" {
			switch {
			case out.Source == "":
				out.Source = p.Source
			case out.Source != p.Source:
				out.Source = paper.SourceCombined
			}
		}
	}
	return out
}
