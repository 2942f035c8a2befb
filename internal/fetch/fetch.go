// Package fetch orchestrates per-DOI retrieval of paper metadata, reference
// lists, and citing-paper lists from OpenAlex and Semantic Scholar, merging
// the two providers' results into one citation document.
package fetch

import (
	"context"
	"fmt"
	"io"

	"github.com/fredbr/cocite/internal/citations"
	"github.com/fredbr/cocite/internal/identity"
	"github.com/fredbr/cocite/internal/openalex"
	"github.com/fredbr/cocite/internal/paper"
	"github.com/fredbr/cocite/internal/s2"
	"github.com/fredbr/cocite/internal/storage"
)

// DefaultMaxCiting is the default cap on citing works fetched per paper.
const DefaultMaxCiting = 500

// Fetcher retrieves citation data for a seed set of DOIs. Either provider
// client may be nil, in which case that provider is skipped.
type Fetcher struct {
	OpenAlex *openalex.Client
	S2       *s2.Client

	// MaxCiting caps citing works fetched per paper (DefaultMaxCiting if 0).
	MaxCiting int

	// Cache, when set, is consulted before the network and updated after
	// a successful fetch.
	Cache *storage.Cache

	// Progress receives human-readable progress lines; nil discards them.
	Progress io.Writer
}

// Run fetches citation data for each DOI in order and assembles the
// citation document. Per-paper failures are recorded in the entry's Error
// field and do not abort the run.
func (f *Fetcher) Run(ctx context.Context, dois []string) (*citations.Document, error) {
	maxCiting := f.MaxCiting
	if maxCiting == 0 {
		maxCiting = DefaultMaxCiting
	}

	doc := &citations.Document{
		QueryInfo: &citations.QueryInfo{
			NumDOIs:           len(dois),
			MaxCitingPerPaper: maxCiting,
			Sources:           []string{paper.SourceOpenAlex, paper.SourceS2},
		},
		Papers: make([]citations.SeedPaper, 0, len(dois)),
	}

	for i, doi := range dois {
		f.progressf("[%d/%d] %s\n", i+1, len(dois), doi)

		entry, err := f.fetchOne(ctx, doi, maxCiting)
		if err != nil {
			return nil, err
		}
		doc.Papers = append(doc.Papers, *entry)
	}
	return doc, nil
}

// fetchOne retrieves one seed paper, consulting the cache first.
func (f *Fetcher) fetchOne(ctx context.Context, doi string, maxCiting int) (*citations.SeedPaper, error) {
	normalized := identity.NormalizeDOI(doi)

	if f.Cache != nil {
		cached, ok, err := f.Cache.Get(normalized, maxCiting)
		if err != nil {
			return nil, fmt.Errorf("reading cache: %w", err)
		}
		if ok {
			f.progressf("  cached\n")
			return cached, nil
		}
	}

	entry := f.fetchFromProviders(ctx, doi, maxCiting)

	if f.Cache != nil && entry.Error == "" {
		if err := f.Cache.Put(normalized, maxCiting, entry); err != nil {
			return nil, fmt.Errorf("writing cache: %w", err)
		}
	}
	return entry, nil
}

// fetchFromProviders queries both providers for one DOI and merges their
// results. OpenAlex results come first in every merge so its values win
// field conflicts.
func (f *Fetcher) fetchFromProviders(ctx context.Context, doi string, maxCiting int) *citations.SeedPaper {
	entry := &citations.SeedPaper{
		InputDOI:   doi,
		References: []paper.Paper{},
		CitedBy:    []paper.Paper{},
	}

	var oaRefs, oaCiting []paper.Paper
	if f.OpenAlex != nil {
		oaRefs, oaCiting = f.fetchOpenAlex(ctx, doi, maxCiting, entry)
	}

	var s2Refs, s2Citing []paper.Paper
	if f.S2 != nil {
		s2Refs, s2Citing = f.fetchS2(ctx, doi, maxCiting, entry)
	}

	entry.References = MergePaperLists(oaRefs, s2Refs)
	entry.CitedBy = MergePaperLists(oaCiting, s2Citing)
	f.progressf("  %d references, %d citing works\n", len(entry.References), len(entry.CitedBy))

	if entry.Metadata == nil {
		entry.Error = "paper not found in any source"
	}
	return entry
}

// fetchOpenAlex queries OpenAlex for one paper, filling in entry metadata
// and returning the mapped reference and citing lists.
func (f *Fetcher) fetchOpenAlex(ctx context.Context, doi string, maxCiting int, entry *citations.SeedPaper) (refs, citing []paper.Paper) {
	work, err := f.OpenAlex.GetWorkByDOI(ctx, doi)
	if err != nil {
		if !openalex.IsNotFound(err) {
			f.progressf("  [openalex] %v\n", err)
		}
		return nil, nil
	}

	entry.SourcesUsed = append(entry.SourcesUsed, paper.SourceOpenAlex)
	meta := openalex.ToPaper(*work)
	entry.Metadata = &meta

	oaRefs, err := f.OpenAlex.GetReferences(ctx, work)
	if err != nil {
		f.progressf("  [openalex] %v\n", err)
	}
	for _, w := range oaRefs {
		refs = append(refs, openalex.ToPaper(w))
	}

	oaCiting, err := f.OpenAlex.GetCitingWorks(ctx, work, maxCiting)
	if err != nil {
		f.progressf("  [openalex] %v\n", err)
	}
	for _, w := range oaCiting {
		citing = append(citing, openalex.ToPaper(w))
	}
	return refs, citing
}

// fetchS2 queries Semantic Scholar for one paper, filling in entry
// metadata when OpenAlex found nothing.
func (f *Fetcher) fetchS2(ctx context.Context, doi string, maxCiting int, entry *citations.SeedPaper) (refs, citing []paper.Paper) {
	p, err := f.S2.GetPaperByDOI(ctx, doi)
	if err != nil {
		if !s2.IsNotFound(err) {
			f.progressf("  [s2] %v\n", err)
		}
		return nil, nil
	}

	entry.SourcesUsed = append(entry.SourcesUsed, paper.SourceS2)
	if entry.Metadata == nil {
		meta := s2.ToPaper(*p)
		entry.Metadata = &meta
	}

	s2Refs, err := f.S2.GetReferences(ctx, p.PaperID, maxCiting)
	if err != nil {
		f.progressf("  [s2] %v\n", err)
	}
	for _, r := range s2Refs {
		refs = append(refs, s2.ToPaper(r))
	}

	s2Citing, err := f.S2.GetCitations(ctx, p.PaperID, maxCiting)
	if err != nil {
		f.progressf("  [s2] %v\n", err)
	}
	for _, c := range s2Citing {
		citing = append(citing, s2.ToPaper(c))
	}
	return refs, citing
}

// MergePaperLists combines two provider paper lists, deduplicating by
// canonical key with first-wins field merging. List order determines merge
// precedence, so the caller passes the preferred provider first. Records
// with no resolvable key cannot be deduplicated and are kept as-is.
func MergePaperLists(a, b []paper.Paper) []paper.Paper {
	var order []string
	byKey := make(map[string][]paper.Paper)
	var keyless []paper.Paper

	for _, p := range append(append([]paper.Paper{}, a...), b...) {
		key, ok := identity.Resolve(p)
		if !ok {
			keyless = append(keyless, p)
			continue
		}
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], p)
	}

	merged := make([]paper.Paper, 0, len(order)+len(keyless))
	for _, key := range order {
		merged = append(merged, identity.Merge(byKey[key]))
	}
	return append(merged, keyless...)
}

func (f *Fetcher) progressf(format string, args ...any) {
	if f.Progress != nil {
		fmt.Fprintf(f.Progress, format, args...)
	}
}
