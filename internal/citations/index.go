package citations

import (
	"github.com/fredbr/cocite/internal/identity"
	"github.com/fredbr/cocite/internal/paper"
)

// Relation selects which relation list of a seed paper feeds an index.
type Relation int

const (
	// References indexes the papers each seed paper cites (behind R_k).
	References Relation = iota
	// CitedBy indexes the papers citing each seed paper (behind Q_k').
	CitedBy
)

// SeedRef identifies a contributing seed paper in result output.
type SeedRef struct {
	DOI   string `json:"doi"`
	Title string `json:"title"`
}

// SeedSet holds the canonical keys of the seed papers in input order,
// with the descriptor used when a seed is reported as a contributor.
type SeedSet struct {
	keys  []string
	byKey map[string]SeedRef
}

// BuildSeedSet resolves the seed papers' own metadata records to canonical
// keys. Entries without metadata or without a resolvable key are skipped;
// duplicate keys (the same paper supplied twice) collapse to one member.
func BuildSeedSet(doc *Document) *SeedSet {
	s := &SeedSet{byKey: make(map[string]SeedRef)}
	for _, sp := range doc.Papers {
		if sp.Metadata == nil {
			continue
		}
		key, ok := identity.Resolve(*sp.Metadata)
		if !ok {
			continue
		}
		if _, seen := s.byKey[key]; seen {
			continue
		}
		s.keys = append(s.keys, key)
		s.byKey[key] = SeedRef{DOI: sp.InputDOI, Title: sp.Label()}
	}
	return s
}

// Contains reports seed-set membership of a canonical key.
func (s *SeedSet) Contains(key string) bool {
	_, ok := s.byKey[key]
	return ok
}

// Keys returns the seed keys in input order.
func (s *SeedSet) Keys() []string { return s.keys }

// Ref returns the contributor descriptor for a seed key.
func (s *SeedSet) Ref(key string) (SeedRef, bool) {
	ref, ok := s.byKey[key]
	return ref, ok
}

// Len returns the number of distinct seed keys.
func (s *SeedSet) Len() int { return len(s.keys) }

// Entry is one candidate paper in a citation index: the first-seen metadata
// snapshot for its key plus the distinct seed papers that contributed it.
type Entry struct {
	Key    string
	Record paper.Paper

	seedKeys map[string]bool
	seeds    []SeedRef // one per distinct seed key, first-contribution order
}

// Count returns the number of distinct contributing seed keys. This is the
// c_in / c_out value: a seed paper listing the same candidate twice still
// contributes exactly once.
func (e *Entry) Count() int { return len(e.seedKeys) }

// Seeds returns the contributing seed descriptors in first-contribution order.
func (e *Entry) Seeds() []SeedRef { return e.seeds }

// Index maps canonical keys to candidate entries, preserving insertion
// order so that downstream iteration is reproducible run-to-run.
type Index struct {
	keys    []string
	entries map[string]*Entry
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{entries: make(map[string]*Entry)}
}

// Add records that seedKey's relation list contains a candidate record
// resolving to key. The first occurrence of a key fixes its metadata
// snapshot; later occurrences only add contribution bookkeeping, and a
// repeated (key, seedKey) pair is a no-op.
func (ix *Index) Add(key string, record paper.Paper, seedKey string, seed SeedRef) {
	e, ok := ix.entries[key]
	if !ok {
		e = &Entry{
			Key:      key,
			Record:   identity.Merge([]paper.Paper{record}),
			seedKeys: make(map[string]bool),
		}
		ix.keys = append(ix.keys, key)
		ix.entries[key] = e
	}
	if e.seedKeys[seedKey] {
		return
	}
	e.seedKeys[seedKey] = true
	e.seeds = append(e.seeds, seed)
}

// Get returns the entry for a key, or nil.
func (ix *Index) Get(key string) *Entry { return ix.entries[key] }

// Entries returns all entries in insertion order.
func (ix *Index) Entries() []*Entry {
	out := make([]*Entry, 0, len(ix.keys))
	for _, k := range ix.keys {
		out = append(out, ix.entries[k])
	}
	return out
}

// Len returns the number of distinct candidate keys.
func (ix *Index) Len() int { return len(ix.keys) }

// BuildIndex builds the citation index for one relation direction. Seed
// entries without a resolvable key contribute nothing; candidate records
// without a resolvable key are silently excluded.
func BuildIndex(doc *Document, rel Relation) *Index {
	ix := NewIndex()
	for _, sp := range doc.Papers {
		if sp.Metadata == nil {
			continue
		}
		seedKey, ok := identity.Resolve(*sp.Metadata)
		if !ok {
			continue
		}
		seed := SeedRef{DOI: sp.InputDOI, Title: sp.Label()}

		list := sp.References
		if rel == CitedBy {
			list = sp.CitedBy
		}
		for _, candidate := range list {
			key, ok := identity.Resolve(candidate)
			if !ok {
				continue
			}
			ix.Add(key, candidate, seedKey, seed)
		}
	}
	return ix
}
