package citations

import "github.com/fredbr/cocite/internal/identity"

// Node partition tags.
const (
	PartitionSeed   = "seed"
	PartitionCited  = "cited"
	PartitionCiting = "citing"
)

// EdgeRelation is the relation tag carried by every graph edge.
const EdgeRelation = "cites"

// GraphNode is one paper node handed to a renderer. DOI is the input DOI
// for seed nodes and the merged record's DOI otherwise; CIn/COut are set
// only on cited/citing nodes respectively.
type GraphNode struct {
	Key     string   `json:"key"`
	DOI     string   `json:"doi,omitempty"`
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	Year    int      `json:"year"`
	Venue   string   `json:"venue"`
	CIn     int      `json:"c_in,omitempty"`
	COut    int      `json:"c_out,omitempty"`
}

// GraphEdge is a directed citation edge between two canonical keys.
type GraphEdge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation"`
}

// Graph is the renderer-agnostic node/edge structure: three disjoint node
// partitions keyed by canonical key, plus a deduplicated edge list in
// first-seen order.
type Graph struct {
	SeedPapers   map[string]GraphNode `json:"seed_papers"`
	CitedPapers  map[string]GraphNode `json:"cited_papers"`
	CitingPapers map[string]GraphNode `json:"citing_papers"`
	Edges        []GraphEdge          `json:"edges"`
}

// NodeCount returns the total number of nodes across all partitions.
func (g *Graph) NodeCount() int {
	return len(g.SeedPapers) + len(g.CitedPapers) + len(g.CitingPapers)
}

// IsEmpty reports whether the graph has no nodes.
func (g *Graph) IsEmpty() bool { return g.NodeCount() == 0 }

// BuildGraph constructs the citation graph for a document: one seed node
// per resolvable seed paper, cited nodes for reference-index entries with
// count >= kCited, citing nodes for citing-index entries with count >=
// kCiting. Seed-set members never appear in the cited or citing partitions,
// and a key that qualifies for both non-seed partitions is placed in the
// cited partition only, keeping the partitions disjoint.
//
// Edges run seed -> reference and citing -> seed, all tagged "cites". Only
// edges with both endpoints in the node-partition union are kept, and a
// repeated (source, target) pair collapses to one edge.
func BuildGraph(doc *Document, kCited, kCiting int) *Graph {
	g := &Graph{
		SeedPapers:   make(map[string]GraphNode),
		CitedPapers:  make(map[string]GraphNode),
		CitingPapers: make(map[string]GraphNode),
	}

	seeds := BuildSeedSet(doc)
	refIndex := BuildIndex(doc, References)
	citingIndex := BuildIndex(doc, CitedBy)

	for _, sp := range doc.Papers {
		if sp.Metadata == nil {
			continue
		}
		key, ok := identity.Resolve(*sp.Metadata)
		if !ok {
			continue
		}
		if _, seen := g.SeedPapers[key]; seen {
			continue
		}
		g.SeedPapers[key] = GraphNode{
			Key:     key,
			DOI:     sp.InputDOI,
			Title:   sp.Metadata.Title,
			Authors: sp.Metadata.Authors,
			Year:    sp.Metadata.Year,
			Venue:   sp.Metadata.Venue,
		}
	}

	for _, e := range refIndex.Entries() {
		if seeds.Contains(e.Key) || e.Count() < kCited {
			continue
		}
		g.CitedPapers[e.Key] = graphNode(e, e.Count(), 0)
	}

	for _, e := range citingIndex.Entries() {
		if seeds.Contains(e.Key) || e.Count() < kCiting {
			continue
		}
		if _, inCited := g.CitedPapers[e.Key]; inCited {
			continue
		}
		g.CitingPapers[e.Key] = graphNode(e, 0, e.Count())
	}

	g.Edges = buildEdges(doc, g)
	return g
}

// graphNode builds a non-seed node from an index entry.
func graphNode(e *Entry, cIn, cOut int) GraphNode {
	return GraphNode{
		Key:     e.Key,
		DOI:     e.Record.DOI,
		Title:   e.Record.Title,
		Authors: e.Record.Authors,
		Year:    e.Record.Year,
		Venue:   e.Record.Venue,
		CIn:     cIn,
		COut:    cOut,
	}
}

// buildEdges walks the document's relation lists in input order, emitting
// seed->reference and citing->seed edges restricted to keys present in the
// graph's node partitions, deduplicated by (source, target).
func buildEdges(doc *Document, g *Graph) []GraphEdge {
	present := func(key string) bool {
		if _, ok := g.SeedPapers[key]; ok {
			return true
		}
		if _, ok := g.CitedPapers[key]; ok {
			return true
		}
		_, ok := g.CitingPapers[key]
		return ok
	}

	type pair struct{ source, target string }
	seen := make(map[pair]bool)
	var edges []GraphEdge

	add := func(source, target string) {
		if !present(source) || !present(target) {
			return
		}
		p := pair{source, target}
		if seen[p] {
			return
		}
		seen[p] = true
		edges = append(edges, GraphEdge{Source: source, Target: target, Relation: EdgeRelation})
	}

	for _, sp := range doc.Papers {
		if sp.Metadata == nil {
			continue
		}
		seedKey, ok := identity.Resolve(*sp.Metadata)
		if !ok {
			continue
		}
		for _, ref := range sp.References {
			if refKey, ok := identity.Resolve(ref); ok {
				add(seedKey, refKey)
			}
		}
		for _, citing := range sp.CitedBy {
			if citingKey, ok := identity.Resolve(citing); ok {
				add(citingKey, seedKey)
			}
		}
	}
	return edges
}
