package citations

import (
	"testing"

	"github.com/fredbr/cocite/internal/paper"
)

func TestBuildGraphPartitions(t *testing.T) {
	sharedRef := paper.Paper{Title: "Shared Reference"}
	sharedCiting := paper.Paper{Title: "Shared Citing"}

	doc := &Document{Papers: []SeedPaper{
		seed("10.1/a", "Paper A", []paper.Paper{sharedRef, {Title: "Lonely Ref"}}, []paper.Paper{sharedCiting}),
		seed("10.1/b", "Paper B", []paper.Paper{sharedRef}, []paper.Paper{sharedCiting}),
	}}

	g := BuildGraph(doc, 2, 2)

	if len(g.SeedPapers) != 2 {
		t.Errorf("seed partition size = %d, want 2", len(g.SeedPapers))
	}
	if len(g.CitedPapers) != 1 {
		t.Errorf("cited partition size = %d, want 1", len(g.CitedPapers))
	}
	if len(g.CitingPapers) != 1 {
		t.Errorf("citing partition size = %d, want 1", len(g.CitingPapers))
	}

	seedNode := g.SeedPapers["title:paper a"]
	if seedNode.DOI != "10.1/a" {
		t.Errorf("seed node DOI = %q, want input DOI 10.1/a", seedNode.DOI)
	}
	if seedNode.CIn != 0 || seedNode.COut != 0 {
		t.Error("seed nodes must not carry counts")
	}

	citedNode := g.CitedPapers["title:shared reference"]
	if citedNode.CIn != 2 || citedNode.COut != 0 {
		t.Errorf("cited node counts = (%d, %d), want (2, 0)", citedNode.CIn, citedNode.COut)
	}
	citingNode := g.CitingPapers["title:shared citing"]
	if citingNode.CIn != 0 || citingNode.COut != 2 {
		t.Errorf("citing node counts = (%d, %d), want (0, 2)", citingNode.CIn, citingNode.COut)
	}
}

func TestBuildGraphPartitionsDisjoint(t *testing.T) {
	// The same paper qualifies for both non-seed partitions: it is both
	// referenced by and citing the seed set. It lands in cited only.
	both := paper.Paper{Title: "Survey Paper"}

	doc := &Document{Papers: []SeedPaper{
		seed("10.1/a", "Paper A", []paper.Paper{both}, []paper.Paper{both}),
		seed("10.1/b", "Paper B", []paper.Paper{both}, []paper.Paper{both}),
	}}

	g := BuildGraph(doc, 2, 2)

	if _, ok := g.CitedPapers["title:survey paper"]; !ok {
		t.Error("dual-qualifying key missing from cited partition")
	}
	if _, ok := g.CitingPapers["title:survey paper"]; ok {
		t.Error("dual-qualifying key must not also appear in citing partition")
	}

	// Edges in both directions survive even though the node lives in one
	// partition.
	var toSurvey, fromSurvey int
	for _, e := range g.Edges {
		if e.Target == "title:survey paper" {
			toSurvey++
		}
		if e.Source == "title:survey paper" {
			fromSurvey++
		}
	}
	if toSurvey != 2 || fromSurvey != 2 {
		t.Errorf("survey edges = (%d in, %d out), want (2, 2)", toSurvey, fromSurvey)
	}
}

func TestBuildGraphExcludesSeedsFromNonSeedPartitions(t *testing.T) {
	doc := &Document{Papers: []SeedPaper{
		seed("10.1/a", "Paper A", []paper.Paper{{Title: "Paper B"}}, []paper.Paper{{Title: "Paper B"}}),
		seed("10.1/b", "Paper B", []paper.Paper{{Title: "Paper A"}}, []paper.Paper{{Title: "Paper A"}}),
	}}

	g := BuildGraph(doc, 1, 1)

	if len(g.CitedPapers) != 0 || len(g.CitingPapers) != 0 {
		t.Errorf("seed members leaked into non-seed partitions: cited=%d citing=%d",
			len(g.CitedPapers), len(g.CitingPapers))
	}

	// Seed-to-seed citation edges remain.
	if len(g.Edges) == 0 {
		t.Error("expected seed-to-seed edges")
	}
	for _, e := range g.Edges {
		if e.Relation != EdgeRelation {
			t.Errorf("edge relation = %q, want %q", e.Relation, EdgeRelation)
		}
	}
}

func TestBuildGraphSelfCitation(t *testing.T) {
	// A seed paper appearing in its own citing list produces a self-loop.
	doc := &Document{Papers: []SeedPaper{
		seed("10.1/a", "Paper A", nil, []paper.Paper{{Title: "Paper A"}}),
	}}

	g := BuildGraph(doc, 1, 1)

	found := false
	for _, e := range g.Edges {
		if e.Source == "title:paper a" && e.Target == "title:paper a" {
			found = true
		}
	}
	if !found {
		t.Error("self-citation edge missing")
	}
}

func TestBuildGraphEdgeIntegrityAndDedup(t *testing.T) {
	sharedRef := paper.Paper{Title: "Shared Reference"}

	doc := &Document{Papers: []SeedPaper{
		// The duplicate listing must not produce a duplicate edge, and the
		// below-threshold reference must not produce a dangling edge.
		seed("10.1/a", "Paper A", []paper.Paper{sharedRef, sharedRef, {Title: "Below Threshold"}}, nil),
		seed("10.1/b", "Paper B", []paper.Paper{sharedRef}, nil),
	}}

	g := BuildGraph(doc, 2, 2)

	type pair struct{ s, t string }
	seen := make(map[pair]bool)
	for _, e := range g.Edges {
		p := pair{e.Source, e.Target}
		if seen[p] {
			t.Errorf("duplicate edge %s -> %s", e.Source, e.Target)
		}
		seen[p] = true

		if !nodePresent(g, e.Source) || !nodePresent(g, e.Target) {
			t.Errorf("edge %s -> %s references a missing node", e.Source, e.Target)
		}
	}
	if len(g.Edges) != 2 {
		t.Errorf("got %d edges, want 2 (one per seed into the shared reference)", len(g.Edges))
	}
}

func TestBuildGraphEmpty(t *testing.T) {
	g := BuildGraph(&Document{Papers: []SeedPaper{}}, 2, 2)
	if !g.IsEmpty() {
		t.Error("graph of empty document should be empty")
	}
	if g.NodeCount() != 0 || len(g.Edges) != 0 {
		t.Errorf("nodes=%d edges=%d, want 0/0", g.NodeCount(), len(g.Edges))
	}
}

func nodePresent(g *Graph, key string) bool {
	if _, ok := g.SeedPapers[key]; ok {
		return true
	}
	if _, ok := g.CitedPapers[key]; ok {
		return true
	}
	_, ok := g.CitingPapers[key]
	return ok
}
