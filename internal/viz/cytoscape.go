// Package viz renders a citation graph as an interactive HTML page.
package viz

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fredbr/cocite/internal/citations"
	"github.com/fredbr/cocite/internal/paper"
)

// nodeLabelMaxLen bounds node labels drawn next to each node.
const nodeLabelMaxLen = 30

// CytoscapeElements is the Cytoscape.js elements document.
type CytoscapeElements struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// CytoscapeNode wraps node data in Cytoscape.js format.
type CytoscapeNode struct {
	Data NodeData `json:"data"`
}

// NodeData carries the fields rendered for one paper node.
type NodeData struct {
	ID      string `json:"id"`
	Type    string `json:"type"` // "seed", "cited", or "citing"
	Label   string `json:"label"`
	Title   string `json:"title,omitempty"`
	Authors string `json:"authors,omitempty"`
	Year    int    `json:"year,omitempty"`
	Venue   string `json:"venue,omitempty"`
	Count   int    `json:"count"` // c_in or c_out; 0 for seed nodes
}

// CytoscapeEdge wraps edge data in Cytoscape.js format.
type CytoscapeEdge struct {
	Data EdgeData `json:"data"`
}

// EdgeData carries the fields of one directed citation edge.
type EdgeData struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation"`
}

// ToCytoscapeJSON converts a citation graph to the Cytoscape.js elements
// format. Nodes within each partition are emitted in key order so the
// output is reproducible.
func ToCytoscapeJSON(g *citations.Graph) (string, error) {
	elements := CytoscapeElements{
		Nodes: make([]CytoscapeNode, 0, g.NodeCount()),
		Edges: make([]CytoscapeEdge, 0, len(g.Edges)),
	}

	appendPartition := func(partition map[string]citations.GraphNode, nodeType string) {
		keys := make([]string, 0, len(partition))
		for k := range partition {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			elements.Nodes = append(elements.Nodes, CytoscapeNode{Data: newNodeData(partition[k], nodeType)})
		}
	}

	appendPartition(g.SeedPapers, citations.PartitionSeed)
	appendPartition(g.CitedPapers, citations.PartitionCited)
	appendPartition(g.CitingPapers, citations.PartitionCiting)

	for i, e := range g.Edges {
		elements.Edges = append(elements.Edges, CytoscapeEdge{
			Data: EdgeData{
				ID:       fmt.Sprintf("e%d", i),
				Source:   e.Source,
				Target:   e.Target,
				Relation: e.Relation,
			},
		})
	}

	jsonBytes, err := json.Marshal(elements)
	if err != nil {
		return "", fmt.Errorf("marshaling Cytoscape elements to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// newNodeData builds the rendered data for one graph node.
func newNodeData(n citations.GraphNode, nodeType string) NodeData {
	count := n.CIn
	if nodeType == citations.PartitionCiting {
		count = n.COut
	}
	label := n.Title
	if label == "" {
		label = n.Key
	}
	return NodeData{
		ID:      n.Key,
		Type:    nodeType,
		Label:   paper.Truncate(label, nodeLabelMaxLen),
		Title:   n.Title,
		Authors: strings.Join(n.Authors, ", "),
		Year:    n.Year,
		Venue:   n.Venue,
		Count:   count,
	}
}
