// Package viz renders topology graphs as interactive HTML, Graphviz DOT,
// and raster images.
//
// The package converts [topo.Graph] into flat node and edge lists and hands
// layout entirely to the target library: vis-network in the HTML output,
// Graphviz for DOT, SVG, and PNG. No layout is computed here.
package viz

import (
	"fmt"

	"github.com/pathprobe/pathprobe/pkg/topo"
)

// Node represents a topology node throughout the viz package.
type Node struct {
	ID    int
	Type  string
	Label string
	Title string
	Color string
}

// Edge represents a directed topology edge throughout the viz package.
type Edge struct {
	From, To int
	Title    string
}

// colors maps node types to their display color.
var colors = map[string]string{
	"router":  "lightblue",
	"network": "lightgreen",
	"summary": "orange",
	"ghost":   "red",
}

// FromGraph converts a topology graph into viz nodes and edges.
// Node indices are assigned in graph insertion order, so output is
// deterministic for a given database.
func FromGraph(g *topo.Graph) ([]Node, []Edge) {
	idx := make(map[string]int, g.NodeCount())

	nodes := make([]Node, 0, g.NodeCount())
	for i, n := range g.Nodes() {
		idx[n.ID] = i
		nodes = append(nodes, Node{
			ID:    i,
			Type:  n.Kind.String(),
			Label: n.Label(),
			Title: nodeTitle(n),
			Color: colors[n.Kind.String()],
		})
	}

	edges := make([]Edge, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		edge := Edge{From: idx[e.From], To: idx[e.To]}
		if e.Metric > 0 {
			edge.Title = fmt.Sprintf("metric %d", e.Metric)
		}
		edges = append(edges, edge)
	}

	return nodes, edges
}

// nodeTitle builds the hover tooltip for a node.
func nodeTitle(n *topo.Node) string {
	title := fmt.Sprintf("%s: %s", n.Kind, n.ID)
	if n.AreaID != "" {
		title += ", Area: " + n.AreaID
	}
	return title
}
