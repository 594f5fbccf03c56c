// Package topo builds directed topology graphs from parsed OSPF link-state
// databases.
//
// Unlike a dependency tree, an OSPF topology routinely contains cycles, so
// the graph imposes no acyclicity constraint. Nodes are typed by the LSA
// collection they came from, and dangling references materialize ghost
// placeholder nodes so every edge has two endpoints.
package topo

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Kind distinguishes node types in the topology.
type Kind int

const (
	// KindRouter is a node advertised by a router LSA.
	KindRouter Kind = iota
	// KindNetwork is a transit network from a network LSA.
	KindNetwork
	// KindSummary is an inter-area prefix from a summary LSA.
	KindSummary
	// KindGhost is a placeholder created for a reference to a node that was
	// never advertised (or whose identifier was empty).
	KindGhost
)

// String returns the lowercase kind name used in labels and serialization.
func (k Kind) String() string {
	switch k {
	case KindRouter:
		return "router"
	case KindNetwork:
		return "network"
	case KindSummary:
		return "summary"
	case KindGhost:
		return "ghost"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Node is a vertex in the topology graph.
type Node struct {
	ID     string // Unique identifier (router ID, network ID, or prefix)
	Kind   Kind
	AreaID string // OSPF area, where known
}

// Label returns the two-line display label used by the renderers.
func (n Node) Label() string {
	switch n.Kind {
	case KindRouter:
		return "Router\n" + n.ID
	case KindNetwork:
		return "Network\n" + n.ID
	case KindSummary:
		return "Summary\n" + n.ID
	case KindGhost:
		return "Ghost\n" + n.ID
	}
	return n.ID
}

// Edge is a directed connection between two nodes.
type Edge struct {
	From   string
	To     string
	Metric int // Link cost where known, 0 otherwise
}

// Graph is a directed multigraph of the OSPF topology.
// The zero value is not usable; use [New]. Graph is not safe for concurrent
// mutation without external synchronization.
type Graph struct {
	nodes      map[string]*Node
	order      []string // insertion order, for deterministic iteration
	edges      []Edge
	ghostCount int
}

// New creates an empty topology graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID for an empty ID and ErrDuplicateNodeID when the
// ID is already present.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := n
	g.nodes[node.ID] = &node
	g.order = append(g.order, node.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Parallel edges are allowed; OSPF dumps often describe the same adjacency
// from both ends.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	return nil
}

// Node returns the node with the given ID, or nil if absent.
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// GhostCount returns how many ghost placeholders were materialized.
func (g *Graph) GhostCount() int { return g.ghostCount }

// ensure returns the node ID to use for a reference, creating a ghost
// placeholder when the reference is empty or points at a node that was
// never advertised. Repeated lookups of the same ID share one node.
func (g *Graph) ensure(id string) string {
	if id == "" {
		return g.addGhost()
	}
	if _, ok := g.nodes[id]; ok {
		return id
	}
	g.ghostCount++
	ghost := Node{ID: id, Kind: KindGhost}
	g.nodes[id] = &ghost
	g.order = append(g.order, id)
	return id
}

// addGhost creates an anonymous ghost node with a generated identifier.
func (g *Graph) addGhost() string {
	g.ghostCount++
	id := fmt.Sprintf("vNode%d", g.ghostCount)
	for g.nodes[id] != nil {
		g.ghostCount++
		id = fmt.Sprintf("vNode%d", g.ghostCount)
	}
	ghost := Node{ID: id, Kind: KindGhost}
	g.nodes[id] = &ghost
	g.order = append(g.order, id)
	return id
}
