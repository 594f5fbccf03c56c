package topo

import (
	"github.com/pathprobe/pathprobe/pkg/lsdb"
)

// Build converts a parsed link-state database into a topology graph.
//
// Nodes come first, one per advertised router, network, and summary prefix;
// a record with an empty identifier gets an anonymous ghost node. Edges are
// then added in the direction traffic is advertised:
//
//   - router -> each of its link targets
//   - attached router -> network
//   - advertising router -> summary prefix
//
// References to identifiers that were never advertised materialize ghost
// nodes, so the resulting graph never has dangling edges. Repeated
// references to the same identifier share a single ghost.
func Build(db *lsdb.Database) *Graph {
	g := New()

	for _, r := range db.RouterLSAs {
		addTyped(g, r.RouterID, KindRouter, r.AreaID)
	}
	for _, n := range db.NetworkLSAs {
		addTyped(g, n.NetworkID, KindNetwork, n.AreaID)
	}
	for _, s := range db.SummaryLSAs {
		addTyped(g, s.Prefix, KindSummary, s.AreaID)
	}

	for _, r := range db.RouterLSAs {
		from := g.ensure(r.RouterID)
		for _, link := range r.Links {
			to := g.ensure(link.LinkID)
			// AddEdge cannot fail here; both endpoints exist.
			_ = g.AddEdge(Edge{From: from, To: to, Metric: link.Metric})
		}
	}

	for _, n := range db.NetworkLSAs {
		to := g.ensure(n.NetworkID)
		for _, att := range n.AttachedRouters {
			from := g.ensure(att)
			_ = g.AddEdge(Edge{From: from, To: to})
		}
	}

	for _, s := range db.SummaryLSAs {
		from := g.ensure(s.AdvRouter)
		to := g.ensure(s.Prefix)
		_ = g.AddEdge(Edge{From: from, To: to, Metric: s.Metric})
	}

	return g
}

// addTyped registers an advertised node under its LSA kind. Empty
// identifiers are left to the edge pass, which materializes an anonymous
// ghost; a duplicate advertisement keeps the first node's kind and area.
func addTyped(g *Graph, id string, kind Kind, area string) {
	if id == "" {
		return
	}
	_ = g.AddNode(Node{ID: id, Kind: kind, AreaID: area})
}
