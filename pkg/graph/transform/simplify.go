// Package transform rewrites built event graphs in place: collapsing
// same-species radiation chains, tagging highlighted particles, and
// filtering species out of the picture.
//
// All transforms are deterministic (node order is barcode order), run to
// a fixpoint, and preserve branch points: a node with more than one
// parent or more than one child is never removed by simplification.
package transform

import (
	"slices"

	"github.com/hepplot/pythiaplotter/pkg/graph"
)

// RemoveRedundants collapses straight-line same-species decay chains.
//
// A particle is redundant when it sits on a non-branching path between
// two particles of the same PDG code: repeated gluon self-radiation
// (g -> g -> g) is the usual case. Each removal rewires the neighbours
// directly together, so a maximal chain head -> ... -> tail reduces to
// the single edge head -> tail with the interior dropped. The loop runs
// to a fixpoint; every pass strictly shrinks the graph, so it halts in
// O(nodes) passes. A second call is a no-op.
//
// Returns the number of particles removed.
func RemoveRedundants(g *graph.Graph) int {
	if g.Mode() == graph.ModeEdge {
		return removeRedundantEdges(g)
	}
	return removeRedundantNodes(g)
}

// removeRedundantNodes handles the particle-as-node representation: a
// node is removable when it has exactly one parent and exactly one child
// and its PDG code equals both neighbours' codes.
func removeRedundantNodes(g *graph.Graph) int {
	removed := 0
	for {
		victim := findRedundantNode(g)
		if victim == nil {
			return removed
		}
		in := g.Incoming(victim.Barcode)[0]
		out := g.Outgoing(victim.Barcode)[0]
		g.AddEdge(graph.Edge{From: in.From, To: out.To})
		g.RemoveNode(victim.Barcode)
		removed++
	}
}

func findRedundantNode(g *graph.Graph) *graph.Node {
	for _, n := range g.Nodes() {
		if n.Particle == nil {
			continue
		}
		if g.InDegree(n.Barcode) != 1 || g.OutDegree(n.Barcode) != 1 {
			continue
		}
		parent, _ := g.Node(g.Incoming(n.Barcode)[0].From)
		child, _ := g.Node(g.Outgoing(n.Barcode)[0].To)
		if parent.Particle == nil || child.Particle == nil {
			continue
		}
		if parent.Particle.PDGID == n.Particle.PDGID && child.Particle.PDGID == n.Particle.PDGID {
			return n
		}
	}
	return nil
}

// removeRedundantEdges handles the vertex-as-node representation: a
// particle edge is redundant when its production vertex has exactly one
// incoming particle of the same PDG code and no sibling particles, and
// its decay vertex produces at least one child of the same code (so
// final-state particles and branch points survive). Removal merges the
// edge's two vertices.
func removeRedundantEdges(g *graph.Graph) int {
	removed := 0
	for {
		victim := findRedundantEdge(g)
		if victim == nil {
			return removed
		}
		mergeVertices(g, victim)
		removed++
	}
}

func findRedundantEdge(g *graph.Graph) *graph.Edge {
	edges := g.Edges()
	slices.SortFunc(edges, func(a, b *graph.Edge) int { return a.Barcode - b.Barcode })
	for _, e := range edges {
		if e.Particle == nil {
			continue
		}
		parents := g.Incoming(e.From)
		siblings := g.Outgoing(e.From)
		children := g.Outgoing(e.To)
		if len(parents) != 1 || len(siblings) != 1 || len(children) == 0 {
			continue
		}
		if parents[0].Particle == nil || parents[0].Particle.PDGID != e.Particle.PDGID {
			continue
		}
		if !sameCodeChild(children, e.Particle.PDGID) {
			continue
		}
		return e
	}
	return nil
}

func sameCodeChild(children []*graph.Edge, pdgid int) bool {
	for _, c := range children {
		if c.Particle != nil && c.Particle.PDGID == pdgid {
			return true
		}
	}
	return false
}

// mergeVertices drops the redundant particle edge and folds its decay
// vertex into its production vertex, re-pointing every other edge that
// touched the decay vertex.
func mergeVertices(g *graph.Graph, e *graph.Edge) {
	outV, inV := e.From, e.To
	g.RemoveEdge(e)

	for _, child := range slices.Clone(g.Outgoing(inV)) {
		g.RemoveEdge(child)
		g.AddEdge(graph.Edge{From: outV, To: child.To, Barcode: child.Barcode, Particle: child.Particle, Highlighted: child.Highlighted})
	}
	for _, in := range slices.Clone(g.Incoming(inV)) {
		g.RemoveEdge(in)
		g.AddEdge(graph.Edge{From: in.From, To: outV, Barcode: in.Barcode, Particle: in.Particle, Highlighted: in.Highlighted})
	}
	g.RemoveNode(inV)
}
