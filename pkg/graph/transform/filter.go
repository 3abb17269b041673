package transform

import (
	"slices"

	"github.com/hepplot/pythiaplotter/pkg/graph"
)

// RemoveByPDGID strips particles with the given |PDG| code from the
// graph, rewiring each removed particle's parents directly to its
// children. Both particle and antiparticle are removed. With finalOnly
// set, only final-state occurrences (no children) go, which is the safe
// default for decluttering soft photons without touching the decay
// structure. Returns the number of particles removed.
func RemoveByPDGID(g *graph.Graph, pdgid int, finalOnly bool) int {
	if pdgid < 0 {
		pdgid = -pdgid
	}
	if g.Mode() == graph.ModeEdge {
		return removeEdgesByPDGID(g, pdgid, finalOnly)
	}
	return removeNodesByPDGID(g, pdgid, finalOnly)
}

func removeNodesByPDGID(g *graph.Graph, pdgid int, finalOnly bool) int {
	removed := 0
	for {
		found := false
		for _, n := range g.Nodes() {
			if n.Particle == nil || abs(n.Particle.PDGID) != pdgid {
				continue
			}
			if finalOnly && g.OutDegree(n.Barcode) != 0 {
				continue
			}
			for _, in := range g.Incoming(n.Barcode) {
				for _, out := range g.Outgoing(n.Barcode) {
					g.AddEdge(graph.Edge{From: in.From, To: out.To})
				}
			}
			g.RemoveNode(n.Barcode)
			g.RemoveIsolated()
			removed++
			found = true
			break
		}
		if !found {
			return removed
		}
	}
}

func removeEdgesByPDGID(g *graph.Graph, pdgid int, finalOnly bool) int {
	removed := 0
	for {
		found := false
		edges := g.Edges()
		slices.SortFunc(edges, func(a, b *graph.Edge) int { return a.Barcode - b.Barcode })
		for _, e := range edges {
			if e.Particle == nil || abs(e.Particle.PDGID) != pdgid {
				continue
			}
			if finalOnly && g.OutDegree(e.To) != 0 {
				continue
			}
			mergeVertices(g, e)
			g.RemoveIsolated()
			removed++
			found = true
			break
		}
		if !found {
			return removed
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
