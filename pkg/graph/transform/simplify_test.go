package transform

import (
	"testing"

	"github.com/hepplot/pythiaplotter/pkg/event"
	"github.com/hepplot/pythiaplotter/pkg/graph"
)

func nodeGraph(t *testing.T, particles []*event.Particle, links [][2]int) *graph.Graph {
	t.Helper()
	g := graph.New(graph.ModeNode)
	for _, p := range particles {
		if err := g.AddNode(graph.Node{Barcode: p.Barcode, Particle: p}); err != nil {
			t.Fatalf("AddNode(%d): %v", p.Barcode, err)
		}
	}
	for _, l := range links {
		if err := g.AddEdge(graph.Edge{From: l[0], To: l[1]}); err != nil {
			t.Fatalf("AddEdge(%d -> %d): %v", l[0], l[1], err)
		}
	}
	return g
}

func hasEdge(g *graph.Graph, from, to int) bool {
	for _, e := range g.Edges() {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

func TestRemoveRedundantsGluonChain(t *testing.T) {
	// Repeated gluon self-radiation 195 -> 278 -> 323 -> 394: the
	// interior collapses, the chain endpoints survive.
	g := nodeGraph(t, []*event.Particle{
		{Barcode: 195, PDGID: 21},
		{Barcode: 278, PDGID: 21},
		{Barcode: 323, PDGID: 21},
		{Barcode: 394, PDGID: 21},
	}, [][2]int{{195, 278}, {278, 323}, {323, 394}})

	if got := RemoveRedundants(g); got != 2 {
		t.Errorf("RemoveRedundants() = %d, want 2", got)
	}
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", g.NodeCount())
	}
	if !hasEdge(g, 195, 394) {
		t.Error("chain endpoints not rewired together")
	}

	if got := RemoveRedundants(g); got != 0 {
		t.Errorf("second RemoveRedundants() = %d, want 0", got)
	}
}

func TestRemoveRedundantsKeepsSpeciesChanges(t *testing.T) {
	// b -> b -> B0: the middle b has a same-code parent but a
	// different-code child, so it stays.
	g := nodeGraph(t, []*event.Particle{
		{Barcode: 1, PDGID: 5},
		{Barcode: 2, PDGID: 5},
		{Barcode: 3, PDGID: 511},
	}, [][2]int{{1, 2}, {2, 3}})

	if got := RemoveRedundants(g); got != 0 {
		t.Errorf("RemoveRedundants() = %d, want 0", got)
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
}

func TestRemoveRedundantsKeepsBranchPoints(t *testing.T) {
	// g -> g -> (g, g): the middle gluon radiates, two children, stays.
	g := nodeGraph(t, []*event.Particle{
		{Barcode: 1, PDGID: 21},
		{Barcode: 2, PDGID: 21},
		{Barcode: 3, PDGID: 21},
		{Barcode: 4, PDGID: 21},
	}, [][2]int{{1, 2}, {2, 3}, {2, 4}})

	if got := RemoveRedundants(g); got != 0 {
		t.Errorf("RemoveRedundants() = %d, want 0", got)
	}
	if g.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", g.NodeCount())
	}
}

func TestRemoveRedundantsEdgeMode(t *testing.T) {
	// Same gluon chain in the vertex-as-node representation.
	ev := &event.Event{
		Particles: []*event.Particle{
			{Barcode: 195, PDGID: 21},
			{Barcode: 278, PDGID: 21, Parents: []int{195}},
			{Barcode: 323, PDGID: 21, Parents: []int{278}},
			{Barcode: 394, PDGID: 21, Parents: []int{323}},
		},
	}
	g, err := graph.BuildEdgeGraph(ev)
	if err != nil {
		t.Fatalf("BuildEdgeGraph: %v", err)
	}

	if got := RemoveRedundants(g); got != 2 {
		t.Errorf("RemoveRedundants() = %d, want 2", got)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}

	var barcodes []int
	for _, e := range g.Edges() {
		barcodes = append(barcodes, e.Barcode)
	}
	for _, want := range []int{195, 394} {
		found := false
		for _, b := range barcodes {
			if b == want {
				found = true
			}
		}
		if !found {
			t.Errorf("endpoint particle %d missing, have %v", want, barcodes)
		}
	}
}

func TestRemoveRedundantsEdgeModeKeepsFinalState(t *testing.T) {
	// A final-state gluon has no same-code child, so the last link of a
	// chain always survives.
	ev := &event.Event{
		Particles: []*event.Particle{
			{Barcode: 1, PDGID: 21},
			{Barcode: 2, PDGID: 21, Parents: []int{1}},
		},
	}
	g, err := graph.BuildEdgeGraph(ev)
	if err != nil {
		t.Fatalf("BuildEdgeGraph: %v", err)
	}

	if got := RemoveRedundants(g); got != 0 {
		t.Errorf("RemoveRedundants() = %d, want 0", got)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}
