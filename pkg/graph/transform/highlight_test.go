package transform

import (
	"testing"

	"github.com/hepplot/pythiaplotter/pkg/event"
	"github.com/hepplot/pythiaplotter/pkg/graph"
)

func TestHighlightSetMatches(t *testing.T) {
	set := NewHighlightSet("b", "mu-")

	tests := []struct {
		name     string
		particle *event.Particle
		want     bool
	}{
		{"exact name", &event.Particle{PDGID: 5}, true},
		{"decorated listing name", &event.Particle{PDGID: 5, Name: "(b)"}, true},
		{"bracket decoration", &event.Particle{PDGID: 5, Name: "[b]"}, true},
		{"antiparticle not matched", &event.Particle{PDGID: -5}, false},
		{"prefix not matched", &event.Particle{PDGID: 511}, false},
		{"second entry", &event.Particle{PDGID: 13}, true},
		{"antimuon not matched", &event.Particle{PDGID: -13}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := set.Matches(tt.particle); got != tt.want {
				t.Errorf("Matches(%s) = %v, want %v", tt.particle.DisplayName(), got, tt.want)
			}
		})
	}
}

func TestNewHighlightSetStripsDecorations(t *testing.T) {
	set := NewHighlightSet("(b)")
	if !set.Matches(&event.Particle{PDGID: 5}) {
		t.Error("decorated request did not match the bare name")
	}
}

func TestHighlightSetEmpty(t *testing.T) {
	var set HighlightSet
	if set.Matches(&event.Particle{PDGID: 5}) {
		t.Error("empty set matched a particle")
	}
}

func TestHighlightTagsGraph(t *testing.T) {
	g := nodeGraph(t, []*event.Particle{
		{Barcode: 1, PDGID: 21},
		{Barcode: 2, PDGID: 5},
		{Barcode: 3, PDGID: -5},
	}, [][2]int{{1, 2}, {1, 3}})

	if got := Highlight(g, NewHighlightSet("b")); got != 1 {
		t.Errorf("Highlight() = %d, want 1", got)
	}
	n, _ := g.Node(2)
	if !n.Highlighted {
		t.Error("matching node not tagged")
	}
	anti, _ := g.Node(3)
	if anti.Highlighted {
		t.Error("antiparticle tagged by exact-match request")
	}
}

func TestHighlightEdgeMode(t *testing.T) {
	ev := &event.Event{
		Particles: []*event.Particle{
			{Barcode: 1, PDGID: 21},
			{Barcode: 2, PDGID: 5, Parents: []int{1}},
		},
	}
	g, err := graph.BuildEdgeGraph(ev)
	if err != nil {
		t.Fatalf("BuildEdgeGraph: %v", err)
	}

	if got := Highlight(g, NewHighlightSet("b")); got != 1 {
		t.Errorf("Highlight() = %d, want 1", got)
	}
	for _, e := range g.Edges() {
		if e.Barcode == 2 && !e.Highlighted {
			t.Error("matching edge not tagged")
		}
	}
}
