package graph

import (
	"bytes"
	"testing"

	"github.com/hepplot/pythiaplotter/pkg/event"
)

func TestJSONRoundTrip(t *testing.T) {
	g, err := BuildNodeGraph(smallEvent())
	if err != nil {
		t.Fatalf("BuildNodeGraph: %v", err)
	}
	n, _ := g.Node(3)
	n.Highlighted = true

	data, err := MarshalJSON(g)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}

	got, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if got.Mode() != ModeNode {
		t.Errorf("Mode() = %v, want node", got.Mode())
	}
	if got.NodeCount() != g.NodeCount() || got.EdgeCount() != g.EdgeCount() {
		t.Errorf("round trip counts = %d/%d, want %d/%d",
			got.NodeCount(), got.EdgeCount(), g.NodeCount(), g.EdgeCount())
	}

	z, ok := got.Node(3)
	if !ok {
		t.Fatal("node 3 missing after round trip")
	}
	if !z.Highlighted {
		t.Error("highlight flag lost in round trip")
	}
	if z.Particle.PDGID != 23 {
		t.Errorf("node 3 pdgid = %d, want 23", z.Particle.PDGID)
	}

	beam, _ := got.Node(1)
	if beam.Particle.Status != event.StatusIncoming {
		t.Errorf("beam status = %v, want incoming", beam.Particle.Status)
	}
}

func TestJSONRoundTripEdgeMode(t *testing.T) {
	g, err := BuildEdgeGraph(smallEvent())
	if err != nil {
		t.Fatalf("BuildEdgeGraph: %v", err)
	}

	data, err := MarshalJSON(g)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	got, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if got.Mode() != ModeEdge {
		t.Errorf("Mode() = %v, want edge", got.Mode())
	}
	if got.EdgeCount() != 5 {
		t.Errorf("EdgeCount() = %d, want 5", got.EdgeCount())
	}
	for _, e := range got.Edges() {
		if e.Particle == nil {
			t.Errorf("edge %d->%d lost its particle payload", e.From, e.To)
		}
	}
}

func TestWriteJSONDeterministic(t *testing.T) {
	g, err := BuildNodeGraph(smallEvent())
	if err != nil {
		t.Fatalf("BuildNodeGraph: %v", err)
	}

	a, err := MarshalJSON(g)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	b, err := MarshalJSON(g)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical graph serialized differently on repeat calls")
	}
}

func TestReadJSONRejectsCycle(t *testing.T) {
	src := `{
	  "mode": "node",
	  "nodes": [{"barcode": 1}, {"barcode": 2}],
	  "edges": [{"from": 1, "to": 2}, {"from": 2, "to": 1}]
	}`
	if _, err := ReadJSON(bytes.NewReader([]byte(src))); err == nil {
		t.Error("ReadJSON accepted a cyclic graph")
	}
}
