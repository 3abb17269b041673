package hepmc

import (
	"strings"
	"testing"

	"github.com/hepplot/pythiaplotter/pkg/event"
	perrors "github.com/hepplot/pythiaplotter/pkg/errors"
	"github.com/hepplot/pythiaplotter/pkg/graph"
	"github.com/hepplot/pythiaplotter/pkg/parsers"
)

const sampleStream = `HepMC::Version 2.06.09
HepMC::IO_GenEvent-START_EVENT_LISTING
E 1 -1 -1.0 -1.0 -1.0 0 0 2 1 2 0 0
U GEV MM
V -1 0 0 0 0 0 0 3 0
P 1 2212 0 0 6500 6500 0.938 4 0 0 -1 0
P 2 2212 0 0 -6500 6500 0.938 4 0 0 -1 0
P 3 23 0 0 10 91.2 91.2 2 0 0 -2 0
V -2 0 0 0 0 0 0 2 0
P 4 13 20 5 5 45.6 0.106 1 0 0 0 0
P 5 -13 -20 -5 5 45.6 0.106 1 0 0 0 0
E 2 -1 -1.0 -1.0 -1.0 0 0 1 1 1 0 0
V -1 0 0 0 0 0 0 1 0
P 1 22 0 0 1 1 0 1 0 0 0 0
HepMC::IO_GenEvent-END_EVENT_LISTING
`

func TestParseFirstEvent(t *testing.T) {
	ev, err := Parse(strings.NewReader(sampleStream), parsers.Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ev.Number != 1 {
		t.Errorf("Number = %d, want 1", ev.Number)
	}
	if len(ev.Particles) != 5 {
		t.Fatalf("len(Particles) = %d, want 5", len(ev.Particles))
	}

	beam := ev.Particles[0]
	if beam.Status != event.StatusIncoming {
		t.Errorf("self-loop beam status = %v, want incoming", beam.Status)
	}
	if beam.VertexIn != -1 {
		t.Errorf("beam decay vertex = %d, want -1", beam.VertexIn)
	}
	if beam.VertexOut <= 0 {
		t.Errorf("beam production vertex = %d, want synthesized positive", beam.VertexOut)
	}

	z := ev.Particles[2]
	if z.VertexOut != -1 || z.VertexIn != -2 {
		t.Errorf("Z0 vertices = %d -> %d, want -1 -> -2", z.VertexOut, z.VertexIn)
	}

	mu := ev.Particles[3]
	if mu.Status != event.StatusFinal {
		t.Errorf("dangling muon status = %v, want final", mu.Status)
	}
	if mu.VertexOut != -2 {
		t.Errorf("muon production vertex = %d, want -2", mu.VertexOut)
	}
	if mu.VertexIn <= 0 {
		t.Errorf("muon decay vertex = %d, want synthesized positive", mu.VertexIn)
	}
	if mu.VertexIn == ev.Particles[4].VertexIn {
		t.Error("synthesized final-state vertices collide")
	}
}

func TestParseSelectsEvent(t *testing.T) {
	ev, err := Parse(strings.NewReader(sampleStream), parsers.Options{EventNumber: 2})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ev.Number != 2 {
		t.Errorf("Number = %d, want 2", ev.Number)
	}
	if len(ev.Particles) != 1 {
		t.Errorf("len(Particles) = %d, want 1", len(ev.Particles))
	}
}

func TestParseUnknownEventFallsBack(t *testing.T) {
	ev, err := Parse(strings.NewReader(sampleStream), parsers.Options{EventNumber: 99})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ev.Number != 1 {
		t.Errorf("Number = %d, want fallback to first event", ev.Number)
	}
}

func TestParseEmptyStream(t *testing.T) {
	_, err := Parse(strings.NewReader("HepMC::Version 2.06.09\n"), parsers.Options{})
	if !perrors.Is(err, perrors.ErrCodeParse) {
		t.Errorf("Parse = %v, want PARSE_ERROR", err)
	}
}

func TestParseParticleOutsideVertex(t *testing.T) {
	src := "E 1 -1 -1.0 -1.0 -1.0 0 0 1 1 1 0 0\nP 1 22 0 0 1 1 0 1 0 0 0 0\n"
	_, err := Parse(strings.NewReader(src), parsers.Options{})
	if !perrors.Is(err, perrors.ErrCodeParse) {
		t.Errorf("Parse = %v, want PARSE_ERROR", err)
	}
}

func TestParsedEventBuildsBothModes(t *testing.T) {
	ev, err := Parse(strings.NewReader(sampleStream), parsers.Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	eg, err := graph.BuildEdgeGraph(ev)
	if err != nil {
		t.Fatalf("BuildEdgeGraph: %v", err)
	}
	if eg.EdgeCount() != 5 {
		t.Errorf("edge graph EdgeCount() = %d, want 5", eg.EdgeCount())
	}

	ng, err := graph.BuildNodeGraph(ev)
	if err != nil {
		t.Fatalf("BuildNodeGraph: %v", err)
	}
	if ng.NodeCount() != 5 {
		t.Errorf("node graph NodeCount() = %d, want 5", ng.NodeCount())
	}
	// Parent links derived from shared vertices: the Z0 has both beams.
	if ng.InDegree(3) != 2 {
		t.Errorf("InDegree(Z0) = %d, want 2", ng.InDegree(3))
	}
}
