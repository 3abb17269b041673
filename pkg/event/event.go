// Package event defines the particle and event records shared by all
// input-format parsers.
//
// A Particle is one row of an event listing: a barcode unique within its
// event, a PDG species code, declared parent barcodes, a status flag, and
// whatever kinematics the source format provides. Records are created once
// per parsed line and are not modified by the parsers afterwards; only the
// graph builder adjusts status flags once the full parent/child structure
// is known.
package event

import (
	"fmt"
	"strings"

	"github.com/hepplot/pythiaplotter/pkg/event/pdg"
)

// Status classifies a particle's role in the event record.
type Status int

const (
	// StatusIntermediate marks a particle that both has parents and decays.
	StatusIntermediate Status = iota
	// StatusIncoming marks an initial-state (beam or hard-process input) particle.
	StatusIncoming
	// StatusFinal marks a final-state particle with no recorded children.
	StatusFinal
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusIncoming:
		return "incoming"
	case StatusFinal:
		return "final"
	default:
		return "intermediate"
	}
}

// Particle is a single record from an event listing.
type Particle struct {
	Barcode int    // unique within one event
	PDGID   int    // PDG species code
	Name    string // display name from the listing, if it carries one
	Status  Status

	// Parents holds the declared parent barcodes. The interpretation of
	// sentinel values (0 for Pythia8, -1 for CMSSW) is left to the graph
	// builder, which knows the full record set.
	Parents []int

	// VertexOut and VertexIn are set by vertex-bearing formats (HepMC):
	// the particle is outgoing from VertexOut and incoming into VertexIn.
	VertexOut int
	VertexIn  int

	// Kinematics, where the format provides them. Zero otherwise.
	Px, Py, Pz float64
	E, M       float64
	Pt         float64
	Eta, Phi   float64
}

// DisplayName returns the listing name when present, falling back to the
// PDG lookup table.
func (p *Particle) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return pdg.Name(p.PDGID)
}

// Label returns the "barcode: name" form used on diagrams.
func (p *Particle) Label() string {
	return fmt.Sprintf("%d: %s", p.Barcode, p.DisplayName())
}

// String implements fmt.Stringer for log output.
func (p *Particle) String() string {
	return fmt.Sprintf("Particle{%d %s pdg=%d status=%s parents=%v}",
		p.Barcode, p.DisplayName(), p.PDGID, p.Status, p.Parents)
}

// Event is one simulated collision: the ordered particle records parsed
// from a single event block, plus provenance for diagram titles.
type Event struct {
	Number    int    // event number from the source, 0 when the format has none
	Source    string // input path or description, used on the diagram title
	Label     string // optional free-text title
	Particles []*Particle
}

// Particle returns the record with the given barcode, or nil.
func (ev *Event) Particle(barcode int) *Particle {
	for _, p := range ev.Particles {
		if p.Barcode == barcode {
			return p
		}
	}
	return nil
}

// Title builds the diagram heading from label, source, and event number.
func (ev *Event) Title() string {
	var parts []string
	if ev.Label != "" {
		parts = append(parts, ev.Label)
	}
	if ev.Source != "" {
		parts = append(parts, ev.Source)
	}
	if ev.Number > 0 {
		parts = append(parts, fmt.Sprintf("event %d", ev.Number))
	}
	return strings.Join(parts, ", ")
}
