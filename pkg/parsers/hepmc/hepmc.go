// Package hepmc parses HepMC ASCII event files.
//
// The format is line-oriented: "E" starts an event, "V" a generator
// vertex, and "P" a particle attached to the most recently seen vertex.
// Particles carry their decay vertex barcode on the line itself, which
// makes edge (vertex-as-node) mode the natural graph representation.
package hepmc

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hepplot/pythiaplotter/pkg/event"
	perrors "github.com/hepplot/pythiaplotter/pkg/errors"
	"github.com/hepplot/pythiaplotter/pkg/graph"
	"github.com/hepplot/pythiaplotter/pkg/parsers"
)

// Format describes the HepMC ASCII input format.
var Format = &parsers.Format{
	Name:        "hepmc",
	Description: "HepMC ASCII event files",
	Extensions:  []string{".hepmc"},
	DefaultMode: graph.ModeEdge,
	Parse:       ParseFile,
}

const endMarker = "END_EVENT_LISTING"

// ParseFile opens and parses a HepMC file, selecting the event with
// opts.EventNumber (first event when zero or not found; the returned
// event's Number field tells the caller which one was used).
func ParseFile(path string, opts parsers.Options) (*event.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInputNotFound, err, "cannot open %s", path)
	}
	defer f.Close()

	ev, err := Parse(f, opts)
	if err != nil {
		return nil, err
	}
	ev.Source = filepath.Base(path)
	return ev, nil
}

// Parse reads every event in the stream and returns the selected one.
func Parse(r io.Reader, opts parsers.Options) (*event.Event, error) {
	var (
		events    []*event.Event
		current   *event.Event
		vertex    int // barcode of the most recent V line
		hasVertex bool
	)

	flush := func() {
		if current != nil {
			events = append(events, current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.Contains(text, endMarker) {
			if strings.Contains(text, endMarker) {
				flush()
			}
			continue
		}

		fields := strings.Fields(text)
		switch fields[0] {
		case "E":
			flush()
			ev, err := parseEventLine(line, fields)
			if err != nil {
				return nil, err
			}
			current = ev
			hasVertex = false
		case "V":
			if current == nil {
				return nil, perrors.New(perrors.ErrCodeParse, "line %d: vertex record outside an event", line)
			}
			v, err := parseVertexLine(line, fields)
			if err != nil {
				return nil, err
			}
			vertex, hasVertex = v, true
		case "P":
			if current == nil || !hasVertex {
				return nil, perrors.New(perrors.ErrCodeParse, "line %d: particle record outside a vertex", line)
			}
			p, err := parseParticleLine(line, fields)
			if err != nil {
				return nil, err
			}
			bindVertices(p, vertex)
			current.Particles = append(current.Particles, p)
		default:
			// header, units, weights, cross-section: recognized noise
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeParse, err, "reading input")
	}
	flush()

	if len(events) == 0 {
		return nil, perrors.New(perrors.ErrCodeParse, "no HepMC events found in input")
	}
	return selectEvent(events, opts.EventNumber), nil
}

// bindVertices attaches the production vertex and repairs the two
// special cases: a zero decay vertex is a dangling final-state particle
// and gets a synthesized positive vertex barcode; in == out is the beam
// self-loop convention, so the particle gets a fresh production vertex
// and is marked incoming. Synthesized barcodes are abs(vertex)+barcode,
// positive by construction while file vertex barcodes are negative.
func bindVertices(p *event.Particle, vertex int) {
	p.VertexOut = vertex
	if p.VertexIn == 0 {
		p.VertexIn = abs(p.VertexOut) + p.Barcode
		p.Status = event.StatusFinal
	}
	if p.VertexIn == p.VertexOut {
		p.VertexOut = abs(p.VertexOut) + p.Barcode
		p.Status = event.StatusIncoming
	}
}

func selectEvent(events []*event.Event, number int) *event.Event {
	if number != 0 {
		for _, ev := range events {
			if ev.Number == number {
				return ev
			}
		}
	}
	return events[0]
}

// E: event_num num_mpi scale aQCD aQED signal_id signal_vtx n_vtx beam1 beam2
func parseEventLine(line int, fields []string) (*event.Event, error) {
	if err := parsers.CheckColumns(line, fields, 2); err != nil {
		return nil, err
	}
	num, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, parsers.Numf(line, "event_num", err)
	}
	return &event.Event{Number: num}, nil
}

// V: barcode id x y z ctau n_orphan_in n_out
func parseVertexLine(line int, fields []string) (int, error) {
	if err := parsers.CheckColumns(line, fields, 2); err != nil {
		return 0, err
	}
	barcode, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, parsers.Numf(line, "vertex barcode", err)
	}
	return barcode, nil
}

// P: barcode pdgid px py pz energy mass status pol_theta pol_phi vtx_in
func parseParticleLine(line int, fields []string) (*event.Particle, error) {
	if err := parsers.CheckColumns(line, fields, 12); err != nil {
		return nil, err
	}

	barcode, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, parsers.Numf(line, "barcode", err)
	}
	pdgid, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, parsers.Numf(line, "pdgid", err)
	}
	status, err := strconv.Atoi(fields[8])
	if err != nil {
		return nil, parsers.Numf(line, "status", err)
	}
	vtxIn, err := strconv.Atoi(fields[11])
	if err != nil {
		return nil, parsers.Numf(line, "vtx_in", err)
	}

	kin := make([]float64, 5)
	for i, name := range []string{"px", "py", "pz", "energy", "mass"} {
		kin[i], err = strconv.ParseFloat(fields[3+i], 64)
		if err != nil {
			return nil, parsers.Numf(line, name, err)
		}
	}

	p := &event.Particle{
		Barcode:  barcode,
		PDGID:    pdgid,
		VertexIn: vtxIn,
		Px:       kin[0], Py: kin[1], Pz: kin[2], E: kin[3], M: kin[4],
	}
	if status == 1 {
		p.Status = event.StatusFinal
	} else {
		p.Status = event.StatusIntermediate
	}
	return p, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
