// Package lhe parses Les Houches Event files.
//
// LHE is XML on the outside and fixed-column text on the inside: each
// <event> element holds a header line followed by one line per
// particle. Particle barcodes are implicit line positions starting at
// 1, and mother references use the (MOTHUP1, MOTHUP2) pair convention
// where 0 means "no mother".
package lhe

import (
	"encoding/xml"
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

// Format describes the Les Houches Event input format.
var Format = &parsers.Format{
	Name:        "lhe",
	Description: "Les Houches Event (LHE) files",
	Extensions:  []string{".lhe"},
	DefaultMode: graph.ModeNode,
	Parse:       ParseFile,
}

const particleColumns = 13

// ParseFile opens and parses an LHE file. Events are numbered by their
// position in the file starting at 1; opts.EventNumber selects one, and
// zero means the first.
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

// Parse streams through the XML, decoding only the selected <event>
// element's text content. The first event is kept while scanning so
// that a missing event number falls back to it; the caller sees the
// mismatch on Event.Number.
func Parse(r io.Reader, opts parsers.Options) (*event.Event, error) {
	want := opts.EventNumber
	if want == 0 {
		want = 1
	}

	dec := xml.NewDecoder(r)
	seen := 0
	var first *event.Event
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeParse, err, "malformed XML")
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "event" {
			continue
		}
		seen++
		if seen != want && first != nil {
			if err := dec.Skip(); err != nil {
				return nil, perrors.Wrap(perrors.ErrCodeParse, err, "malformed <event> element")
			}
			continue
		}

		var body struct {
			Text string `xml:",chardata"`
		}
		if err := dec.DecodeElement(&body, &start); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeParse, err, "malformed <event> element")
		}
		ev, err := parseEventBody(body.Text)
		if err != nil {
			return nil, err
		}
		ev.Number = seen
		if seen == want {
			return ev, nil
		}
		first = ev
	}

	if first != nil {
		return first, nil
	}
	return nil, perrors.New(perrors.ErrCodeParse, "no <event> elements found in input")
}

func parseEventBody(text string) (*event.Event, error) {
	ev := &event.Event{}
	header := false
	barcode := 0
	for n, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !header {
			// NUP IDPRUP XWGTUP SCALUP AQEDUP AQCDUP
			header = true
			continue
		}
		barcode++
		p, err := parseParticleLine(n+1, barcode, strings.Fields(line))
		if err != nil {
			return nil, err
		}
		ev.Particles = append(ev.Particles, p)
	}
	if len(ev.Particles) == 0 {
		return nil, perrors.New(perrors.ErrCodeParse, "<event> element has no particle lines")
	}
	return ev, nil
}

// IDUP ISTUP MOTHUP1 MOTHUP2 ICOLUP1 ICOLUP2 PX PY PZ E M VTIMUP SPINUP
func parseParticleLine(line, barcode int, fields []string) (*event.Particle, error) {
	if err := parsers.CheckColumns(line, fields, particleColumns); err != nil {
		return nil, err
	}

	pdgid, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, parsers.Numf(line, "IDUP", err)
	}
	status, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, parsers.Numf(line, "ISTUP", err)
	}
	m1, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, parsers.Numf(line, "MOTHUP1", err)
	}
	m2, err := strconv.Atoi(fields[3])
	if err != nil {
		return nil, parsers.Numf(line, "MOTHUP2", err)
	}

	kin := make([]float64, 5)
	for i, name := range []string{"PX", "PY", "PZ", "E", "M"} {
		kin[i], err = strconv.ParseFloat(fields[6+i], 64)
		if err != nil {
			return nil, parsers.Numf(line, name, err)
		}
	}

	p := &event.Particle{
		Barcode: barcode,
		PDGID:   pdgid,
		Parents: mothers(m1, m2),
		Px:      kin[0], Py: kin[1], Pz: kin[2], E: kin[3], M: kin[4],
	}
	switch {
	case status == -1:
		p.Status = event.StatusIncoming
	case status == 1:
		p.Status = event.StatusFinal
	default:
		p.Status = event.StatusIntermediate
	}
	return p, nil
}

// mothers expands the (MOTHUP1, MOTHUP2) pair. Zero entries are "no
// mother" sentinels and are dropped rather than kept as references.
func mothers(m1, m2 int) []int {
	switch {
	case m1 == 0 && m2 == 0:
		return nil
	case m2 == 0 || m1 == m2:
		return []int{m1}
	case m1 == 0:
		return []int{m2}
	case m1 < m2:
		out := make([]int, 0, m2-m1+1)
		for m := m1; m <= m2; m++ {
			out = append(out, m)
		}
		return out
	default:
		return []int{m1, m2}
	}
}
