// Package pythia8 parses particle listings out of Pythia 8 screen output.
//
// Pythia prints its event record as fixed-column tables embedded in
// otherwise unstructured log text. A run usually contains two listings,
// "hard process" and "full event"; both are located automatically, the
// caller never pre-trims the file. Row layout:
//
//	no  id  name  status  mothers(2)  daughters(2)  colours(2)  p_x p_y p_z e m
package pythia8

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

// Format describes the Pythia8 stdout input format.
var Format = &parsers.Format{
	Name:        "pythia8",
	Description: "Pythia 8 screen output piped into a file",
	Extensions:  []string{".txt"},
	DefaultMode: graph.ModeNode,
	Parse:       ParseFile,
}

const (
	listingStart = "PYTHIA Event Listing"
	listingEnd   = "End PYTHIA Event Listing"
	blockHard    = "hard process"
	blockFull    = "full event"

	// columns per particle row: no id name status 2 mothers 2 daughters
	// 2 colours px py pz e m
	rowColumns = 15
)

// ParseFile opens and parses a Pythia8 stdout dump.
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

// Parse locates the event listings in the stream and returns the
// requested one (full event by default, hard process with
// opts.HardProcess). When only one listing is present it is used
// regardless of the preference.
func Parse(r io.Reader, opts parsers.Options) (*event.Event, error) {
	blocks := map[string][]*event.Particle{}
	var current string // block being read, "" outside a listing

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()

		switch {
		case strings.Contains(text, listingEnd):
			current = ""
			continue
		case strings.Contains(text, listingStart):
			switch {
			case strings.Contains(text, blockHard):
				current = blockHard
			case strings.Contains(text, blockFull):
				current = blockFull
			default:
				current = blockFull
			}
			blocks[current] = nil
			continue
		case current == "":
			continue
		}

		trimmed := strings.TrimSpace(text)
		if trimmed == "" || skippableRow(trimmed) {
			continue
		}

		p, err := parseRow(line, trimmed)
		if err != nil {
			return nil, err
		}
		blocks[current] = append(blocks[current], p)
	}
	if err := scanner.Err(); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeParse, err, "reading input")
	}
	if current != "" {
		return nil, perrors.New(perrors.ErrCodeParse, "event listing %q has no end marker", current)
	}
	if len(blocks) == 0 {
		return nil, perrors.New(perrors.ErrCodeParse, "no PYTHIA event listing found in input")
	}

	particles := pickBlock(blocks, opts.HardProcess)
	if len(particles) == 0 {
		return nil, perrors.New(perrors.ErrCodeParse, "event listing contains no particle rows")
	}
	return &event.Event{Particles: particles}, nil
}

// skippableRow recognizes the in-table noise: the column header and the
// charge/momentum summary lines that close each listing.
func skippableRow(trimmed string) bool {
	return strings.HasPrefix(trimmed, "no ") ||
		strings.HasPrefix(trimmed, "Charge sum") ||
		strings.HasPrefix(trimmed, "Momentum sum")
}

func pickBlock(blocks map[string][]*event.Particle, hard bool) []*event.Particle {
	want, other := blockFull, blockHard
	if hard {
		want, other = blockHard, blockFull
	}
	if ps, ok := blocks[want]; ok && len(ps) > 0 {
		return ps
	}
	return blocks[other]
}

func parseRow(line int, row string) (*event.Particle, error) {
	fields := strings.Fields(row)
	if err := parsers.CheckColumns(line, fields, rowColumns); err != nil {
		return nil, err
	}

	ints := make([]int, 0, 9)
	for i, name := range []string{"no", "id", "status", "mother1", "mother2", "daughter1", "daughter2", "colour1", "colour2"} {
		idx := i
		if i >= 2 {
			idx = i + 1 // skip the name column
		}
		v, err := strconv.Atoi(fields[idx])
		if err != nil {
			return nil, parsers.Numf(line, name, err)
		}
		ints = append(ints, v)
	}

	floats := make([]float64, 0, 5)
	for i, name := range []string{"p_x", "p_y", "p_z", "e", "m"} {
		v, err := strconv.ParseFloat(fields[10+i], 64)
		if err != nil {
			return nil, parsers.Numf(line, name, err)
		}
		floats = append(floats, v)
	}

	p := &event.Particle{
		Barcode: ints[0],
		PDGID:   ints[1],
		Name:    fields[2],
		Parents: expandMothers(ints[3], ints[4]),
		Px:      floats[0], Py: floats[1], Pz: floats[2],
		E: floats[3], M: floats[4],
	}
	if ints[2] < 0 {
		p.Status = event.StatusIntermediate
	} else {
		p.Status = event.StatusFinal
	}
	return p, nil
}

// expandMothers applies Pythia's mother-pair conventions: (0,0) means no
// parent, (m,0) and (m,m) a single parent, an ordered pair an inclusive
// range of parents, and a reversed pair the two distinct parents.
func expandMothers(m1, m2 int) []int {
	switch {
	case m1 == 0 && m2 == 0:
		return nil
	case m2 == 0 || m1 == m2:
		return []int{m1}
	case m1 == 0:
		return []int{m2}
	case m1 < m2:
		parents := make([]int, 0, m2-m1+1)
		for m := m1; m <= m2; m++ {
			parents = append(parents, m)
		}
		return parents
	default:
		return []int{m1, m2}
	}
}
