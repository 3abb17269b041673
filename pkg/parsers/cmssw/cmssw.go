// Package cmssw parses the table printed by the CMSSW
// ParticleListDrawer analyzer.
//
// The table is pipe-delimited with one row per particle, indexed from
// zero. Mother references are (Mo1, Mo2) index pairs where -1 means "no
// mother". Particle names appear in the listing itself, so PDG lookup
// is only a fallback.
package cmssw

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

// Format describes the CMSSW ParticleListDrawer input format.
var Format = &parsers.Format{
	Name:        "cmssw",
	Description: "CMSSW ParticleListDrawer output",
	Extensions:  []string{".log"},
	DefaultMode: graph.ModeNode,
	Parse:       ParseFile,
}

const tableColumns = 7

// ParseFile opens and parses a ParticleListDrawer log.
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

// Parse scans for the listing header and reads rows until the first
// line that is not a particle row. Only one listing per file is
// expected; the log around it is ignored.
func Parse(r io.Reader, opts parsers.Options) (*event.Event, error) {
	ev := &event.Event{}
	inTable := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		switch {
		case !inTable:
			if strings.HasPrefix(text, "idx") && strings.Contains(text, "|") {
				inTable = true
			}
		case text == "" || !isParticleRow(text):
			inTable = false
		default:
			p, err := parseRow(line, text)
			if err != nil {
				return nil, err
			}
			ev.Particles = append(ev.Particles, p)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeParse, err, "reading input")
	}

	if len(ev.Particles) == 0 {
		return nil, perrors.New(perrors.ErrCodeParse, "no ParticleListDrawer table found in input")
	}
	return ev, nil
}

func isParticleRow(text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	_, err := strconv.Atoi(fields[0])
	return err == nil && strings.Contains(text, "|")
}

// Rows look like:
//
//	0 |  2212 - p+ |  3|  -1  -1   2   2 | 0 1 |  pt eta phi |  px py pz m |
func parseRow(line int, text string) (*event.Particle, error) {
	cols := strings.Split(strings.TrimSuffix(text, "|"), "|")
	if err := parsers.CheckColumns(line, cols, tableColumns); err != nil {
		return nil, err
	}

	idx, err := strconv.Atoi(strings.TrimSpace(cols[0]))
	if err != nil {
		return nil, parsers.Numf(line, "idx", err)
	}

	pdgid, name, err := parseIDName(line, cols[1])
	if err != nil {
		return nil, err
	}

	status, err := strconv.Atoi(strings.TrimSpace(cols[2]))
	if err != nil {
		return nil, parsers.Numf(line, "Stat", err)
	}

	refs := strings.Fields(cols[3])
	if err := parsers.CheckColumns(line, refs, 4); err != nil {
		return nil, err
	}
	mo1, err := strconv.Atoi(refs[0])
	if err != nil {
		return nil, parsers.Numf(line, "Mo1", err)
	}
	mo2, err := strconv.Atoi(refs[1])
	if err != nil {
		return nil, parsers.Numf(line, "Mo2", err)
	}

	p := &event.Particle{
		Barcode: idx,
		PDGID:   pdgid,
		Name:    name,
		Parents: mothers(mo1, mo2),
	}

	// pt eta phi then px py pz m; "inf" and "nan" appear for beams and
	// are accepted by ParseFloat.
	angular := strings.Fields(cols[5])
	if len(angular) == 3 {
		p.Pt, _ = strconv.ParseFloat(angular[0], 64)
		p.Eta, _ = strconv.ParseFloat(angular[1], 64)
		p.Phi, _ = strconv.ParseFloat(angular[2], 64)
	}
	kin := strings.Fields(cols[6])
	if len(kin) == 4 {
		p.Px, _ = strconv.ParseFloat(kin[0], 64)
		p.Py, _ = strconv.ParseFloat(kin[1], 64)
		p.Pz, _ = strconv.ParseFloat(kin[2], 64)
		p.M, _ = strconv.ParseFloat(kin[3], 64)
	}

	if status == 1 {
		p.Status = event.StatusFinal
	} else {
		p.Status = event.StatusIntermediate
	}
	return p, nil
}

// parseIDName splits the "ID - Name" column. Splitting on fields keeps
// a leading minus sign with the PDG ID instead of eating it as the
// separator.
func parseIDName(line int, col string) (int, string, error) {
	fields := strings.Fields(col)
	if len(fields) < 3 || fields[1] != "-" {
		return 0, "", perrors.New(perrors.ErrCodeParse, "line %d: malformed ID column %q", line, col)
	}
	pdgid, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, "", parsers.Numf(line, "ID", err)
	}
	return pdgid, strings.Join(fields[2:], " "), nil
}

// mothers expands the (Mo1, Mo2) index pair, dropping -1 sentinels.
func mothers(mo1, mo2 int) []int {
	switch {
	case mo1 < 0 && mo2 < 0:
		return nil
	case mo2 < 0 || mo1 == mo2:
		return []int{mo1}
	case mo1 < 0:
		return []int{mo2}
	case mo1 < mo2:
		out := make([]int, 0, mo2-mo1+1)
		for m := mo1; m <= mo2; m++ {
			out = append(out, m)
		}
		return out
	default:
		return []int{mo1, mo2}
	}
}
