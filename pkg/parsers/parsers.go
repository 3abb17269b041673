// Package parsers defines the capability contract shared by the input
// format parsers.
//
// Each supported format (Pythia8 stdout, HepMC, LHE, CMSSW, Heppy) lives
// in its own subpackage and exports a [Format] describing itself and its
// parse function. The five layouts are physically unrelated - fixed-width
// tables inside log noise, a line-oriented event record, an XML
// container, and a binary ntuple - so there is no shared grammar, only
// this shared contract. Format selection is by explicit tag; matching a
// file extension is a convenience for the CLI, never content sniffing.
package parsers

import (
	"path/filepath"
	"strings"

	"github.com/hepplot/pythiaplotter/pkg/event"
	perrors "github.com/hepplot/pythiaplotter/pkg/errors"
	"github.com/hepplot/pythiaplotter/pkg/graph"
)

// Options configures a parse run. The zero value asks for the first
// event with default block selection.
type Options struct {
	// EventNumber selects the event to extract from multi-event inputs
	// (HepMC, LHE; 1-based). Zero means the first event. If no event with
	// the given number exists the parser falls back to the first one.
	EventNumber int

	// HardProcess selects the Pythia8 "hard process" listing instead of
	// the "full event" listing when both are present.
	HardProcess bool

	// BranchPrefix overrides the ntuple branch prefix for the Heppy
	// format (default "GenPart_").
	BranchPrefix string
}

// Format describes one input format and how to parse it.
type Format struct {
	Name        string // tag used on the command line (e.g. "pythia8")
	Description string
	Extensions  []string   // file extensions this format claims (with dot)
	DefaultMode graph.Mode // natural graph representation for the format

	// Available probes for everything the parser needs beyond the input
	// file itself. A nil Available means the format is always usable;
	// returning an error disables just this format.
	Available func() error

	// Parse reads the file at path and returns one event.
	Parse func(path string, opts Options) (*event.Event, error)
}

// Usable reports whether the format can run, with the probe's reason
// when it cannot.
func (f *Format) Usable() (bool, error) {
	if f.Available == nil {
		return true, nil
	}
	if err := f.Available(); err != nil {
		return false, err
	}
	return true, nil
}

// Lookup finds a format by its tag.
func Lookup(name string, formats ...*Format) (*Format, error) {
	for _, f := range formats {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, perrors.New(perrors.ErrCodeInvalidFormat,
		"unknown input format %q (available: %s)", name, tags(formats))
}

// Detect picks the format claiming the file's extension. Used when the
// caller gives no explicit tag.
func Detect(path string, formats ...*Format) (*Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range formats {
		for _, fe := range f.Extensions {
			if ext == fe {
				return f, nil
			}
		}
	}
	return nil, perrors.New(perrors.ErrCodeInvalidFormat,
		"cannot determine input format for %s; use --input-format (available: %s)",
		filepath.Base(path), tags(formats))
}

func tags(formats []*Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}

// CheckColumns is the shared guard for fixed-column rows: it returns a
// coded parse error naming the line when fewer fields arrived than the
// layout requires.
func CheckColumns(line int, fields []string, want int) error {
	if len(fields) < want {
		return perrors.New(perrors.ErrCodeParse,
			"line %d: expected at least %d columns, got %d", line, want, len(fields))
	}
	return nil
}

// Numf wraps a numeric conversion failure with line context.
func Numf(line int, field string, err error) error {
	return perrors.Wrap(perrors.ErrCodeParse, err, "line %d: bad %s field", line, field)
}
