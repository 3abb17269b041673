package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	perrors "github.com/hepplot/pythiaplotter/pkg/errors"
)

func TestOutputBase(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		output string
		want   string
	}{
		{"derived from input", "events/run7.txt", "", "events/run7"},
		{"explicit output", "run7.txt", "plots/z0.pdf", "plots/z0"},
		{"explicit base without extension", "run7.txt", "plots/z0", "plots/z0"},
		{"no extension at all", "run7", "", "run7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputBase(tt.input, tt.output); got != tt.want {
				t.Errorf("outputBase(%q, %q) = %q, want %q", tt.input, tt.output, got, tt.want)
			}
		})
	}
}

func TestResolveFormat(t *testing.T) {
	f, err := resolveFormat("run7.hepmc", "")
	if err != nil {
		t.Fatalf("resolveFormat: %v", err)
	}
	if f.Name != "hepmc" {
		t.Errorf("detected %q, want hepmc", f.Name)
	}

	f, err = resolveFormat("dump.log", "pythia8")
	if err != nil {
		t.Fatalf("resolveFormat with explicit tag: %v", err)
	}
	if f.Name != "pythia8" {
		t.Errorf("explicit tag resolved to %q, want pythia8", f.Name)
	}

	if _, err := resolveFormat("run7.dat", ""); !perrors.Is(err, perrors.ErrCodeInvalidFormat) {
		t.Errorf("resolveFormat unknown extension = %v, want INVALID_FORMAT", err)
	}
	if _, err := resolveFormat("run7.txt", "madgraph"); !perrors.Is(err, perrors.ErrCodeInvalidFormat) {
		t.Errorf("resolveFormat unknown tag = %v, want INVALID_FORMAT", err)
	}
}

const sampleListing = ` --------  PYTHIA Event Listing  (full event)  -------------------------------

    no        id   name            status     mothers   daughters     colours      p_x        p_y        p_z         e          m
     0        90   (system)           -11     0     0     0     0     0     0      0.000      0.000      0.000  13000.000  13000.000
     1      2212   (p+)               -12     0     0     3     0     0     0      0.000      0.000   6500.000   6500.000      0.938
     2      2212   (p+)               -12     0     0     4     0     0     0      0.000      0.000  -6500.000   6500.000      0.938
     3        21   (g)                -21     1     0     5     0   101   102      0.000      0.000    700.000    700.000      0.000
     4        21   (g)                -21     2     0     5     0   102   101      0.000      0.000   -600.000    600.000      0.000
     5         5   b                   23     3     4     0     0   103     0     30.000     20.000     50.000    650.000      4.800
                                   Charge sum:  0.000           Momentum sum:      0.000      0.000    100.000  13000.000  12998.462

 --------  End PYTHIA Event Listing  -----------------------------------------
`

func TestRunPlotWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "event.txt")
	if err := os.WriteFile(input, []byte(sampleListing), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	opts := &plotOpts{
		noRender:   true,
		writeJSON:  true,
		highlights: []string{"b"},
	}
	if err := runPlot(context.Background(), input, opts); err != nil {
		t.Fatalf("runPlot: %v", err)
	}

	gv, err := os.ReadFile(filepath.Join(dir, "event.gv"))
	if err != nil {
		t.Fatalf("DOT output not written: %v", err)
	}
	if !strings.Contains(string(gv), "digraph event {") {
		t.Errorf("DOT output malformed:\n%s", gv)
	}
	if !strings.Contains(string(gv), `fillcolor="gold"`) {
		t.Errorf("highlighted b quark not styled:\n%s", gv)
	}

	if _, err := os.Stat(filepath.Join(dir, "event.json")); err != nil {
		t.Errorf("JSON output not written: %v", err)
	}
}

func TestRunPlotMissingInput(t *testing.T) {
	opts := &plotOpts{noRender: true}
	err := runPlot(context.Background(), filepath.Join(t.TempDir(), "absent.txt"), opts)
	if !perrors.Is(err, perrors.ErrCodeInputNotFound) {
		t.Errorf("runPlot = %v, want INPUT_NOT_FOUND", err)
	}
}

func TestAllFormatsRegistered(t *testing.T) {
	want := []string{"pythia8", "hepmc", "lhe", "cmssw", "heppy"}
	formats := allFormats()
	if len(formats) != len(want) {
		t.Fatalf("allFormats() has %d entries, want %d", len(formats), len(want))
	}
	for i, name := range want {
		if formats[i].Name != name {
			t.Errorf("allFormats()[%d] = %q, want %q", i, formats[i].Name, name)
		}
	}
	for _, f := range formats {
		if f.Parse == nil {
			t.Errorf("format %q has no parse function", f.Name)
		}
	}
}
