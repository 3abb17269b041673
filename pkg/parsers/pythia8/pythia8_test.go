package pythia8

import (
	"strings"
	"testing"

	"github.com/hepplot/pythiaplotter/pkg/event"
	perrors "github.com/hepplot/pythiaplotter/pkg/errors"
	"github.com/hepplot/pythiaplotter/pkg/parsers"
)

const sampleListing = ` --------  PYTHIA Event Listing  (hard process)  -----------------------------

    no        id   name            status     mothers   daughters     colours      p_x        p_y        p_z         e          m
     0        90   (system)           -11     0     0     0     0     0     0      0.000      0.000      0.000  13000.000  13000.000
     1      2212   (p+)               -12     0     0     3     0     0     0      0.000      0.000   6500.000   6500.000      0.938
     2      2212   (p+)               -12     0     0     4     0     0     0      0.000      0.000  -6500.000   6500.000      0.938
     3        21   (g)                -21     1     0     5     0   101   102      0.000      0.000    700.000    700.000      0.000
     4        21   (g)                -21     2     0     5     0   102   101      0.000      0.000   -600.000    600.000      0.000
     5        25   h0                  22     3     4     0     0     0     0      0.000      0.000    100.000   1300.000    125.000
                                   Charge sum:  0.000           Momentum sum:      0.000      0.000    100.000  13000.000  12998.462

 --------  End PYTHIA Event Listing  -----------------------------------------

 --------  PYTHIA Event Listing  (full event)  -------------------------------

    no        id   name            status     mothers   daughters     colours      p_x        p_y        p_z         e          m
     0        90   (system)           -11     0     0     0     0     0     0      0.000      0.000      0.000  13000.000  13000.000
     1      2212   (p+)               -12     0     0     3     0     0     0      0.000      0.000   6500.000   6500.000      0.938
     2      2212   (p+)               -12     0     0     4     0     0     0      0.000      0.000  -6500.000   6500.000      0.938
     3        21   (g)                -21     1     0     5     0   101   102      0.000      0.000    700.000    700.000      0.000
     4        21   (g)                -21     2     0     5     0   102   101      0.000      0.000   -600.000    600.000      0.000
     5        25   (h0)               -22     3     4     6     7     0     0      0.000      0.000    100.000   1300.000    125.000
     6         5   b                   23     5     5     0     0   103     0     30.000     20.000     50.000    650.000      4.800
     7        -5   bbar                23     5     5     0     0     0   103    -30.000    -20.000     50.000    650.000      4.800
                                   Charge sum:  0.000           Momentum sum:      0.000      0.000    100.000  13000.000  12998.462

 --------  End PYTHIA Event Listing  -----------------------------------------
`

func TestParsePrefersFullEvent(t *testing.T) {
	ev, err := Parse(strings.NewReader(sampleListing), parsers.Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ev.Particles) != 8 {
		t.Fatalf("len(Particles) = %d, want 8 from the full event", len(ev.Particles))
	}

	b := ev.Particles[6]
	if b.Barcode != 6 || b.PDGID != 5 || b.Name != "b" {
		t.Errorf("row 6 = %v, want barcode 6, pdgid 5, name b", b)
	}
	if b.Status != event.StatusFinal {
		t.Errorf("positive status parsed as %v, want final", b.Status)
	}
	if len(b.Parents) != 1 || b.Parents[0] != 5 {
		t.Errorf("mothers (5,5) expanded to %v, want [5]", b.Parents)
	}

	h := ev.Particles[5]
	if h.Status != event.StatusIntermediate {
		t.Errorf("negative status parsed as %v, want intermediate", h.Status)
	}
	if len(h.Parents) != 2 || h.Parents[0] != 3 || h.Parents[1] != 4 {
		t.Errorf("mothers (3,4) expanded to %v, want [3 4]", h.Parents)
	}
}

func TestParseHardProcess(t *testing.T) {
	ev, err := Parse(strings.NewReader(sampleListing), parsers.Options{HardProcess: true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ev.Particles) != 6 {
		t.Errorf("len(Particles) = %d, want 6 from the hard process", len(ev.Particles))
	}
	if ev.Particles[5].Name != "h0" {
		t.Errorf("last hard-process row = %q, want h0", ev.Particles[5].Name)
	}
}

func TestParseSingleListingFallback(t *testing.T) {
	hardOnly := sampleListing[:strings.Index(sampleListing, " --------  PYTHIA Event Listing  (full event)")]
	ev, err := Parse(strings.NewReader(hardOnly), parsers.Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(ev.Particles) != 6 {
		t.Errorf("len(Particles) = %d, want the hard process as fallback", len(ev.Particles))
	}
}

func TestParseMissingEndMarker(t *testing.T) {
	truncated := strings.Replace(sampleListing, "End PYTHIA Event Listing", "", 2)
	_, err := Parse(strings.NewReader(truncated), parsers.Options{})
	if !perrors.Is(err, perrors.ErrCodeParse) {
		t.Errorf("Parse truncated = %v, want PARSE_ERROR", err)
	}
}

func TestParseNoListing(t *testing.T) {
	_, err := Parse(strings.NewReader("just some log output\n"), parsers.Options{})
	if !perrors.Is(err, perrors.ErrCodeParse) {
		t.Errorf("Parse = %v, want PARSE_ERROR", err)
	}
}

func TestExpandMothers(t *testing.T) {
	tests := []struct {
		name   string
		m1, m2 int
		want   []int
	}{
		{"no mothers", 0, 0, nil},
		{"single first", 3, 0, []int{3}},
		{"single equal", 5, 5, []int{5}},
		{"single second", 0, 7, []int{7}},
		{"range", 3, 6, []int{3, 4, 5, 6}},
		{"distinct pair", 8, 2, []int{8, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expandMothers(tt.m1, tt.m2)
			if len(got) != len(tt.want) {
				t.Fatalf("expandMothers(%d, %d) = %v, want %v", tt.m1, tt.m2, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expandMothers(%d, %d) = %v, want %v", tt.m1, tt.m2, got, tt.want)
				}
			}
		})
	}
}
