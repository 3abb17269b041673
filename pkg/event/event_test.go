package event

import "testing"

func TestDisplayName(t *testing.T) {
	named := &Particle{Barcode: 3, PDGID: 5, Name: "(b)"}
	if got := named.DisplayName(); got != "(b)" {
		t.Errorf("DisplayName() = %q, want listing name %q", got, "(b)")
	}

	unnamed := &Particle{Barcode: 7, PDGID: -13}
	if got := unnamed.DisplayName(); got != "mu+" {
		t.Errorf("DisplayName() = %q, want PDG fallback %q", got, "mu+")
	}
}

func TestLabel(t *testing.T) {
	p := &Particle{Barcode: 42, PDGID: 21}
	if got := p.Label(); got != "42: g" {
		t.Errorf("Label() = %q, want %q", got, "42: g")
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want string
	}{
		{"all parts", Event{Number: 3, Source: "run.hepmc", Label: "ttbar"}, "ttbar, run.hepmc, event 3"},
		{"no label", Event{Number: 1, Source: "out.txt"}, "out.txt, event 1"},
		{"no event number", Event{Source: "out.txt"}, "out.txt"},
		{"empty", Event{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.Title(); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEventParticle(t *testing.T) {
	ev := &Event{Particles: []*Particle{
		{Barcode: 1, PDGID: 2212},
		{Barcode: 2, PDGID: 2212},
	}}
	if p := ev.Particle(2); p == nil || p.Barcode != 2 {
		t.Errorf("Particle(2) = %v, want barcode 2", p)
	}
	if p := ev.Particle(99); p != nil {
		t.Errorf("Particle(99) = %v, want nil", p)
	}
}
