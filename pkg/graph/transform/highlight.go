package transform

import (
	"github.com/hepplot/pythiaplotter/pkg/event"
	"github.com/hepplot/pythiaplotter/pkg/event/pdg"
	"github.com/hepplot/pythiaplotter/pkg/graph"
)

// HighlightSet holds the particle names to tag for distinct rendering.
// Names are normalized on insertion: decoration pairs are stripped, so
// asking for "(b)" and "b" is the same request.
type HighlightSet map[string]struct{}

// NewHighlightSet builds a set from the given names, dropping empties.
func NewHighlightSet(names ...string) HighlightSet {
	set := make(HighlightSet, len(names))
	for _, name := range names {
		if stripped := pdg.Strip(name); stripped != "" {
			set[stripped] = struct{}{}
		}
	}
	return set
}

// Matches reports whether the particle's stripped display name is an
// exact member of the set. Exact match is deliberate: substring matching
// would tag "bbar" or "b*" when asked for "b".
func (s HighlightSet) Matches(p *event.Particle) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[pdg.Strip(p.DisplayName())]
	return ok
}

// Highlight marks every graph element whose particle name matches the
// set, and returns how many were tagged.
func Highlight(g *graph.Graph, set HighlightSet) int {
	tagged := 0
	g.Particles(func(p *event.Particle, setHighlight func(bool)) {
		if set.Matches(p) {
			setHighlight(true)
			tagged++
		}
	})
	return tagged
}
