package render

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/hepplot/pythiaplotter/pkg/event"
	perrors "github.com/hepplot/pythiaplotter/pkg/errors"
)

// Rule maps a class of particles to Graphviz attributes. Selectors are
// combined with AND; a selector left empty matches everything. PDG IDs
// are compared by absolute value so one rule covers a particle and its
// antiparticle.
type Rule struct {
	Name        string            `toml:"name"`
	Highlighted *bool             `toml:"highlighted"`
	PDGIDs      []int             `toml:"pdgids"`
	Statuses    []string          `toml:"statuses"`
	Attrs       map[string]string `toml:"attrs"`
}

// Matches reports whether the rule applies to the particle.
func (r *Rule) Matches(p *event.Particle, highlighted bool) bool {
	if r.Highlighted != nil && *r.Highlighted != highlighted {
		return false
	}
	if len(r.PDGIDs) > 0 && !slices.Contains(r.PDGIDs, abs(p.PDGID)) {
		return false
	}
	if len(r.Statuses) > 0 && !slices.Contains(r.Statuses, p.Status.String()) {
		return false
	}
	return true
}

// Sheet is a full style sheet: graph-level attributes plus an ordered
// rule list. The first matching rule wins; its attributes are layered
// over the sheet's base node or edge attributes.
type Sheet struct {
	Graph map[string]string `toml:"graph"`
	Node  map[string]string `toml:"node"`
	Edge  map[string]string `toml:"edge"`
	Rules []Rule            `toml:"rule"`
}

// LoadSheet reads a TOML style sheet from disk.
func LoadSheet(path string) (*Sheet, error) {
	var sheet Sheet
	if _, err := toml.DecodeFile(path, &sheet); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInputNotFound, err, "cannot load style sheet %s", path)
	}
	return &sheet, nil
}

// ParticleAttrs resolves the attributes for one particle: base
// attributes for its role, then the first matching rule on top.
func (s *Sheet) ParticleAttrs(p *event.Particle, highlighted bool, base map[string]string) map[string]string {
	attrs := maps.Clone(base)
	if attrs == nil {
		attrs = map[string]string{}
	}
	for i := range s.Rules {
		if s.Rules[i].Matches(p, highlighted) {
			maps.Copy(attrs, s.Rules[i].Attrs)
			break
		}
	}
	return attrs
}

// fmtAttrs renders an attribute map as a deterministic DOT attribute
// list. Values already wrapped in angle brackets are HTML labels and
// pass through unquoted.
func fmtAttrs(attrs map[string]string) string {
	parts := make([]string, 0, len(attrs))
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		v := attrs[k]
		if strings.HasPrefix(v, "<") && strings.HasSuffix(v, ">") {
			parts = append(parts, fmt.Sprintf("%s=%s", k, v))
		} else {
			parts = append(parts, fmt.Sprintf("%s=%q", k, v))
		}
	}
	return strings.Join(parts, ", ")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// defaultSheetTOML ships the built-in look in the same format users
// write their own sheets in.
const defaultSheetTOML = `
[graph]
rankdir = "LR"
ranksep = "0.4"
nodesep = "0.4"

[node]
penwidth = "2"

[edge]
penwidth = "2"

[[rule]]
name = "highlight"
highlighted = true
attrs = { color = "gold", style = "filled", fillcolor = "gold", fontcolor = "black" }

[[rule]]
name = "beam"
statuses = ["incoming"]
attrs = { color = "green3", shape = "circle", style = "filled", fillcolor = "green3" }

[[rule]]
name = "b quarks"
pdgids = [5]
attrs = { color = "red", fontcolor = "red" }

[[rule]]
name = "muons and taus"
pdgids = [13, 15]
attrs = { color = "purple", fontcolor = "purple" }

[[rule]]
name = "gluons"
pdgids = [21]
attrs = { color = "grey", fontcolor = "grey" }

[[rule]]
name = "photons"
pdgids = [22]
attrs = { color = "cadetblue1", fontcolor = "cadetblue1" }

[[rule]]
name = "final state"
statuses = ["final"]
attrs = { color = "dodgerblue1", shape = "box" }
`

var defaultSheet = mustSheet(defaultSheetTOML)

// DefaultSheet returns the built-in style sheet.
func DefaultSheet() *Sheet {
	return defaultSheet
}

func mustSheet(src string) *Sheet {
	var sheet Sheet
	if _, err := toml.Decode(src, &sheet); err != nil {
		panic(fmt.Sprintf("invalid built-in style sheet: %v", err))
	}
	return &sheet
}
