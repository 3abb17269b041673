package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hepplot/pythiaplotter/pkg/event"
)

// ErrDanglingParent is returned when a particle declares a parent barcode
// that has no record in the event. Malformed input is rejected outright
// rather than silently dropping the link.
var ErrDanglingParent = errors.New("parent barcode not present in event")

// systemPDGID is the Pythia8 bookkeeping species whose record (barcode 0)
// stands for the whole collision system. Links to it carry no physics.
const systemPDGID = 90

// Build constructs the event graph in the requested representation mode.
// Every format's records can be built in either mode: parent lists are
// derived from shared vertices and vice versa as needed.
func Build(ev *event.Event, mode Mode) (*Graph, error) {
	if mode == ModeEdge {
		return BuildEdgeGraph(ev)
	}
	return BuildNodeGraph(ev)
}

// BuildNodeGraph builds a particle-as-node graph: one node per record,
// one edge per resolved parent link.
//
// Links to the synthetic system record are skipped. Every other declared
// parent must resolve to a record in the same event; a dangling reference
// is a hard error wrapping [ErrDanglingParent]. After construction,
// zero-parent nodes are marked incoming, zero-child nodes final, isolated
// bookkeeping nodes are dropped, and the graph is validated acyclic.
func BuildNodeGraph(ev *event.Event) (*Graph, error) {
	g := New(ModeNode)
	for _, p := range ev.Particles {
		if err := g.AddNode(Node{Barcode: p.Barcode, Particle: p}); err != nil {
			return nil, fmt.Errorf("particle %d: %w", p.Barcode, err)
		}
	}

	system, hasSystem := systemBarcode(ev)
	for _, p := range ev.Particles {
		for _, parent := range parentsOf(ev, p) {
			if hasSystem && parent == system {
				continue
			}
			if _, ok := g.Node(parent); !ok {
				return nil, fmt.Errorf("%w: particle %d declares parent %d", ErrDanglingParent, p.Barcode, parent)
			}
			if err := g.AddEdge(Edge{From: parent, To: p.Barcode}); err != nil {
				return nil, err
			}
		}
	}

	for _, n := range g.Nodes() {
		if g.InDegree(n.Barcode) == 0 {
			n.Particle.Status = event.StatusIncoming
		}
		if g.OutDegree(n.Barcode) == 0 {
			n.Particle.Status = event.StatusFinal
		}
	}
	g.RemoveIsolated()

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// BuildEdgeGraph builds a vertex-as-node graph: one edge per particle,
// running from its production vertex to its decay vertex. Records without
// vertex information (Pythia8, LHE, CMSSW) get vertices synthesized from
// their parent lists: particles sharing the same parent set share a
// production vertex.
func BuildEdgeGraph(ev *event.Event) (*Graph, error) {
	vOut, vIn, err := vertexAssignment(ev)
	if err != nil {
		return nil, err
	}

	g := New(ModeEdge)
	for _, p := range ev.Particles {
		if p.PDGID == systemPDGID {
			continue
		}
		from, to := vOut[p.Barcode], vIn[p.Barcode]
		ensureVertex(g, from)
		ensureVertex(g, to)
		if err := g.AddEdge(Edge{From: from, To: to, Barcode: p.Barcode, Particle: p}); err != nil {
			return nil, err
		}
	}

	// Vertex degrees decide particle status: edges out of a sourceless
	// vertex are incoming, edges into a childless vertex are final.
	for _, n := range g.Nodes() {
		if g.InDegree(n.Barcode) == 0 {
			for _, e := range g.Outgoing(n.Barcode) {
				e.Particle.Status = event.StatusIncoming
			}
		}
		if g.OutDegree(n.Barcode) == 0 {
			for _, e := range g.Incoming(n.Barcode) {
				e.Particle.Status = event.StatusFinal
			}
		}
	}
	g.RemoveIsolated()

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func ensureVertex(g *Graph, barcode int) {
	if _, ok := g.Node(barcode); !ok {
		g.AddNode(Node{Barcode: barcode})
	}
}

// systemBarcode finds the bookkeeping "system" record, if the event has
// one. Pythia8 puts it at barcode 0; the detection is by membership so a
// format without such a record never skips a genuine link.
func systemBarcode(ev *event.Event) (int, bool) {
	for _, p := range ev.Particles {
		if p.PDGID == systemPDGID {
			return p.Barcode, true
		}
	}
	return 0, false
}

// parentsOf returns the particle's parent barcodes, deriving them from
// shared vertices for records that carry vertex info but no parent list.
func parentsOf(ev *event.Event, p *event.Particle) []int {
	if len(p.Parents) > 0 || p.VertexOut == 0 {
		return p.Parents
	}
	var parents []int
	for _, q := range ev.Particles {
		if q.Barcode != p.Barcode && q.VertexIn == p.VertexOut {
			parents = append(parents, q.Barcode)
		}
	}
	return parents
}

// vertexAssignment maps each particle to a production and decay vertex.
// Records that already carry vertices (HepMC) are used as-is; otherwise
// vertices are synthesized with negative barcodes so they cannot collide
// with HepMC's own negative vertex barcodes in mixed use.
func vertexAssignment(ev *event.Event) (vOut, vIn map[int]int, err error) {
	vOut = make(map[int]int, len(ev.Particles))
	vIn = make(map[int]int, len(ev.Particles))

	carried := true
	for _, p := range ev.Particles {
		if p.VertexOut == 0 && p.VertexIn == 0 {
			carried = false
			break
		}
	}
	if carried {
		for _, p := range ev.Particles {
			vOut[p.Barcode] = p.VertexOut
			vIn[p.Barcode] = p.VertexIn
		}
		return vOut, vIn, nil
	}

	system, hasSystem := systemBarcode(ev)
	next := 0
	fresh := func() int { next--; return next }

	// Production vertices: shared by particles with identical parent sets.
	byParents := make(map[string]int)
	children := make(map[int][]int) // parent barcode -> child barcodes
	for _, p := range ev.Particles {
		if p.PDGID == systemPDGID {
			continue
		}
		var cleaned []int
		for _, parent := range p.Parents {
			if hasSystem && parent == system {
				continue
			}
			if ev.Particle(parent) == nil {
				return nil, nil, fmt.Errorf("%w: particle %d declares parent %d", ErrDanglingParent, p.Barcode, parent)
			}
			cleaned = append(cleaned, parent)
		}
		key := parentKey(p.Barcode, cleaned)
		v, ok := byParents[key]
		if !ok {
			v = fresh()
			byParents[key] = v
		}
		vOut[p.Barcode] = v
		for _, parent := range cleaned {
			children[parent] = append(children[parent], p.Barcode)
		}
	}

	// Decay vertices: a particle decays where its children are produced.
	for _, p := range ev.Particles {
		if p.PDGID == systemPDGID {
			continue
		}
		if kids := children[p.Barcode]; len(kids) > 0 {
			vIn[p.Barcode] = vOut[kids[0]]
		} else {
			vIn[p.Barcode] = fresh()
		}
	}
	return vOut, vIn, nil
}

// parentKey canonicalizes a parent set. Orphans get a per-particle key so
// unrelated initial-state particles do not collapse onto one vertex.
func parentKey(barcode int, parents []int) string {
	if len(parents) == 0 {
		return fmt.Sprintf("src:%d", barcode)
	}
	sorted := append([]int(nil), parents...)
	sort.Ints(sorted)
	var b strings.Builder
	for i, p := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", p)
	}
	return b.String()
}
