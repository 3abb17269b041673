package graph

import (
	"errors"
	"slices"

	"github.com/hepplot/pythiaplotter/pkg/event"
)

var (
	// ErrDuplicateNode is returned by [Graph.AddNode] when a node with the
	// same barcode already exists. Barcodes must be unique per graph.
	ErrDuplicateNode = errors.New("duplicate node barcode")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From
	// barcode does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To
	// barcode does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node that does not exist. This indicates corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrGraphHasCycle is returned by [Graph.Validate] when a directed
	// cycle is detected. Physical decay trees are acyclic, so a cycle
	// means malformed input; failing here keeps the simplifier's
	// termination assumption intact.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Mode selects how particles map onto graph elements.
type Mode int

const (
	// ModeNode represents each particle as a node; edges are parent links.
	ModeNode Mode = iota
	// ModeEdge represents each particle as an edge between interaction
	// vertices; nodes are the vertices themselves.
	ModeEdge
)

// String returns "node" or "edge".
func (m Mode) String() string {
	if m == ModeEdge {
		return "edge"
	}
	return "node"
}

// ParseMode converts a mode string ("node" or "edge") to a Mode.
// The empty string defaults to node mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "node", "":
		return ModeNode, nil
	case "edge":
		return ModeEdge, nil
	}
	return ModeNode, errors.New("mode must be one of: node, edge")
}

// Node is a vertex of the event graph. In node mode it carries the
// particle it stands for; in edge mode it is a bare interaction vertex
// and Particle is nil.
type Node struct {
	Barcode     int
	Particle    *event.Particle
	Highlighted bool
}

// Edge is a directed connection. In edge mode it carries the particle it
// stands for, keyed by the particle barcode since two vertices can be
// joined by several particles; in node mode Particle is nil and Barcode
// is zero.
type Edge struct {
	From, To    int
	Barcode     int
	Particle    *event.Particle
	Highlighted bool
}

// Graph is a directed multigraph over int-keyed nodes, holding one parsed
// event in either particle-as-node or particle-as-edge representation.
//
// The zero value is not usable; use [New]. Graph is not safe for
// concurrent mutation.
type Graph struct {
	mode     Mode
	nodes    map[int]*Node
	edges    []*Edge
	outgoing map[int][]*Edge
	incoming map[int][]*Edge
}

// New creates an empty graph in the given representation mode.
func New(mode Mode) *Graph {
	return &Graph{
		mode:     mode,
		nodes:    make(map[int]*Node),
		outgoing: make(map[int][]*Edge),
		incoming: make(map[int][]*Edge),
	}
}

// Mode returns the representation mode the graph was built in.
func (g *Graph) Mode() Mode { return g.mode }

// AddNode adds a node keyed by its barcode.
// Returns ErrDuplicateNode if the barcode is already present.
func (g *Graph) AddNode(n Node) error {
	if _, exists := g.nodes[n.Barcode]; exists {
		return ErrDuplicateNode
	}
	node := &n
	g.nodes[node.Barcode] = node
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode when an endpoint
// is missing. Parallel edges between the same nodes are allowed; in edge
// mode they are told apart by their particle barcode.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	edge := &e
	g.edges = append(g.edges, edge)
	g.outgoing[e.From] = append(g.outgoing[e.From], edge)
	g.incoming[e.To] = append(g.incoming[e.To], edge)
	return nil
}

// RemoveEdge removes the given edge. Edges are compared by identity, so
// pass a pointer obtained from the graph itself. Removing an edge that is
// not in the graph is a no-op.
func (g *Graph) RemoveEdge(e *Edge) {
	match := func(x *Edge) bool { return x == e }
	g.edges = slices.DeleteFunc(g.edges, match)
	g.outgoing[e.From] = slices.DeleteFunc(g.outgoing[e.From], match)
	g.incoming[e.To] = slices.DeleteFunc(g.incoming[e.To], match)
}

// RemoveNode removes a node and every edge touching it.
func (g *Graph) RemoveNode(barcode int) {
	if _, ok := g.nodes[barcode]; !ok {
		return
	}
	for _, e := range slices.Clone(g.outgoing[barcode]) {
		g.RemoveEdge(e)
	}
	for _, e := range slices.Clone(g.incoming[barcode]) {
		g.RemoveEdge(e)
	}
	delete(g.nodes, barcode)
	delete(g.outgoing, barcode)
	delete(g.incoming, barcode)
}

// Node returns the node with the given barcode and true, or nil and false.
func (g *Graph) Node(barcode int) (*Node, bool) {
	n, ok := g.nodes[barcode]
	return n, ok
}

// Nodes returns all nodes sorted by barcode for deterministic traversal.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *Node) int { return a.Barcode - b.Barcode })
	return nodes
}

// Edges returns a copy of the edge list in insertion order.
func (g *Graph) Edges() []*Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Outgoing returns the edges leaving the node. Read-only view.
func (g *Graph) Outgoing(barcode int) []*Edge { return g.outgoing[barcode] }

// Incoming returns the edges entering the node. Read-only view.
func (g *Graph) Incoming(barcode int) []*Edge { return g.incoming[barcode] }

// OutDegree returns the number of outgoing edges, 0 for unknown nodes.
func (g *Graph) OutDegree(barcode int) int { return len(g.outgoing[barcode]) }

// InDegree returns the number of incoming edges, 0 for unknown nodes.
func (g *Graph) InDegree(barcode int) int { return len(g.incoming[barcode]) }

// Sources returns nodes with no incoming edges, sorted by barcode.
// In a decay tree these are the initial-state particles or vertices.
func (g *Graph) Sources() []*Node {
	var sources []*Node
	for _, n := range g.Nodes() {
		if len(g.incoming[n.Barcode]) == 0 {
			sources = append(sources, n)
		}
	}
	return sources
}

// Sinks returns nodes with no outgoing edges, sorted by barcode.
// In a decay tree these are the final-state particles or vertices.
func (g *Graph) Sinks() []*Node {
	var sinks []*Node
	for _, n := range g.Nodes() {
		if len(g.outgoing[n.Barcode]) == 0 {
			sinks = append(sinks, n)
		}
	}
	return sinks
}

// RemoveIsolated drops nodes with neither parents nor children. Event
// listings carry bookkeeping records (the Pythia8 "system" row) that end
// up isolated once sentinel parent links are skipped.
func (g *Graph) RemoveIsolated() int {
	removed := 0
	for _, n := range g.Nodes() {
		if g.InDegree(n.Barcode) == 0 && g.OutDegree(n.Barcode) == 0 {
			g.RemoveNode(n.Barcode)
			removed++
		}
	}
	return removed
}

// Particles iterates the particle-bearing elements of the graph in
// deterministic barcode order: nodes in node mode, edges in edge mode.
// The callback receives each particle together with the element's
// highlight-flag setter.
func (g *Graph) Particles(fn func(p *event.Particle, setHighlight func(bool))) {
	if g.mode == ModeEdge {
		edges := slices.Clone(g.edges)
		slices.SortFunc(edges, func(a, b *Edge) int { return a.Barcode - b.Barcode })
		for _, e := range edges {
			if e.Particle != nil {
				fn(e.Particle, func(v bool) { e.Highlighted = v })
			}
		}
		return
	}
	for _, n := range g.Nodes() {
		if n.Particle != nil {
			fn(n.Particle, func(v bool) { n.Highlighted = v })
		}
	}
}

// Validate checks graph integrity: every edge endpoint must exist, and
// the graph must be acyclic. Returns ErrInvalidEdgeEndpoint or
// ErrGraphHasCycle. Cycle detection is depth-first with three-color
// marking and runs in O(N+E).
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if _, ok := g.nodes[e.From]; !ok {
			return ErrInvalidEdgeEndpoint
		}
		if _, ok := g.nodes[e.To]; !ok {
			return ErrInvalidEdgeEndpoint
		}
	}
	return g.detectCycles()
}

func (g *Graph) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[int]int, len(g.nodes))
	var hasCycle bool

	var dfs func(id int)
	dfs = func(id int) {
		color[id] = gray
		for _, e := range g.outgoing[id] {
			switch color[e.To] {
			case white:
				dfs(e.To)
			case gray:
				hasCycle = true
				return
			}
			if hasCycle {
				return
			}
		}
		color[id] = black
	}

	for id := range g.nodes {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}
