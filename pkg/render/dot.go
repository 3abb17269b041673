// Package render turns particle graphs into Graphviz DOT and, from
// there, into viewable images. DOT generation is pure and
// deterministic; rasterization goes through the embedded Graphviz
// engine or an external dot binary depending on the requested format.
package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/hepplot/pythiaplotter/pkg/event"
	perrors "github.com/hepplot/pythiaplotter/pkg/errors"
	"github.com/hepplot/pythiaplotter/pkg/graph"
)

// WriteDOT writes the graph as a Graphviz digraph. In node mode each
// particle is a labeled node; in edge mode vertices become anonymous
// point nodes and particles become labeled edges. Output is sorted by
// barcode so identical graphs always produce identical DOT.
func WriteDOT(w io.Writer, g *graph.Graph, ev *event.Event, sheet *Sheet) error {
	if sheet == nil {
		sheet = DefaultSheet()
	}

	var buf bytes.Buffer
	buf.WriteString("digraph event {\n")
	writeGraphAttrs(&buf, ev, sheet)

	switch g.Mode() {
	case graph.ModeEdge:
		writeEdgeMode(&buf, g, sheet)
	default:
		writeNodeMode(&buf, g, sheet)
	}

	buf.WriteString("}\n")
	_, err := w.Write(buf.Bytes())
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeInternal, err, "writing DOT")
	}
	return nil
}

// WriteDOTFile writes the DOT description to path.
func WriteDOTFile(path string, g *graph.Graph, ev *event.Event, sheet *Sheet) error {
	f, err := os.Create(path)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeInternal, err, "cannot create %s", path)
	}
	if err := WriteDOT(f, g, ev, sheet); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return perrors.Wrap(perrors.ErrCodeInternal, err, "closing %s", path)
	}
	return nil
}

func writeGraphAttrs(buf *bytes.Buffer, ev *event.Event, sheet *Sheet) {
	if len(sheet.Graph) > 0 {
		fmt.Fprintf(buf, "  graph [%s];\n", fmtAttrs(sheet.Graph))
	}
	if title := ev.Title(); title != "" {
		fmt.Fprintf(buf, "  label=<<B>%s</B>>;\n", html.EscapeString(title))
		buf.WriteString("  labelloc=top;\n")
	}
	if len(sheet.Node) > 0 {
		fmt.Fprintf(buf, "  node [%s];\n", fmtAttrs(sheet.Node))
	}
	if len(sheet.Edge) > 0 {
		fmt.Fprintf(buf, "  edge [%s];\n", fmtAttrs(sheet.Edge))
	}
	buf.WriteString("\n")
}

func writeNodeMode(buf *bytes.Buffer, g *graph.Graph, sheet *Sheet) {
	var incoming []int
	for _, n := range g.Nodes() {
		attrs := sheet.ParticleAttrs(n.Particle, n.Highlighted, nil)
		attrs["label"] = n.Particle.Label()
		fmt.Fprintf(buf, "  %d [%s];\n", n.Barcode, fmtAttrs(attrs))
		if n.Particle.Status == event.StatusIncoming {
			incoming = append(incoming, n.Barcode)
		}
	}

	buf.WriteString("\n")
	for _, e := range sortedEdges(g) {
		fmt.Fprintf(buf, "  %d -> %d;\n", e.From, e.To)
	}

	writeSameRank(buf, incoming)
}

func writeEdgeMode(buf *bytes.Buffer, g *graph.Graph, sheet *Sheet) {
	var incoming []int
	for _, n := range g.Nodes() {
		fmt.Fprintf(buf, "  %d [shape=point, label=\"\"];\n", n.Barcode)
	}

	buf.WriteString("\n")
	for _, e := range sortedEdges(g) {
		attrs := sheet.ParticleAttrs(e.Particle, e.Highlighted, nil)
		attrs["label"] = e.Particle.Label()
		fmt.Fprintf(buf, "  %d -> %d [%s];\n", e.From, e.To, fmtAttrs(attrs))
		if e.Particle.Status == event.StatusIncoming {
			incoming = append(incoming, e.From)
		}
	}

	writeSameRank(buf, incoming)
}

// writeSameRank pins the given node IDs to one rank so the incoming
// beams line up on the left edge of the diagram.
func writeSameRank(buf *bytes.Buffer, barcodes []int) {
	if len(barcodes) == 0 {
		return
	}
	slices.Sort(barcodes)
	barcodes = slices.Compact(barcodes)
	ids := make([]string, len(barcodes))
	for i, b := range barcodes {
		ids[i] = fmt.Sprintf("%d", b)
	}
	fmt.Fprintf(buf, "\n  { rank=same; %s; }\n", strings.Join(ids, "; "))
}

// sortedEdges orders edges by endpoints and particle barcode. Edge
// insertion order depends on transform history, so sorting here keeps
// the output stable.
func sortedEdges(g *graph.Graph) []*graph.Edge {
	edges := g.Edges()
	slices.SortFunc(edges, func(a, b *graph.Edge) int {
		if a.From != b.From {
			return a.From - b.From
		}
		if a.To != b.To {
			return a.To - b.To
		}
		return a.Barcode - b.Barcode
	})
	return edges
}
