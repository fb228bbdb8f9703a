// Package snapshot renders the current state of a windowedgraph.Graph as
// Graphviz DOT, for operators inspecting a running engine — it computes
// nothing beyond what the engine already tracks (vertex degree, live
// edges), so it stays on the right side of the "no analytics beyond
// degree" non-goal.
//
// Adapted from the teacher's render.DOTRenderer, which rendered a
// force-directed layout's node positions; this exporter has no positions to
// render, so every node is emitted without a pos attribute and labelled
// with its degree instead of a display label.
package snapshot

import (
	"bytes"
	"fmt"
	"io"

	"github.com/TFMV/rollingmedian/windowedgraph"
)

// WriteDOT writes a Graphviz DOT representation of g's current window to w.
func WriteDOT(w io.Writer, g *windowedgraph.Graph) error {
	var buf bytes.Buffer

	buf.WriteString("graph rollingmedian {\n")
	buf.WriteString("  graph [rankdir=LR];\n")
	buf.WriteString("  node [shape=circle, fontname=\"Arial\"];\n")

	g.Vertices(func(name string, degree uint32) {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", name, fmt.Sprintf("%s (%d)", name, degree))
	})

	g.Edges(func(lower, upper string, t int64) {
		fmt.Fprintf(&buf, "  %q -- %q [label=%q];\n", lower, upper, fmt.Sprintf("t=%d", t))
	})

	buf.WriteString("}\n")

	_, err := w.Write(buf.Bytes())
	return err
}
