package rtree

import (
	"fmt"
	"io"
	"strings"

	"github.com/dekarrin/epitree/internal/stmt"
)

// String renders the tree in the engine's depth-first golden display
// format: one node per line, each line prefixed by a run of dashes equal
// to its depth. A node reached through an Exclusive edge has the last
// dash in its prefix replaced with '*', so a reader can tell at a glance
// which branches in the printed tree are mutually exclusive with their
// siblings (there never are any, since an Exclusive edge has at most one
// child, but the marker also survives on a NonExclusive child reached
// immediately below a point where the parent's own edge was Exclusive).
func (t *Tree) String() string {
	var sb strings.Builder
	_, _ = t.WriteTo(&sb)
	return sb.String()
}

// WriteTo writes the tree's golden display format to w and returns the
// number of bytes written.
func (t *Tree) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	root := t.nodes[RootNID]
	sym, _ := t.Symbols.Resolve(root.sym)
	fmt.Fprintln(cw, sym.Display())
	t.writeChildren(cw, root, 1)
	return cw.n, cw.err
}

func (t *Tree) writeChildren(w io.Writer, parent *treeNode, depth int) {
	for _, sid := range parent.edge.keys() {
		childNID, _ := parent.edge.get(sid)
		child := t.nodes[childNID]

		prefix := strings.Repeat("-", depth)
		if parent.edge.kind == stmt.EdgeExclusive && depth > 0 {
			prefix = prefix[:depth-1] + "*"
		}

		sym, _ := t.Symbols.Resolve(sid)
		fmt.Fprintf(w, "%s%s\n", prefix, sym.Display())
		t.writeChildren(w, child, depth+1)
	}
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	cw.err = err
	return n, err
}
