package rtree

import (
	"github.com/emirpasic/gods/maps/treemap"

	"github.com/dekarrin/epitree/internal/stmt"
	"github.com/dekarrin/epitree/internal/symtab"
)

// edge is the outgoing-successor state of a node. Empty nodes are leaves.
// NonExclusive nodes may have any number of distinct successor symbols.
// Exclusive nodes have at most one.
//
// The NonExclusive successor map is a gods treemap keyed on symtab.SID
// rather than a plain Go map, so that depth-first traversal (Tree.String,
// the lattice algebra's paired walks) visits children in a fixed SID order
// without a separate sort step at every call site.
type edge struct {
	kind  stmt.EdgeKind
	nonEx *treemap.Map // symtab.SID -> NID, valid only when kind == stmt.EdgeNonExclusive
	exSID symtab.SID   // valid only when kind == stmt.EdgeExclusive
	exNID NID
}

func sidComparator(a, b interface{}) int {
	sa, sb := a.(symtab.SID), b.(symtab.SID)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	default:
		return 0
	}
}

func emptyEdge() edge {
	return edge{kind: stmt.EdgeEmpty}
}

func nonExclusiveEdge() edge {
	return edge{kind: stmt.EdgeNonExclusive, nonEx: treemap.NewWith(sidComparator)}
}

func exclusiveEdge() edge {
	return edge{kind: stmt.EdgeExclusive}
}

// compatible reports whether desired may coexist with the edge's current
// kind without an upgrade: anything is compatible with EdgeEmpty (an
// unconstrained request), and a kind is compatible with itself.
// EdgeNonExclusive and EdgeExclusive are never compatible with each other.
func (e edge) compatible(desired stmt.EdgeKind) bool {
	if desired == stmt.EdgeEmpty {
		return true
	}
	return e.kind == desired && e.kind != stmt.EdgeEmpty
}

// get returns the NID of the successor under sid, if any.
func (e edge) get(sid symtab.SID) (NID, bool) {
	switch e.kind {
	case stmt.EdgeNonExclusive:
		v, ok := e.nonEx.Get(sid)
		if !ok {
			return 0, false
		}
		return v.(NID), true
	case stmt.EdgeExclusive:
		if e.exSID == sid {
			return e.exNID, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// insert links sid to nid under this edge. The edge's kind must already be
// NonExclusive or Exclusive; inserting into an Empty edge is a programmer
// error in this package (the tree always upgrades before inserting).
func (e *edge) insert(sid symtab.SID, nid NID) {
	switch e.kind {
	case stmt.EdgeNonExclusive:
		e.nonEx.Put(sid, nid)
	case stmt.EdgeExclusive:
		e.exSID = sid
		e.exNID = nid
	default:
		panic("insert on Empty edge: upstream edge-kind upgrade was skipped")
	}
}

// keys returns the edge's successor symbols in a fixed, deterministic order.
func (e edge) keys() []symtab.SID {
	switch e.kind {
	case stmt.EdgeNonExclusive:
		raw := e.nonEx.Keys()
		out := make([]symtab.SID, len(raw))
		for i, k := range raw {
			out[i] = k.(symtab.SID)
		}
		return out
	case stmt.EdgeExclusive:
		return []symtab.SID{e.exSID}
	default:
		return nil
	}
}

// remove detaches sid's successor pointer, if present. It never changes the
// edge's kind (invariant: edge kind is never downgraded).
func (e *edge) remove(sid symtab.SID) {
	switch e.kind {
	case stmt.EdgeNonExclusive:
		e.nonEx.Remove(sid)
	case stmt.EdgeExclusive:
		if e.exSID == sid {
			e.exSID = 0
			e.exNID = 0
		}
	}
}
