package rtree

import (
	"github.com/dekarrin/epitree/internal/stmt"
	"github.com/dekarrin/epitree/internal/symtab"
)

// Ordering is the result of PartialOrder, using the convention that A <= B
// means A is at least as informative as B: every constraint B expresses, A
// also expresses, possibly among others. The order is two-valued: a tree is
// always either Less (at least as informative as the other, i.e. <=) or
// Greater (not as informative, which this engine treats the same whether
// the two are strictly incomparable or the other way around, since neither
// side is assumed a strict subset without evidence). There is no Equal
// value; two trees with identical content both report Less.
type Ordering int

const (
	// Less means the receiver is at least as informative as the argument
	// (receiver <= argument): every constraint the argument expresses, the
	// receiver also expresses, possibly among others.
	Less Ordering = iota
	// Greater means the receiver is missing at least one constraint the
	// argument expresses, so it is not at least as informative.
	Greater
)

func (o Ordering) String() string {
	if o == Less {
		return "<="
	}
	return ">"
}

// PartialOrder compares t against other and reports whether t is at least
// as informative as other (Less, i.e. t <= other) or not (Greater).
func (t *Tree) PartialOrder(other *Tree) Ordering {
	if satisfies(t, t.nodes[RootNID], other, other.nodes[RootNID]) {
		return Less
	}
	return Greater
}

// satisfies reports whether a (in aTree) contains at least as much
// information as b (in bTree) requires, i.e. whether a <= b under the
// engine's partial order. The recursion always walks paired positions: one
// call per aligned pair of nodes.
func satisfies(aTree *Tree, a *treeNode, bTree *Tree, b *treeNode) bool {
	switch b.edge.kind {
	case stmt.EdgeEmpty:
		// b asserts nothing beyond this point; a trivially satisfies it.
		return true

	case stmt.EdgeExclusive:
		if a.edge.kind != stmt.EdgeExclusive {
			return false
		}
		if a.edge.exSID != b.edge.exSID {
			return false
		}
		return satisfies(aTree, aTree.nodes[a.edge.exNID], bTree, bTree.nodes[b.edge.exNID])

	case stmt.EdgeNonExclusive:
		switch a.edge.kind {
		case stmt.EdgeNonExclusive:
			for _, sid := range b.edge.keys() {
				aChildNID, ok := a.edge.get(sid)
				if !ok {
					return false
				}
				bChildNID, _ := b.edge.get(sid)
				if !satisfies(aTree, aTree.nodes[aChildNID], bTree, bTree.nodes[bChildNID]) {
					return false
				}
			}
			return true
		case stmt.EdgeExclusive:
			bChildNID, ok := b.edge.get(a.edge.exSID)
			if !ok {
				return false
			}
			return satisfies(aTree, aTree.nodes[a.edge.exNID], bTree, bTree.nodes[bChildNID])
		default:
			return false
		}
	}
	return false
}

// GreatestLowerBound computes the information union of t and other: the
// most general tree that is Less-or-equal to both. It fails (returns
// false) where the two trees make incompatible Exclusive commitments to
// the same symbol, or where an Exclusive commitment to symbol s meets a
// NonExclusive edge whose key set is not exactly {s}.
//
// The combined tree's symbol table is the union of both operands',
// constructed by merging t's entries first and other's second, so other's
// Symbol wins on the (practically impossible) case of a SID collision.
func (t *Tree) GreatestLowerBound(other *Tree) (*Tree, bool) {
	result := New()
	if !glbInto(t, RootNID, other, RootNID, result, RootNID) {
		return nil, false
	}
	result.Symbols.Merge(t.Symbols)
	result.Symbols.Merge(other.Symbols)
	return result, true
}

// glbInto computes the GLB of the subtrees rooted at (aTree, aNID) and
// (bTree, bNID), writing the result under cTree's existing node cNID
// (whose edge must still be Empty on entry). It returns false if the two
// source subtrees are incompatible anywhere in their shared structure.
func glbInto(aTree *Tree, aNID NID, bTree *Tree, bNID NID, cTree *Tree, cNID NID) bool {
	a, b, c := aTree.nodes[aNID], bTree.nodes[bNID], cTree.nodes[cNID]

	if a.edge.kind == stmt.EdgeEmpty {
		cloneInto(bTree, bNID, cTree, cNID)
		return true
	}
	if b.edge.kind == stmt.EdgeEmpty {
		cloneInto(aTree, aNID, cTree, cNID)
		return true
	}

	switch {
	case a.edge.kind == stmt.EdgeExclusive && b.edge.kind == stmt.EdgeExclusive:
		if a.edge.exSID != b.edge.exSID {
			return false
		}
		c.edge = exclusiveEdge()
		childNID := cTree.newChild(cNID, a.edge.exSID)
		return glbInto(aTree, a.edge.exNID, bTree, b.edge.exNID, cTree, childNID)

	case a.edge.kind == stmt.EdgeNonExclusive && b.edge.kind == stmt.EdgeNonExclusive:
		c.edge = nonExclusiveEdge()
		seen := make(map[symtab.SID]bool)
		for _, sid := range a.edge.keys() {
			seen[sid] = true
			if !glbUnionChild(aTree, a, bTree, b, cTree, cNID, sid) {
				return false
			}
		}
		for _, sid := range b.edge.keys() {
			if seen[sid] {
				continue
			}
			if !glbUnionChild(aTree, a, bTree, b, cTree, cNID, sid) {
				return false
			}
		}
		return true

	case a.edge.kind == stmt.EdgeExclusive && b.edge.kind == stmt.EdgeNonExclusive:
		keys := b.edge.keys()
		if len(keys) != 1 || keys[0] != a.edge.exSID {
			return false
		}
		c.edge = exclusiveEdge()
		childNID := cTree.newChild(cNID, a.edge.exSID)
		bChildNID, _ := b.edge.get(a.edge.exSID)
		return glbInto(aTree, a.edge.exNID, bTree, bChildNID, cTree, childNID)

	case a.edge.kind == stmt.EdgeNonExclusive && b.edge.kind == stmt.EdgeExclusive:
		keys := a.edge.keys()
		if len(keys) != 1 || keys[0] != b.edge.exSID {
			return false
		}
		c.edge = exclusiveEdge()
		childNID := cTree.newChild(cNID, b.edge.exSID)
		aChildNID, _ := a.edge.get(b.edge.exSID)
		return glbInto(aTree, aChildNID, bTree, b.edge.exNID, cTree, childNID)
	}

	return false
}

// glbUnionChild combines a and b's children under sid (whichever side has
// it) into a new child of c at cNID, recursing if both sides have it.
func glbUnionChild(aTree *Tree, a *treeNode, bTree *Tree, b *treeNode, cTree *Tree, cNID NID, sid symtab.SID) bool {
	aChildNID, aHas := a.edge.get(sid)
	bChildNID, bHas := b.edge.get(sid)
	childNID := cTree.newChild(cNID, sid)

	switch {
	case aHas && bHas:
		return glbInto(aTree, aChildNID, bTree, bChildNID, cTree, childNID)
	case aHas:
		cloneInto(aTree, aChildNID, cTree, childNID)
	case bHas:
		cloneInto(bTree, bChildNID, cTree, childNID)
	}
	return true
}

// cloneInto deep-copies the subtree rooted at (src, srcNID) onto dst's
// existing node dstNID (whose edge must still be Empty on entry).
func cloneInto(src *Tree, srcNID NID, dst *Tree, dstNID NID) {
	srcNode := src.nodes[srcNID]
	dstNode := dst.nodes[dstNID]

	switch srcNode.edge.kind {
	case stmt.EdgeEmpty:
		return
	case stmt.EdgeNonExclusive:
		dstNode.edge = nonExclusiveEdge()
		for _, sid := range srcNode.edge.keys() {
			childSrcNID, _ := srcNode.edge.get(sid)
			childDstNID := dst.newChild(dstNID, sid)
			cloneInto(src, childSrcNID, dst, childDstNID)
		}
	case stmt.EdgeExclusive:
		dstNode.edge = exclusiveEdge()
		childDstNID := dst.newChild(dstNID, srcNode.edge.exSID)
		cloneInto(src, srcNode.edge.exNID, dst, childDstNID)
	}
}
