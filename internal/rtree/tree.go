// Package rtree implements the rooted knowledge tree at the core of the
// reasoning engine: ground facts are inserted as dotted/exclusive paths,
// the same paths are used to query the tree, and two trees can be compared
// or combined under the partial order and greatest-lower-bound operations
// defined in lattice.go.
package rtree

import (
	"github.com/dekarrin/epitree/internal/rterrors"
	"github.com/dekarrin/epitree/internal/stmt"
	"github.com/dekarrin/epitree/internal/symtab"
)

// NID identifies a node within a single Tree. NIDs are not portable across
// trees: two different Trees assign NIDs independently, starting from
// RootNID, so the same NID value in two trees names unrelated nodes.
type NID uint64

const (
	// InvalidNID never names a real node.
	InvalidNID NID = 0
	// RootNID is the tree's root, always present, always NonExclusive.
	RootNID NID = 1
)

// rootSymbolText is interned as the root's display symbol. It is never
// reachable as the symbol of a non-root node, since no valid statement
// can assign a symbol to position zero of the path.
const rootSymbolText = "ROOT"

type treeNode struct {
	sym  symtab.SID
	edge edge
}

// Tree is a rooted knowledge tree: ground facts are inserted as sequences
// of symbols connected by NonExclusive or Exclusive edges, per the
// statement grammar in package stmt.
type Tree struct {
	Symbols *symtab.Table

	nodes  map[NID]*treeNode
	nextID NID
}

// New returns an empty Tree: a single root node with a NonExclusive edge
// and no children.
func New() *Tree {
	t := &Tree{
		Symbols: symtab.New(),
		nodes:   make(map[NID]*treeNode),
		nextID:  RootNID,
	}
	rootSID := t.Symbols.Intern(symtab.NewLiteral(rootSymbolText))
	t.nodes[RootNID] = &treeNode{sym: rootSID, edge: nonExclusiveEdge()}
	return t
}

// NodeView is a read-only snapshot of a single tree node, returned by Query
// and GetAtPath.
type NodeView struct {
	NID  NID
	Sym  symtab.SID
	Edge stmt.EdgeKind
}

// ChildAt returns the NID reached from nid via sid, if any. It is a
// single-step primitive (unlike Query/GetAtPath, which resolve a whole
// path) used by the binding engine to expand its match frontier one
// pattern symbol at a time.
func (t *Tree) ChildAt(nid NID, sid symtab.SID) (NID, bool) {
	node, ok := t.nodes[nid]
	if !ok {
		return 0, false
	}
	return node.edge.get(sid)
}

// EdgeAt reports the edge kind at nid and its successor symbols, in a
// fixed deterministic order: the single symbol of an Exclusive edge, every
// key of a NonExclusive edge, or none for an Empty edge.
func (t *Tree) EdgeAt(nid NID) (kind stmt.EdgeKind, successors []symtab.SID) {
	node, ok := t.nodes[nid]
	if !ok {
		return stmt.EdgeEmpty, nil
	}
	return node.edge.kind, node.edge.keys()
}

// SymbolAt returns the SID stored at nid.
func (t *Tree) SymbolAt(nid NID) symtab.SID {
	return t.nodes[nid].sym
}

// newChild allocates a new node under parentNID's edge, which must already
// be NonExclusive or Exclusive. It returns the new node's NID.
func (t *Tree) newChild(parentNID NID, sid symtab.SID) NID {
	t.nextID++
	nid := t.nextID
	t.nodes[nid] = &treeNode{sym: sid, edge: emptyEdge()}
	t.nodes[parentNID].edge.insert(sid, nid)
	return nid
}

// AddStatement inserts statement's path into the tree, upgrading any
// traversed node whose edge is still Empty to the kind the statement
// requires. It returns the NIDs of any newly created nodes, in path order;
// re-asserting a path that already exists with compatible edge kinds is a
// no-op and returns a nil slice with no error.
//
// Inserting a statement that would require downgrading or changing an
// already-committed edge kind (NonExclusive to Exclusive or vice versa)
// fails with a CustomError and leaves the tree unchanged at the offending
// node; nodes visited before the conflict, if any were upgraded from
// Empty, keep that upgrade.
func (t *Tree) AddStatement(statement string) ([]NID, error) {
	parsed, syms, err := stmt.Parse(statement, t.Symbols)
	if err != nil {
		return nil, err
	}
	// A symbol's lexical Kind stays Identifier even once its SID has been
	// overlay-resolved to a concrete value (Table.GetSID resolves the SID,
	// not the Symbol), so the ground-fact guard must check the resolved
	// SID's own Kind rather than the parser's lexical classification.
	for i, sym := range syms {
		if sym.Kind != symtab.Identifier {
			continue
		}
		resolved, ok := t.Symbols.Resolve(parsed[i].Sym)
		if !ok || resolved.Kind == symtab.Identifier {
			return nil, rterrors.Custom("cannot insert an unbound Identifier symbol as a ground fact")
		}
	}

	cur := NID(RootNID)
	startAt := len(parsed)
	for i, pn := range parsed {
		curNode := t.nodes[cur]
		childNID, ok := curNode.edge.get(pn.Sym)
		if !ok {
			startAt = i
			break
		}
		child := t.nodes[childNID]
		if !child.edge.compatible(pn.Edge) {
			if child.edge.kind != stmt.EdgeEmpty {
				return nil, rterrors.Customf("cannot upgrade edge kind %v to %v", child.edge.kind, pn.Edge)
			}
			child.edge = upgrade(pn.Edge)
		}
		cur = childNID
	}

	if startAt == len(parsed) {
		return nil, nil
	}

	newNIDs := make([]NID, 0, len(parsed)-startAt)
	parentNID := cur
	for i := startAt; i < len(parsed); i++ {
		pn := parsed[i]
		parent := t.nodes[parentNID]
		if parent.edge.kind == stmt.EdgeEmpty {
			// the parent's edge kind comes from the separator that follows
			// the parent's own symbol, not from pn's.
			parent.edge = upgrade(parsed[i-1].Edge)
		}
		newNID := t.newChild(parentNID, pn.Sym)
		newNIDs = append(newNIDs, newNID)
		parentNID = newNID
	}

	for _, sym := range syms {
		t.Symbols.Intern(sym)
	}

	return newNIDs, nil
}

// upgrade returns the edge state that should replace an Empty edge when a
// statement requires desired at that position. A trailing EdgeEmpty
// request (the statement's last symbol) leaves the node a leaf.
func upgrade(desired stmt.EdgeKind) edge {
	switch desired {
	case stmt.EdgeNonExclusive:
		return nonExclusiveEdge()
	case stmt.EdgeExclusive:
		return exclusiveEdge()
	default:
		return emptyEdge()
	}
}

// Query walks statement's path and returns the node reached, if the whole
// path resolves. A '.' separator in the query matches a node reached
// through either actual edge kind; a '!' separator only matches a node
// whose own edge is Exclusive. Query never mutates the tree or returns an
// error for a missing path: a missing or kind-mismatched path is reported
// only by the boolean result.
func (t *Tree) Query(statement string) (NodeView, bool) {
	parsed, _, err := stmt.Parse(statement, t.Symbols)
	if err != nil {
		return NodeView{}, false
	}

	cur := NID(RootNID)
	curNode := t.nodes[cur]
	for _, pn := range parsed {
		nid, ok := curNode.edge.get(pn.Sym)
		if !ok {
			return NodeView{}, false
		}
		next := t.nodes[nid]
		if pn.Edge == stmt.EdgeExclusive && next.edge.kind != stmt.EdgeExclusive {
			return NodeView{}, false
		}
		cur, curNode = nid, next
	}
	return NodeView{NID: cur, Sym: curNode.sym, Edge: curNode.edge.kind}, true
}

// GetAtPath has identical semantics to Query. It exists as a separate name
// for callers whose intent is positional lookup rather than a yes/no
// membership test.
func (t *Tree) GetAtPath(statement string) (NodeView, bool) {
	return t.Query(statement)
}

// RemoveAtPath detaches the successor pointer that the last segment of
// statement's path resolves through, leaving everything below it
// unreachable from the root. It never changes an edge's kind and is a
// no-op, returning no error, if the path does not fully resolve.
//
// It is used by the rule driver to retract marker subtrees created for a
// BindableImplication's "function" convenience once the implication has
// fired.
func (t *Tree) RemoveAtPath(statement string) error {
	parsed, _, err := stmt.Parse(statement, t.Symbols)
	if err != nil {
		return err
	}
	if len(parsed) == 0 {
		return nil
	}

	cur := NID(RootNID)
	curNode := t.nodes[cur]
	var parent *treeNode
	var lastSID symtab.SID
	for _, pn := range parsed {
		nid, ok := curNode.edge.get(pn.Sym)
		if !ok {
			return nil
		}
		parent, lastSID = curNode, pn.Sym
		cur = nid
		curNode = t.nodes[nid]
	}
	parent.edge.remove(lastSID)
	return nil
}

// Stats returns the total node count (including the root), the number of
// distinct symbols interned in the tree's symbol table, and the maximum
// depth of any node below the root (the root itself is depth 0).
func (t *Tree) Stats() (nodeCount, symbolCount, maxDepth int) {
	nodeCount = len(t.nodes)
	symbolCount = t.Symbols.Len()
	maxDepth = t.maxDepthFrom(RootNID, 0)
	return
}

func (t *Tree) maxDepthFrom(nid NID, depth int) int {
	best := depth
	node := t.nodes[nid]
	for _, sid := range node.edge.keys() {
		childNID, _ := node.edge.get(sid)
		if d := t.maxDepthFrom(childNID, depth+1); d > best {
			best = d
		}
	}
	return best
}
