package binding

import (
	"strings"

	"github.com/dekarrin/epitree/internal/rtree"
	"github.com/dekarrin/epitree/internal/stmt"
	"github.com/dekarrin/epitree/internal/symtab"
)

// Match is one tree position at which a pattern is realizable, along with
// the variable bindings that realization demands.
type Match struct {
	NID        rtree.NID
	Path       string // dotted presentation of the concrete path matched, for logging
	Assignment Assignment
}

type frontierEntry struct {
	nid  rtree.NID
	path []string
	asn  Assignment
}

// BindStatement walks tree in lockstep with pattern, maintaining a
// frontier of partial matches. A literal or numeric pattern symbol must
// follow the tree's actual successor under that SID; a variable
// (Identifier) symbol expands to every successor of the current node,
// binding the variable to each successor's symbol in turn. A frontier
// entry whose current node has an Empty edge is dropped, since there is
// nowhere left to go.
//
// The order in which Matches are returned is unspecified; the set of
// (NID, Assignment) pairs is not, and contains no duplicates, since a
// tree's paths are already unique by construction.
func BindStatement(pattern string, tree *rtree.Tree) ([]Match, error) {
	nodes, syms, err := stmt.Parse(pattern, tree.Symbols)
	if err != nil {
		return nil, err
	}

	frontier := []frontierEntry{{nid: rtree.RootNID, asn: Assignment{}}}

	for i, pn := range nodes {
		isVariable := syms[i].Kind == symtab.Identifier

		var next []frontierEntry
		for _, fe := range frontier {
			kind, successors := tree.EdgeAt(fe.nid)
			if kind == stmt.EdgeEmpty {
				continue
			}

			if isVariable {
				for _, sid := range successors {
					childNID, ok := tree.ChildAt(fe.nid, sid)
					if !ok {
						continue
					}
					asn, ok := fe.asn.extend(pn.Sym, sid)
					if !ok {
						continue
					}
					next = append(next, frontierEntry{
						nid:  childNID,
						path: appendDisplay(fe.path, tree, sid),
						asn:  asn,
					})
				}
				continue
			}

			childNID, ok := tree.ChildAt(fe.nid, pn.Sym)
			if !ok {
				continue
			}
			next = append(next, frontierEntry{
				nid:  childNID,
				path: appendDisplay(fe.path, tree, pn.Sym),
				asn:  fe.asn,
			})
		}
		frontier = next
	}

	matches := make([]Match, 0, len(frontier))
	for _, fe := range frontier {
		matches = append(matches, Match{
			NID:        fe.nid,
			Path:       strings.Join(fe.path, "."),
			Assignment: fe.asn,
		})
	}
	return matches, nil
}

func appendDisplay(path []string, tree *rtree.Tree, sid symtab.SID) []string {
	sym, _ := tree.Symbols.Resolve(sid)
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, sym.Display())
}
