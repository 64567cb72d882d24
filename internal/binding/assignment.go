// Package binding implements per-pattern tree matching and cross-pattern
// joint-assignment generation: the machinery a rule's priors use to find
// every place in a tree (and every variable substitution) that satisfies
// them simultaneously.
package binding

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dekarrin/epitree/internal/symtab"
)

// Assignment is a set of variable-to-concrete-symbol bindings: variable
// SID -> concrete SID. The zero value is the empty assignment.
type Assignment map[symtab.SID]symtab.SID

// Keys returns the assignment's variable SIDs in a fixed, deterministic
// (ascending) order, so callers that print or hash an assignment don't
// need their own sort.
func (a Assignment) Keys() []symtab.SID {
	keys := make([]symtab.SID, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// agrees reports whether a and other assign the same concrete SID to
// every variable they both mention.
func (a Assignment) agrees(other Assignment) bool {
	for varSID, sid := range a {
		if otherSID, ok := other[varSID]; ok && otherSID != sid {
			return false
		}
	}
	return true
}

// merged returns a new Assignment containing every binding in a and other.
// Callers must only invoke this after confirming agrees(other).
func (a Assignment) merged(other Assignment) Assignment {
	out := make(Assignment, len(a)+len(other))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// extend returns a new Assignment with varSID bound to concreteSID, or
// (nil, false) if varSID is already bound to a different concrete SID.
func (a Assignment) extend(varSID, concreteSID symtab.SID) (Assignment, bool) {
	if existing, ok := a[varSID]; ok {
		if existing != concreteSID {
			return nil, false
		}
		return a, true
	}
	out := make(Assignment, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	out[varSID] = concreteSID
	return out, true
}

// canonicalKey renders the assignment as a string that is equal for two
// Assignments iff they hold the same bindings, used to dedup joint
// assignments in GenerateCompatible.
func (a Assignment) canonicalKey() string {
	var sb strings.Builder
	for _, k := range a.Keys() {
		sb.WriteString(strconv.FormatUint(uint64(k), 10))
		sb.WriteByte('=')
		sb.WriteString(strconv.FormatUint(uint64(a[k]), 10))
		sb.WriteByte(';')
	}
	return sb.String()
}
