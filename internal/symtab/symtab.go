// Package symtab implements the symbol table described in the reasoning
// engine's data model: a deterministic mapping from a symbol's canonical
// text to a stable 64-bit identifier (SID), plus a transient "binding
// overlay" that lets callers substitute variables for concrete symbols
// without mutating the base table.
package symtab

import (
	"strconv"

	"github.com/cespare/xxhash"
	"github.com/dekarrin/epitree/internal/rterrors"
)

// SID is a symbol identifier: a stable 64-bit value derived deterministically
// from a symbol's canonical text. Two independently constructed Tables agree
// on the SID for the same canonical text because derivation never consults
// table state.
type SID uint64

// Kind classifies a Symbol's value.
type Kind int

const (
	// Literal is a lowercase-initial textual symbol, storable as a ground
	// fact in the tree.
	Literal Kind = iota
	// Numeric is a finite real number; its canonical text is its identity.
	Numeric
	// Identifier is an uppercase-initial pattern variable. It is never
	// stored as the symbol of a tree node.
	Identifier
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "Literal"
	case Numeric:
		return "Numeric"
	case Identifier:
		return "Identifier"
	default:
		return "Unknown"
	}
}

// Symbol is a tagged value: a Literal or Identifier's text, or a Numeric's
// parsed value. CanonicalText is what SIDs are derived from.
type Symbol struct {
	Kind Kind
	Text string  // verbatim text for Literal and Identifier
	Num  float64 // parsed value for Numeric
}

// NewLiteral returns a Literal symbol with the given text.
func NewLiteral(text string) Symbol { return Symbol{Kind: Literal, Text: text} }

// NewIdentifier returns an Identifier (pattern variable) symbol with the
// given text.
func NewIdentifier(text string) Symbol { return Symbol{Kind: Identifier, Text: text} }

// NewNumeric returns a Numeric symbol for the given value.
func NewNumeric(n float64) Symbol { return Symbol{Kind: Numeric, Num: n} }

// CanonicalText returns the exact text a Symbol's SID is derived from. Two
// Symbol values with the same CanonicalText are, by construction,
// indistinguishable to the tree.
func (s Symbol) CanonicalText() string {
	if s.Kind == Numeric {
		return strconv.FormatFloat(s.Num, 'g', -1, 64)
	}
	return s.Text
}

// Display returns the symbol's human-readable form, used by Tree.String.
func (s Symbol) Display() string {
	return s.CanonicalText()
}

// SIDGenerator is the capability the statement parser needs: deterministic
// derivation of a SID from a symbol's canonical text, independent of any
// particular table's contents.
type SIDGenerator interface {
	GetSID(canonicalText string) SID
}

// GetSID derives the SID for an arbitrary canonical text. It is a pure
// function of its input: it never mutates or even reads t, which is why it
// is safe for two independently constructed Tables to agree.
func GetSID(canonicalText string) SID {
	return SID(xxhash.Sum64String(canonicalText))
}

// Table is a symbol table: a base map from SID to Symbol, plus a transient
// binding overlay from SID to SID consulted before the base map on resolve.
type Table struct {
	base    map[SID]Symbol
	overlay map[SID]SID
}

// New creates an empty symbol table.
func New() *Table {
	return &Table{base: make(map[SID]Symbol)}
}

// GetSID implements SIDGenerator. Unlike the package-level GetSID, it
// consults the binding overlay: if canonicalText's natural hash is
// currently overlaid to a concrete SID, that concrete SID is returned
// instead. This is what lets the parser resolve a pattern variable's text
// to its bound value during BindableImplication.Apply's posterior
// insertion: every lookup through a Table must resolve to the concrete
// symbol a binding has installed, not the variable's own hash.
func (t *Table) GetSID(canonicalText string) SID {
	sid := GetSID(canonicalText)
	if t.overlay != nil {
		if overlaid, ok := t.overlay[sid]; ok {
			return overlaid
		}
	}
	return sid
}

// Intern returns the SID of sym, storing the SID -> Symbol mapping in the
// base table if it is not already present. Interning an Identifier is legal
// (the parser and binding engine need SIDs for variables too) but an
// Identifier's SID is never used as the stored symbol of a tree node — that
// restriction is enforced by the tree, not the symbol table.
func (t *Table) Intern(sym Symbol) SID {
	sid := GetSID(sym.CanonicalText())
	if _, ok := t.base[sid]; !ok {
		t.base[sid] = sym
	}
	return sid
}

// Resolve returns the Symbol for sid, consulting the binding overlay first
// and falling back to the base table. It returns false if sid is present in
// neither.
func (t *Table) Resolve(sid SID) (Symbol, bool) {
	if t.overlay != nil {
		if overlaid, ok := t.overlay[sid]; ok {
			sym, ok := t.base[overlaid]
			return sym, ok
		}
	}
	sym, ok := t.base[sid]
	return sym, ok
}

// BindVariables merges m into the binding overlay. Every value SID in m must
// already be present in the base table; keys may be variable SIDs that have
// never been interned as ground facts. Violating the precondition is a
// programmer error and is surfaced as a CustomError rather than panicking,
// so a misbehaving rule aborts cleanly instead of crashing the process.
func (t *Table) BindVariables(m map[SID]SID) error {
	for varSID, concreteSID := range m {
		if _, ok := t.base[concreteSID]; !ok {
			return rterrors.Customf("bind_variables: concrete SID %d (for variable SID %d) is not present in the symbol table", concreteSID, varSID)
		}
	}
	if t.overlay == nil {
		t.overlay = make(map[SID]SID, len(m))
	}
	for varSID, concreteSID := range m {
		t.overlay[varSID] = concreteSID
	}
	return nil
}

// ClearBindings empties the overlay. Every code path that calls
// BindVariables must call ClearBindings before returning, regardless of
// outcome.
func (t *Table) ClearBindings() {
	if len(t.overlay) > 0 {
		t.overlay = nil
	}
}

// HasOverlay reports whether any bindings are currently installed. Used by
// tests asserting that the overlay is properly scoped.
func (t *Table) HasOverlay() bool {
	return len(t.overlay) > 0
}

// Len returns the number of distinct symbols interned in the base table.
func (t *Table) Len() int {
	return len(t.base)
}

// Merge copies other's base entries into t, overwriting t's entry on SID
// collision. Since a SID is a pure function of canonical text, a collision
// only ever occurs between two Symbols with the same text, so the
// overwrite is a no-op in practice; Merge exists for the case where it
// isn't (a hash collision), in which case the caller designated as "later"
// wins. Used by the lattice algebra to populate a greatest-lower-bound
// tree's symbol table from its two operands.
func (t *Table) Merge(other *Table) {
	for sid, sym := range other.base {
		t.base[sid] = sym
	}
}
