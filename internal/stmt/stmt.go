// Package stmt implements the statement surface grammar: a dotted/exclusive
// path string is scanned into a sequence of (symbol, edge-kind) pairs. It is
// the only textual input format the engine understands; everything else
// (the tree, the binding engine, the rule driver) consumes the output of
// Parse, never raw strings.
//
//	statement := symbol (sep symbol)*
//	sep       := '.' (non-exclusive) | '!' (exclusive)
//	symbol    := one or more characters from a..z | A..Z | 0..9,
//	             none of which may be in the invalid set { % $ @ # , ] [ }
//
// A symbol starting with a digit must parse as a finite real number. A
// symbol starting with an uppercase letter is a pattern variable
// (Identifier). Any other symbol is a Literal.
//
// The scanner enforces only the invalid set and the separator rules; any
// other character, such as '_' in "other_state", is accepted inside a
// symbol.
package stmt

import (
	"strconv"
	"unicode"

	"github.com/dekarrin/epitree/internal/rterrors"
	"github.com/dekarrin/epitree/internal/symtab"
)

// EdgeKind is the kind of edge a separator implies. It is interpreted
// differently by different consumers: the tree's insertion path treats it
// strictly (NonExclusive and Exclusive may never be interchanged once set),
// while the tree's query path treats EdgeNonExclusive as a wildcard that is
// satisfied by either actual edge kind.
type EdgeKind int

const (
	// EdgeEmpty marks the last symbol in a statement: there is no separator
	// after it.
	EdgeEmpty EdgeKind = iota
	// EdgeNonExclusive is implied by a '.' separator.
	EdgeNonExclusive
	// EdgeExclusive is implied by a '!' separator.
	EdgeExclusive
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeNonExclusive:
		return "."
	case EdgeExclusive:
		return "!"
	default:
		return ""
	}
}

// Node is one parsed position along a statement's path: the SID of its
// symbol, and the kind of edge implied by the separator that follows it (or
// EdgeEmpty for the final symbol). Node carries no NID; NID assignment is
// the tree's responsibility.
type Node struct {
	Sym  symtab.SID
	Edge EdgeKind
}

const invalidChars = "%$@#,]["

// Parse scans statement into a sequence of Nodes and their corresponding
// Symbols. It is used both for ground facts (tree insertion/query) and for
// patterns (the binding engine), since symbol classification is purely
// lexical and does not depend on whether the caller intends to insert or
// match.
func Parse(statement string, gen symtab.SIDGenerator) ([]Node, []symtab.Symbol, error) {
	type rawSymbol struct {
		text string
		sep  byte // '.', '!', or 0 for end of statement
	}

	var raws []rawSymbol
	scan := 0
	for scan < len(statement) {
		end, err := findNextSeparator(statement, scan)
		if err != nil {
			return nil, nil, err
		}
		text := statement[scan:end]
		var sep byte
		if end < len(statement) {
			sep = statement[end]
		}
		raws = append(raws, rawSymbol{text: text, sep: sep})
		scan = end + 1
	}

	nodes := make([]Node, 0, len(raws))
	syms := make([]symtab.Symbol, 0, len(raws))
	for _, raw := range raws {
		sym, err := classify(raw.text)
		if err != nil {
			return nil, nil, err
		}

		var edge EdgeKind
		switch raw.sep {
		case '.':
			edge = EdgeNonExclusive
		case '!':
			edge = EdgeExclusive
		case 0:
			edge = EdgeEmpty
		default:
			return nil, nil, rterrors.Customf("unexpected separator byte %q", raw.sep)
		}

		sid := gen.GetSID(sym.CanonicalText())
		nodes = append(nodes, Node{Sym: sid, Edge: edge})
		syms = append(syms, sym)
	}

	return nodes, syms, nil
}

// classify turns raw symbol text into a typed Symbol per the grammar's
// three classification rules.
func classify(text string) (symtab.Symbol, error) {
	first := rune(text[0])
	switch {
	case unicode.IsDigit(first):
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return symtab.Symbol{}, rterrors.WrapCustomf(err, "symbol %q starts with a digit but is not a finite real number", text)
		}
		return symtab.NewNumeric(n), nil
	case unicode.IsUpper(first):
		return symtab.NewIdentifier(text), nil
	default:
		return symtab.NewLiteral(text), nil
	}
}

// findNextSeparator returns the index of the next '.' or '!' in statement at
// or after start, or len(statement) if none remains. It rejects a leading or
// trailing separator, an empty symbol (adjacent separators), and any
// character from the invalid set.
func findNextSeparator(statement string, start int) (int, error) {
	for i := start; i < len(statement); i++ {
		c := statement[i]
		if c == '.' || c == '!' {
			if i == start || i == len(statement)-1 {
				return 0, rterrors.Invalid(rune(c), i)
			}
			return i, nil
		}
		if containsByte(invalidChars, c) {
			return 0, rterrors.Invalid(rune(c), i)
		}
	}
	return len(statement), nil
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}
