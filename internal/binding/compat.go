package binding

import "github.com/emirpasic/gods/sets/treeset"

func stringComparator(a, b interface{}) int {
	sa, sb := a.(string), b.(string)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	default:
		return 0
	}
}

// GenerateCompatible takes one Match list per pattern and produces every
// Assignment consistent across all of them: starting from the singleton
// empty assignment, each pattern's match list is folded in by keeping only
// the (surviving assignment, match) pairs that agree on every variable
// they share. If the surviving set ever empties, no joint assignment
// exists and GenerateCompatible returns nil.
//
// The Cartesian-product step can produce the same merged assignment by
// more than one route (e.g. two patterns that don't share the variable
// distinguishing two of a third pattern's matches), so the accumulated
// results are deduplicated through a treeset keyed on each assignment's
// canonical encoding before being returned.
func GenerateCompatible(matchLists ...[]Match) []Assignment {
	surviving := []Assignment{{}}

	for _, matches := range matchLists {
		var next []Assignment
		for _, d := range surviving {
			for _, m := range matches {
				if d.agrees(m.Assignment) {
					next = append(next, d.merged(m.Assignment))
				}
			}
		}
		surviving = next
		if len(surviving) == 0 {
			return nil
		}
	}

	seen := treeset.NewWith(stringComparator)
	out := make([]Assignment, 0, len(surviving))
	for _, asn := range surviving {
		key := asn.canonicalKey()
		if seen.Contains(key) {
			continue
		}
		seen.Add(key)
		out = append(out, asn)
	}
	return out
}
