package rule

import (
	"strings"
	"unicode"

	"github.com/dekarrin/epitree/internal/binding"
	"github.com/dekarrin/epitree/internal/rterrors"
	"github.com/dekarrin/epitree/internal/rtree"
	"github.com/dekarrin/epitree/internal/util"
)

// BindableImplication is the variable form: a list of pattern priors
// (textual statements that may contain Identifier variables) and a list
// of textual posterior statements, also possibly containing variables
// bound by the priors.
type BindableImplication struct {
	Priors     []string
	Posteriors []string
}

// NewBindableImplication returns a BindableImplication with the given
// prior patterns and posterior statement templates.
func NewBindableImplication(priors, posteriors []string) *BindableImplication {
	return &BindableImplication{Priors: priors, Posteriors: posteriors}
}

// Apply binds every prior pattern against tree, computes every joint
// assignment consistent across all of them, and for each one installs it
// on tree's symbol table's binding overlay and inserts every posterior
// statement, so the overlay resolves each posterior's variable SIDs to
// the joint assignment's concrete SIDs before the parser derives the SID
// that actually gets stored. The overlay is cleared after each joint
// assignment regardless of outcome.
//
// Apply mutates tree in place (every posterior insertion is a ground
// fact, not a tree replacement) and always returns tree itself. It
// reports "triggered" if at least one posterior insertion produced at
// least one new node, across all joint assignments.
func (bi *BindableImplication) Apply(tree *rtree.Tree) (*rtree.Tree, bool, error) {
	if unbound := bi.unboundPosteriorVariables(); unbound.Len() > 0 {
		return tree, false, rterrors.Custom("posterior references variable(s) not bound by any prior: " + unbound.String())
	}

	matchLists := make([][]binding.Match, len(bi.Priors))
	for i, pattern := range bi.Priors {
		matches, err := binding.BindStatement(pattern, tree)
		if err != nil {
			return tree, false, err
		}
		matchLists[i] = matches
	}

	joint := binding.GenerateCompatible(matchLists...)
	triggered := false

	for _, assignment := range joint {
		if err := tree.Symbols.BindVariables(assignment); err != nil {
			tree.Symbols.ClearBindings()
			return tree, triggered, err
		}

		for _, posterior := range bi.Posteriors {
			nids, err := tree.AddStatement(posterior)
			if err != nil {
				tree.Symbols.ClearBindings()
				return tree, triggered, err
			}
			if len(nids) > 0 {
				triggered = true
			}
		}

		tree.Symbols.ClearBindings()
	}

	return tree, triggered, nil
}

// unboundPosteriorVariables returns the set of Identifier-looking symbols
// used in the posteriors that do not appear anywhere in the priors. Such a
// rule can never resolve: the overlay has no binding to offer them, so the
// posterior's own parse would mint them as fresh ground symbols instead of
// substituting the intended value.
func (bi *BindableImplication) unboundPosteriorVariables() util.Set[string] {
	priorVars := util.NewSet[string]()
	for _, p := range bi.Priors {
		for _, v := range variablesIn(p) {
			priorVars.Add(v)
		}
	}

	unbound := util.NewSet[string]()
	for _, p := range bi.Posteriors {
		for _, v := range variablesIn(p) {
			if !priorVars.Has(v) {
				unbound.Add(v)
			}
		}
	}
	return unbound
}

// variablesIn returns the Identifier-looking symbol texts (those beginning
// with an uppercase letter) in a statement, in left-to-right order.
func variablesIn(statement string) []string {
	var vars []string
	for _, sym := range strings.FieldsFunc(statement, func(r rune) bool { return r == '.' || r == '!' }) {
		runes := []rune(sym)
		if len(runes) > 0 && unicode.IsUpper(runes[0]) {
			vars = append(vars, sym)
		}
	}
	return vars
}

// CallFunction is the "function" convenience: it inserts callStatement
// into tree, applies impl once, and then detaches the subtree rooted at
// markerPath (the call marker), regardless of whether impl triggered. It
// is an external layer over Apply, not part of the core driver.
func CallFunction(tree *rtree.Tree, impl *BindableImplication, callStatement, markerPath string) (*rtree.Tree, bool, error) {
	if _, err := tree.AddStatement(callStatement); err != nil {
		return tree, false, err
	}

	newTree, triggered, applyErr := impl.Apply(tree)
	if removeErr := newTree.RemoveAtPath(markerPath); removeErr != nil && applyErr == nil {
		return newTree, triggered, removeErr
	}
	return newTree, triggered, applyErr
}
