// Package rule implements the forward-chaining implication driver: simple
// tree-fragment implications, variable-bindable implications, and the
// fixed-point Engine that fires a registered set of them in order until a
// full pass produces no change.
package rule

import (
	"github.com/dekarrin/epitree/internal/rterrors"
	"github.com/dekarrin/epitree/internal/rtree"
)

// Rule is anything the Engine can apply to a tree: given the current tree,
// it returns the tree that should replace it (which may be the same
// value, unchanged), whether it triggered, and an error if application
// failed. A non-nil error aborts the Engine's run; the tree returned
// alongside it reflects whatever partial effect had already been applied.
type Rule interface {
	Apply(tree *rtree.Tree) (*rtree.Tree, bool, error)
}

// Implication is the non-bindable form: a fixed prior and posterior tree
// fragment, with no variables. Applying it replaces the whole tree with
// the greatest lower bound of the tree and the posterior, once the tree
// already contains at least as much information as the prior.
type Implication struct {
	Prior     *rtree.Tree
	Posterior *rtree.Tree
}

// NewImplication returns an Implication with the given prior and
// posterior fragments.
func NewImplication(prior, posterior *rtree.Tree) *Implication {
	return &Implication{Prior: prior, Posterior: posterior}
}

// Apply reports "not triggered" (tree, false, nil) if tree does not
// already satisfy the prior. Otherwise it computes tree's greatest lower
// bound with the posterior and returns that as the new tree with
// "triggered" (true). A posterior that is incompatible with tree (an
// absent GLB) is a structural conflict in the rule's design and is
// surfaced as an error rather than silently skipped.
func (im *Implication) Apply(tree *rtree.Tree) (*rtree.Tree, bool, error) {
	if tree.PartialOrder(im.Prior) != rtree.Less {
		return tree, false, nil
	}
	glb, ok := tree.GreatestLowerBound(im.Posterior)
	if !ok {
		return tree, false, rterrors.Custom("implication posterior is incompatible with the current tree (greatest lower bound is absent)")
	}
	return glb, true, nil
}
