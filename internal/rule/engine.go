package rule

import (
	"github.com/google/uuid"

	"github.com/dekarrin/epitree/internal/rterrors"
	"github.com/dekarrin/epitree/internal/rtree"
)

// defaultMaxIterations bounds the fixed-point loop. The tree is monotonic
// and the node set is bounded by the symbol set and pattern structure, so
// a well-formed rule set always converges well under this; it exists to
// turn a malformed rule set (one that keeps minting fresh symbols through
// the parser) into a reported error instead of an infinite loop.
const defaultMaxIterations = 10000

// TraceEvent reports one rule's outcome during one pass of the fixed-point
// loop. It exists purely for external observability (logging, a REPL's
// verbose mode); nothing in the engine's own logic reads a TraceEvent
// back.
type TraceEvent struct {
	Pass      int
	RuleIndex int
	RuleID    uuid.UUID
	Triggered bool
}

// TraceFunc receives one TraceEvent per rule application.
type TraceFunc func(TraceEvent)

// Engine runs a registered, ordered set of Rules against a tree to a
// fixed point: passes repeat until one produces no triggered rule.
type Engine struct {
	tree          *rtree.Tree
	rules         []Rule
	ruleIDs       []uuid.UUID
	maxIterations int
	trace         TraceFunc
}

// NewEngine returns an Engine that operates on tree. tree is mutated (or
// replaced wholesale by a simple Implication) as rules fire.
func NewEngine(tree *rtree.Tree) *Engine {
	return &Engine{tree: tree, maxIterations: defaultMaxIterations}
}

// Tree returns the engine's current tree.
func (e *Engine) Tree() *rtree.Tree {
	return e.tree
}

// Register adds r to the end of the engine's rule list and returns a
// uuid.UUID assigned to it for trace correlation. Rules fire within a
// pass in registration order.
func (e *Engine) Register(r Rule) uuid.UUID {
	id := uuid.New()
	e.rules = append(e.rules, r)
	e.ruleIDs = append(e.ruleIDs, id)
	return id
}

// SetMaxIterations overrides the fixed-point loop's iteration cap.
func (e *Engine) SetMaxIterations(n int) {
	e.maxIterations = n
}

// SetTrace installs fn to receive a TraceEvent after every rule
// application. Pass nil to disable tracing.
func (e *Engine) SetTrace(fn TraceFunc) {
	e.trace = fn
}

// Run applies every registered rule, in registration order, repeatedly
// until a full pass triggers none of them. It returns a CustomError if
// the iteration cap is exceeded first.
func (e *Engine) Run() error {
	for pass := 0; pass < e.maxIterations; pass++ {
		anyTriggered := false

		for i, r := range e.rules {
			newTree, triggered, err := r.Apply(e.tree)
			e.tree = newTree
			if e.trace != nil {
				e.trace(TraceEvent{Pass: pass, RuleIndex: i, RuleID: e.ruleIDs[i], Triggered: triggered})
			}
			if err != nil {
				return err
			}
			if triggered {
				anyTriggered = true
			}
		}

		if !anyTriggered {
			return nil
		}
	}
	return rterrors.Custom("fixed-point loop exceeded the maximum iteration cap")
}
