// Package epitree wires the knowledge tree, the rule engine, and trace
// logging together into one facade: the single entry point a CLI or an
// embedding program drives to build up facts, register rules, and run
// them to a fixed point.
package epitree

import (
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/dekarrin/epitree/internal/rtree"
	"github.com/dekarrin/epitree/internal/rule"
)

// Engine owns a knowledge tree and the rules registered against it. It is
// the type cmd/epitree drives: every statement the CLI's user types
// either adds a fact, registers a rule, or runs the fixed-point loop.
type Engine struct {
	tree   *rtree.Tree
	driver *rule.Engine
	log    *log.Logger
}

// New returns an Engine over an empty tree. If logger is nil, a logger
// writing to os.Stderr is used; it receives one line per rule application
// only if tracing is enabled with SetTraceLogging.
func New(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	tree := rtree.New()
	eng := &Engine{
		tree:   tree,
		driver: rule.NewEngine(tree),
		log:    logger,
	}
	return eng
}

// SetMaxIterations overrides the fixed-point loop's iteration cap.
func (e *Engine) SetMaxIterations(n int) {
	e.driver.SetMaxIterations(n)
}

// SetTraceLogging enables or disables one log line per rule application,
// written through the Engine's logger.
func (e *Engine) SetTraceLogging(enabled bool) {
	if !enabled {
		e.driver.SetTrace(nil)
		return
	}
	e.driver.SetTrace(func(ev rule.TraceEvent) {
		e.log.Printf("pass=%d rule=%d id=%s triggered=%t", ev.Pass, ev.RuleIndex, ev.RuleID, ev.Triggered)
	})
}

// AddFact inserts a ground-fact statement into the tree. See
// rtree.Tree.AddStatement for exact semantics.
func (e *Engine) AddFact(statement string) error {
	_, err := e.tree.AddStatement(statement)
	return err
}

// Query reports whether statement's path is present in the tree.
func (e *Engine) Query(statement string) bool {
	_, found := e.tree.Query(statement)
	return found
}

// RegisterImplication registers a non-bindable (variable-free) rule and
// returns its trace correlation id.
func (e *Engine) RegisterImplication(prior, posterior *rtree.Tree) uuid.UUID {
	return e.driver.Register(rule.NewImplication(prior, posterior))
}

// RegisterBindableImplication registers a variable-bindable rule and
// returns its trace correlation id.
func (e *Engine) RegisterBindableImplication(priors, posteriors []string) uuid.UUID {
	return e.driver.Register(rule.NewBindableImplication(priors, posteriors))
}

// CallFunction is the "function" pattern convenience: it inserts
// callStatement into the tree, applies a one-off BindableImplication built
// from priors/posteriors, and then detaches the subtree rooted at
// markerPath (the call marker), regardless of whether the implication
// triggered. Unlike a registered rule, it runs once and is not part of the
// fixed-point loop driven by Run.
func (e *Engine) CallFunction(priors, posteriors []string, callStatement, markerPath string) (bool, error) {
	impl := rule.NewBindableImplication(priors, posteriors)
	newTree, triggered, err := rule.CallFunction(e.tree, impl, callStatement, markerPath)
	e.tree = newTree
	return triggered, err
}

// Run fires every registered rule to a fixed point.
func (e *Engine) Run() error {
	// the driver may replace its tree wholesale (a simple Implication's
	// GLB-based apply); re-sync our own reference afterward regardless of
	// outcome so AddFact/Query always see the current tree.
	defer func() { e.tree = e.driver.Tree() }()
	return e.driver.Run()
}

// Tree returns the engine's current knowledge tree, for callers (the CLI's
// :stats and :display commands) that need to inspect it directly.
func (e *Engine) Tree() *rtree.Tree {
	return e.tree
}
