package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/epitree/internal/rtree"
)

// TestEngine_Transitivity covers scenario S2: a single bindable
// implication chaining "X.in.Y" and "Y.in.Z" to "X.in.Z", run to a fixed
// point over a two-hop chain.
func TestEngine_Transitivity(t *testing.T) {
	tree := rtree.New()
	for _, s := range []string{"city.in.state", "state.in.country"} {
		_, err := tree.AddStatement(s)
		require.NoError(t, err)
	}

	engine := NewEngine(tree)
	engine.Register(NewBindableImplication(
		[]string{"X.in.Y", "Y.in.Z"},
		[]string{"X.in.Z"},
	))

	require.NoError(t, engine.Run())

	_, found := engine.Tree().Query("city.in.country")
	assert.True(t, found)
}

// TestEngine_TransitivityOverBranchingChain covers scenario S3: the same
// rule as S2, but over a tree with an unrelated branch ("other_state",
// "nothing", "something") that must not interfere with the chain.
func TestEngine_TransitivityOverBranchingChain(t *testing.T) {
	tree := rtree.New()
	for _, s := range []string{
		"place.in.city",
		"city.in.state",
		"state.in.country",
		"other_state.in.country",
		"nothing.important",
		"something.in",
	} {
		_, err := tree.AddStatement(s)
		require.NoError(t, err)
	}

	engine := NewEngine(tree)
	engine.Register(NewBindableImplication(
		[]string{"X.in.Y", "Y.in.Z"},
		[]string{"X.in.Z"},
	))

	require.NoError(t, engine.Run())

	for _, q := range []string{"place.in.state", "city.in.country", "place.in.country"} {
		_, found := engine.Tree().Query(q)
		assert.True(t, found, "expected %q to hold", q)
	}
}

// TestEngine_WolfGoatCabbage covers scenario S4. The binding pattern
// language has no inequality operator, so "same side as the goat,
// opposite the man" is expressed as two concrete, variable-free
// BindableImplications (one per side) rather than a single rule with a
// negated condition. Rules fire in registration order, so the move rule is
// registered first: within a pass the held item crosses with the man before
// the eating rules look at which side everything is on.
func TestEngine_WolfGoatCabbage(t *testing.T) {
	newEngine := func(tree *rtree.Tree) *Engine {
		engine := NewEngine(tree)
		engine.Register(NewBindableImplication(
			[]string{"man.holds!X", "man.in!P", "X.in!D"},
			[]string{"X.in!P"},
		))
		engine.Register(NewBindableImplication(
			[]string{"goat.in!left", "cabagge.in!left", "man.in!right"},
			[]string{"cabagge.is!eaten"},
		))
		engine.Register(NewBindableImplication(
			[]string{"goat.in!right", "cabagge.in!right", "man.in!left"},
			[]string{"cabagge.is!eaten"},
		))
		engine.Register(NewBindableImplication(
			[]string{"dog.in!left", "goat.in!left", "man.in!right"},
			[]string{"goat.is!eaten"},
		))
		engine.Register(NewBindableImplication(
			[]string{"dog.in!right", "goat.in!right", "man.in!left"},
			[]string{"goat.is!eaten"},
		))
		return engine
	}

	tree := rtree.New()
	for _, s := range []string{"goat.in!left", "cabagge.in!left", "dog.in!left", "man.in!left"} {
		_, err := tree.AddStatement(s)
		require.NoError(t, err)
	}

	engine := newEngine(tree)
	require.NoError(t, engine.Run())
	_, eaten := engine.Tree().Query("cabagge.is!eaten")
	assert.False(t, eaten)
	_, eaten = engine.Tree().Query("goat.is!eaten")
	assert.False(t, eaten)

	_, err := engine.Tree().AddStatement("man.holds!goat")
	require.NoError(t, err)
	_, err = engine.Tree().AddStatement("man.in!right")
	require.NoError(t, err)
	require.NoError(t, engine.Run())

	_, goatRight := engine.Tree().Query("goat.in!right")
	assert.True(t, goatRight)
	_, eaten = engine.Tree().Query("cabagge.is!eaten")
	assert.False(t, eaten)
	_, eaten = engine.Tree().Query("goat.is!eaten")
	assert.False(t, eaten)

	_, err = engine.Tree().AddStatement("man.in!left")
	require.NoError(t, err)
	require.NoError(t, engine.Run())

	_, goatLeft := engine.Tree().Query("goat.in!left")
	assert.True(t, goatLeft)

	_, err = engine.Tree().AddStatement("man.holds!cabagge")
	require.NoError(t, err)
	_, err = engine.Tree().AddStatement("man.in!right")
	require.NoError(t, err)
	require.NoError(t, engine.Run())

	_, eaten = engine.Tree().Query("goat.is!eaten")
	assert.True(t, eaten)
}

// TestImplication_SimpleForm exercises the non-bindable Implication form
// directly: its prior/posterior are fixed tree fragments with no
// variables.
func TestImplication_SimpleForm(t *testing.T) {
	tree := rtree.New()
	_, err := tree.AddStatement("a.b")
	require.NoError(t, err)

	prior := rtree.New()
	_, err = prior.AddStatement("a.b")
	require.NoError(t, err)

	posterior := rtree.New()
	_, err = posterior.AddStatement("a.c")
	require.NoError(t, err)

	impl := NewImplication(prior, posterior)
	newTree, triggered, err := impl.Apply(tree)
	require.NoError(t, err)
	assert.True(t, triggered)

	_, found := newTree.Query("a.c")
	assert.True(t, found)
	_, found = newTree.Query("a.b")
	assert.True(t, found)
}
