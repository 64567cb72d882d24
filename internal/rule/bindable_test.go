package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/epitree/internal/rtree"
)

func TestBindableImplication_RejectsUnboundPosteriorVariable(t *testing.T) {
	tree := rtree.New()
	require.NoError(t, func() error { _, err := tree.AddStatement("a.b"); return err }())

	impl := NewBindableImplication([]string{"a.X"}, []string{"X.in.Y"})
	_, triggered, err := impl.Apply(tree)
	assert.False(t, triggered)
	assert.Error(t, err)
}

func TestBindableImplication_AllowsPriorVariableUnusedInPosterior(t *testing.T) {
	tree := rtree.New()
	require.NoError(t, func() error { _, err := tree.AddStatement("a.b"); return err }())

	impl := NewBindableImplication([]string{"a.X"}, []string{"found.is!a"})
	_, triggered, err := impl.Apply(tree)
	require.NoError(t, err)
	assert.True(t, triggered)
}

func TestBindableImplication_SubstitutesBoundVariableIntoPosterior(t *testing.T) {
	tree := rtree.New()
	require.NoError(t, func() error { _, err := tree.AddStatement("city.in.state"); return err }())

	impl := NewBindableImplication([]string{"X.in.state"}, []string{"X.is!found"})
	newTree, triggered, err := impl.Apply(tree)
	require.NoError(t, err)
	assert.True(t, triggered)

	_, found := newTree.Query("city.is!found")
	assert.True(t, found)
}

func TestCallFunction_InsertsAppliesAndDetachesMarker(t *testing.T) {
	tree := rtree.New()
	require.NoError(t, func() error { _, err := tree.AddStatement("value.is!42"); return err }())

	impl := NewBindableImplication(
		[]string{"call.with!X", "value.is!X"},
		[]string{"result.is!X"},
	)

	newTree, triggered, err := CallFunction(tree, impl, "call.with!42", "call")
	require.NoError(t, err)
	assert.True(t, triggered)

	_, found := newTree.Query("result.is!42")
	assert.True(t, found)

	_, found = newTree.Query("call.with!42")
	assert.False(t, found)
}
