package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/epitree/internal/rtree"
)

func buildTransitivityTree(t *testing.T) *rtree.Tree {
	t.Helper()
	tr := rtree.New()
	for _, s := range []string{"city.in.state", "state.in.country"} {
		_, err := tr.AddStatement(s)
		require.NoError(t, err)
	}
	return tr
}

func TestBindStatement_VariableExpandsToEverySuccessor(t *testing.T) {
	tr := buildTransitivityTree(t)

	matches, err := BindStatement("X.in.Y", tr)
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	for _, m := range matches {
		assert.Len(t, m.Assignment, 2)
	}
}

func TestGenerateCompatible_ChainsSharedVariable(t *testing.T) {
	tr := buildTransitivityTree(t)

	priorA, err := BindStatement("X.in.Y", tr)
	require.NoError(t, err)
	priorB, err := BindStatement("Y.in.Z", tr)
	require.NoError(t, err)

	joint := GenerateCompatible(priorA, priorB)
	require.Len(t, joint, 1)
	assert.Len(t, joint[0], 3) // X, Y, Z all bound
}

func TestGenerateCompatible_EmptyWhenNoSharedBindingSurvives(t *testing.T) {
	tr := rtree.New()
	_, err := tr.AddStatement("a.b")
	require.NoError(t, err)
	_, err = tr.AddStatement("c.d")
	require.NoError(t, err)

	priorA, err := BindStatement("a.X", tr)
	require.NoError(t, err)
	priorB, err := BindStatement("c.X", tr)
	require.NoError(t, err)

	joint := GenerateCompatible(priorA, priorB)
	assert.Empty(t, joint)
}
