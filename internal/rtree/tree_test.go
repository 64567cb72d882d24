package rtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddStatement_IdempotentPrefix(t *testing.T) {
	tr := New()
	_, err := tr.AddStatement("brown.is!happy")
	require.NoError(t, err)
	_, err = tr.AddStatement("brown.knows.stuff")
	require.NoError(t, err)
	_, err = tr.AddStatement("brown.knows.me")
	require.NoError(t, err)

	nids, err := tr.AddStatement("brown.knows")
	require.NoError(t, err)
	assert.Empty(t, nids)
}

func TestAddStatement_IncompatibleUpgradeErrors(t *testing.T) {
	tr := New()
	_, err := tr.AddStatement("brown.is!happy")
	require.NoError(t, err)

	_, err = tr.AddStatement("brown.is.sad.today")
	assert.Error(t, err)
}

func TestAddStatement_ExclusiveSiblingAddsNewNodes(t *testing.T) {
	tr := New()
	_, err := tr.AddStatement("brown.is!happy")
	require.NoError(t, err)

	nids, err := tr.AddStatement("brown.is!sad.today")
	require.NoError(t, err)
	assert.Len(t, nids, 2)
}

func TestQuery_WildcardAndExclusiveSeparators(t *testing.T) {
	tr := New()
	_, err := tr.AddStatement("brown.is!happy")
	require.NoError(t, err)
	_, err = tr.AddStatement("brown.is!sad.today")
	require.NoError(t, err)

	n1, ok1 := tr.Query("brown.is.sad.today")
	require.True(t, ok1)
	n2, ok2 := tr.Query("brown.is!sad.today")
	require.True(t, ok2)
	assert.Equal(t, n1.NID, n2.NID)

	_, ok3 := tr.Query("brown.is!happy.today")
	assert.False(t, ok3)

	_, ok4 := tr.Query("brown!is!sad.today")
	assert.False(t, ok4)
}

func TestGreatestLowerBound_UnionOfNonExclusiveSiblings(t *testing.T) {
	a, b := New(), New()
	_, err := a.AddStatement("t.a")
	require.NoError(t, err)
	_, err = b.AddStatement("t.b")
	require.NoError(t, err)

	glb, ok := a.GreatestLowerBound(b)
	require.True(t, ok)

	_, found := glb.Query("t.a")
	assert.True(t, found)
	_, found = glb.Query("t.b")
	assert.True(t, found)
}

func TestGreatestLowerBound_ExclusiveBranchesMerge(t *testing.T) {
	a, b := New(), New()
	_, err := a.AddStatement("t!a.b")
	require.NoError(t, err)
	_, err = b.AddStatement("t!a.c.d")
	require.NoError(t, err)

	glb, ok := a.GreatestLowerBound(b)
	require.True(t, ok)

	_, found := glb.Query("t!a.b")
	assert.True(t, found)
	_, found = glb.Query("t!a.c.d")
	assert.True(t, found)
}

func TestGreatestLowerBound_ExclusiveVsNonExclusiveMismatch(t *testing.T) {
	a, b := New(), New()
	_, err := a.AddStatement("t!a")
	require.NoError(t, err)
	_, err = b.AddStatement("t.b")
	require.NoError(t, err)

	_, ok := a.GreatestLowerBound(b)
	assert.False(t, ok)
}

func TestPartialOrder_MoreSpecificTreeIsLess(t *testing.T) {
	general, specific := New(), New()
	_, err := general.AddStatement("t.a")
	require.NoError(t, err)
	_, err = specific.AddStatement("t.a")
	require.NoError(t, err)
	_, err = specific.AddStatement("t.b")
	require.NoError(t, err)

	assert.Equal(t, Less, specific.PartialOrder(general))
	assert.Equal(t, Greater, general.PartialOrder(specific))
}

func TestString_GoldenDisplayWithExclusiveMarker(t *testing.T) {
	tr := New()
	for _, s := range []string{"a.b.c", "a.b.d", "a.f.e", "z.q.r", "z.x!p"} {
		_, err := tr.AddStatement(s)
		require.NoError(t, err)
	}

	out := tr.String()
	assert.Contains(t, out, "--*p")
}

func TestRemoveAtPath_DetachesSubtree(t *testing.T) {
	tr := New()
	_, err := tr.AddStatement("a.b.c")
	require.NoError(t, err)

	err = tr.RemoveAtPath("a.b")
	require.NoError(t, err)

	_, found := tr.Query("a.b.c")
	assert.False(t, found)
	_, found = tr.Query("a")
	assert.True(t, found)
}

func TestRemoveAtPath_MissingPathIsNoOp(t *testing.T) {
	tr := New()
	err := tr.RemoveAtPath("nonexistent.path")
	assert.NoError(t, err)
}

func TestStats(t *testing.T) {
	tr := New()
	_, err := tr.AddStatement("a.b.c")
	require.NoError(t, err)

	nodeCount, symbolCount, maxDepth := tr.Stats()
	assert.Equal(t, 4, nodeCount) // root + a + b + c
	assert.Equal(t, 4, symbolCount)
	assert.Equal(t, 3, maxDepth)
}
