package stmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/epitree/internal/symtab"
)

func TestParse_ClassifiesSymbolKinds(t *testing.T) {
	tab := symtab.New()
	nodes, syms, err := Parse("literal.42.Variable", tab)
	require.NoError(t, err)
	require.Len(t, syms, 3)

	assert.Equal(t, symtab.Literal, syms[0].Kind)
	assert.Equal(t, symtab.Numeric, syms[1].Kind)
	assert.Equal(t, float64(42), syms[1].Num)
	assert.Equal(t, symtab.Identifier, syms[2].Kind)

	assert.Equal(t, EdgeNonExclusive, nodes[0].Edge)
	assert.Equal(t, EdgeNonExclusive, nodes[1].Edge)
	assert.Equal(t, EdgeEmpty, nodes[2].Edge)
}

func TestParse_ExclusiveSeparator(t *testing.T) {
	tab := symtab.New()
	nodes, _, err := Parse("a!b.c", tab)
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, EdgeExclusive, nodes[0].Edge)
	assert.Equal(t, EdgeNonExclusive, nodes[1].Edge)
	assert.Equal(t, EdgeEmpty, nodes[2].Edge)
}

func TestParse_RejectsInvalidChar(t *testing.T) {
	tab := symtab.New()
	_, _, err := Parse("a.b@c", tab)
	assert.Error(t, err)
}

func TestParse_RejectsLeadingSeparator(t *testing.T) {
	tab := symtab.New()
	_, _, err := Parse(".a.b", tab)
	assert.Error(t, err)
}

func TestParse_RejectsTrailingSeparator(t *testing.T) {
	tab := symtab.New()
	_, _, err := Parse("a.b.", tab)
	assert.Error(t, err)
}

func TestParse_RejectsAdjacentSeparators(t *testing.T) {
	tab := symtab.New()
	_, _, err := Parse("a..b", tab)
	assert.Error(t, err)
}

func TestParse_SameTextSameSID(t *testing.T) {
	tab := symtab.New()
	nodesA, _, err := Parse("brown.is", tab)
	require.NoError(t, err)
	nodesB, _, err := Parse("brown.knows", tab)
	require.NoError(t, err)
	assert.Equal(t, nodesA[0].Sym, nodesB[0].Sym)
}
