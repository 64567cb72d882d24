package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSID_DeterministicAcrossTables(t *testing.T) {
	a, b := New(), New()
	sidA := a.Intern(NewLiteral("brown"))
	sidB := b.Intern(NewLiteral("brown"))
	assert.Equal(t, sidA, sidB)
}

func TestIntern_DistinctTextsYieldDistinctSIDs(t *testing.T) {
	tab := New()
	sidA := tab.Intern(NewLiteral("alpha"))
	sidB := tab.Intern(NewLiteral("beta"))
	assert.NotEqual(t, sidA, sidB)
}

func TestResolve_ConsultsOverlayBeforeBase(t *testing.T) {
	tab := New()
	realSID := tab.Intern(NewLiteral("concrete"))
	varSID := tab.Intern(NewIdentifier("X"))

	require.NoError(t, tab.BindVariables(map[SID]SID{varSID: realSID}))
	resolved, ok := tab.Resolve(varSID)
	require.True(t, ok)
	assert.Equal(t, "concrete", resolved.Text)

	tab.ClearBindings()
	assert.False(t, tab.HasOverlay())
	_, ok = tab.Resolve(varSID)
	assert.True(t, ok)
}

func TestBindVariables_RejectsUninternedConcreteSID(t *testing.T) {
	tab := New()
	varSID := tab.Intern(NewIdentifier("X"))
	err := tab.BindVariables(map[SID]SID{varSID: SID(12345)})
	assert.Error(t, err)
}

func TestNumeric_CanonicalTextRoundTrips(t *testing.T) {
	sym := NewNumeric(42)
	assert.Equal(t, "42", sym.CanonicalText())
}
