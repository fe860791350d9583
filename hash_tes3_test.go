package bsa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashTes3PathDeterministic(t *testing.T) {
	t.Parallel()
	a, err := HashTes3Path("Meshes\\X.NIF")
	require.NoError(t, err)
	b, err := HashTes3Path("meshes/x.nif")
	require.NoError(t, err)
	assert.Equal(t, a, b, "normalization should make case/separator variants hash identically")
}

func TestHashTes3PathDistinctForDistinctNames(t *testing.T) {
	t.Parallel()
	a, err := HashTes3Path("meshes\\x.nif")
	require.NoError(t, err)
	b, err := HashTes3Path("meshes\\y.nif")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashTes3PathEmptyFails(t *testing.T) {
	t.Parallel()
	_, err := HashTes3Path("")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindHashEmpty))
}

func TestTes3HashOrdering(t *testing.T) {
	t.Parallel()
	lo := Tes3Hash{Lo: 1, Hi: 5}
	hi := Tes3Hash{Lo: 2, Hi: 0}
	assert.True(t, lo.Less(hi))
	assert.False(t, hi.Less(lo))

	tie := Tes3Hash{Lo: 1, Hi: 9}
	assert.True(t, lo.Less(tie))
}

func TestTes3HashNumericPacksHiOverLo(t *testing.T) {
	t.Parallel()
	h := Tes3Hash{Lo: 0x11111111, Hi: 0x22222222}
	assert.Equal(t, uint64(0x2222222211111111), h.Numeric())
}
