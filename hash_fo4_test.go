package bsa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFo4PathDeterministic(t *testing.T) {
	t.Parallel()
	a, err := HashFo4Path("Textures\\Armor\\Iron\\Cuirass.DDS")
	require.NoError(t, err)
	b, err := HashFo4Path("textures/armor/iron/cuirass.dds")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestHashFo4PathSplitsDirFileExt(t *testing.T) {
	t.Parallel()
	h, err := HashFo4Path("textures\\armor\\iron\\cuirass.dds")
	require.NoError(t, err)

	wantFile := fo4CRC("cuirass")
	wantDir := fo4CRC("textures\\armor\\iron")
	assert.Equal(t, wantFile, h.File)
	assert.Equal(t, wantDir, h.Dir)
	assert.Equal(t, [4]byte{'d', 'd', 's', 0}, h.Ext)
}

func TestHashFo4PathNoDirectory(t *testing.T) {
	t.Parallel()
	h, err := HashFo4Path("cuirass.dds")
	require.NoError(t, err)
	assert.Equal(t, fo4CRC(""), h.Dir)
}

func TestHashFo4PathNoExtension(t *testing.T) {
	t.Parallel()
	h, err := HashFo4Path("meshes\\x")
	require.NoError(t, err)
	assert.Equal(t, [4]byte{}, h.Ext)
}

func TestHashFo4PathDistinctForDistinctNames(t *testing.T) {
	t.Parallel()
	a, err := HashFo4Path("meshes\\x.nif")
	require.NoError(t, err)
	b, err := HashFo4Path("meshes\\y.nif")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashFo4PathRejectsNonASCII(t *testing.T) {
	t.Parallel()
	_, err := HashFo4Path("meshes\\\xe9.nif")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindHashNonASCII))
}

func TestFo4CRCEmptyIsZero(t *testing.T) {
	t.Parallel()
	assert.Zero(t, fo4CRC(""))
}

func TestFo4CRCTableHasNoZeroHoles(t *testing.T) {
	t.Parallel()
	// Index 0 legitimately holds 0; every other slot must be populated,
	// otherwise the table literal got truncated during transcription.
	for i := 1; i < len(fo4CRCTable); i++ {
		assert.NotZero(t, fo4CRCTable[i], "entry %d", i)
	}
}
