package bsa

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTes3EmptyArchive(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteU32(256))
	require.NoError(t, w.WriteU32(0))
	require.NoError(t, w.WriteU32(0))

	arc, err := ReadTes3(NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Empty(t, arc.Files)
}

// buildTes3Archive writes a single-entry Morrowind archive for name with
// payload data, in the same section order WriteTes3 produces.
func buildTes3Archive(t *testing.T, name string, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := NewWriter(&buf)

	hash, err := HashTes3Path(name)
	require.NoError(t, err)

	hashOffset := tes3CalcFileSize(1) + (len(name) + 1)

	require.NoError(t, w.WriteU32(256))
	require.NoError(t, w.WriteU32(uint32(hashOffset)))
	require.NoError(t, w.WriteU32(1))

	require.NoError(t, w.WriteU32(uint32(len(data))))
	require.NoError(t, w.WriteU32(0)) // offset

	require.NoError(t, w.WriteU32(0)) // name offset table
	_, err = w.WriteString(name)
	require.NoError(t, err)
	require.NoError(t, w.WriteU8(0))

	require.NoError(t, w.WriteU32(hash.Lo))
	require.NoError(t, w.WriteU32(hash.Hi))

	_, err = w.WriteBytes(data)
	require.NoError(t, err)

	return w.Bytes()
}

func TestReadTes3SingleEntry(t *testing.T) {
	t.Parallel()

	data := buildTes3Archive(t, "meshes\\x.nif", []byte{0xDE, 0xAD, 0xBE, 0xEF})
	arc, err := ReadTes3(NewReader(data))
	require.NoError(t, err)

	require.Len(t, arc.Files, 1)
	assert.Equal(t, "meshes\\x.nif", arc.Files[0].Name)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, arc.Files[0].Data)
	assert.Empty(t, arc.SanityCheck())
}

func TestReadTes3RejectsUnknownVersion(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteU32(1))
	require.NoError(t, w.WriteU32(0))
	require.NoError(t, w.WriteU32(0))

	_, err := ReadTes3(NewReader(w.Bytes()))
	require.Error(t, err)
	assert.True(t, IsKind(err, KindVersionFailure))
}

func TestWriteTes3RoundTrip(t *testing.T) {
	t.Parallel()

	data := buildTes3Archive(t, "meshes\\x.nif", []byte{0xDE, 0xAD, 0xBE, 0xEF})
	arc, err := ReadTes3(NewReader(data))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, WriteTes3(arc, &out))

	arc2, err := ReadTes3(NewReader(out.Bytes()))
	require.NoError(t, err)
	require.Len(t, arc2.Files, 1)
	assert.Equal(t, arc.Files[0].Name, arc2.Files[0].Name)
	assert.Equal(t, arc.Files[0].Data, arc2.Files[0].Data)
	assert.Equal(t, arc.Files[0].Hash, arc2.Files[0].Hash)
}

func TestTes3ArchiveInsertKeepsSortedAndUnique(t *testing.T) {
	t.Parallel()

	arc := &Tes3Archive{Header: Tes3Header{Version: 256}}

	names := []string{"sound\\c.wav", "meshes\\a.nif", "textures\\b.dds"}
	for _, n := range names {
		h, err := HashTes3Path(n)
		require.NoError(t, err)
		require.NoError(t, arc.Insert(Tes3File{Hash: h, Name: n, Data: []byte(n)}))
	}

	require.Len(t, arc.Files, 3)
	for i := 1; i < len(arc.Files); i++ {
		assert.True(t, arc.Files[i-1].Hash.Less(arc.Files[i].Hash) || arc.Files[i-1].Hash == arc.Files[i].Hash)
	}

	dupHash, err := HashTes3Path("meshes\\a.nif")
	require.NoError(t, err)
	require.NoError(t, arc.Insert(Tes3File{Hash: dupHash, Name: "meshes\\a.nif", Data: []byte("dup")}))
	assert.Len(t, arc.Files, 3, "duplicate insert is a no-op")
}

func TestTes3ArchiveEraseRemovesAndReportsMissing(t *testing.T) {
	t.Parallel()

	arc := &Tes3Archive{Header: Tes3Header{Version: 256}}
	h, err := HashTes3Path("meshes\\a.nif")
	require.NoError(t, err)
	require.NoError(t, arc.Insert(Tes3File{Hash: h, Name: "meshes\\a.nif", Data: []byte("x")}))

	assert.True(t, arc.Erase("meshes\\a.nif"))
	assert.Empty(t, arc.Files)
	assert.False(t, arc.Erase("meshes\\a.nif"))
}

func TestTes3ArchiveFind(t *testing.T) {
	t.Parallel()

	arc := &Tes3Archive{Header: Tes3Header{Version: 256}}
	h, err := HashTes3Path("meshes\\a.nif")
	require.NoError(t, err)
	require.NoError(t, arc.Insert(Tes3File{Hash: h, Name: "meshes\\a.nif", Data: []byte("x")}))

	f, ok := arc.Find("meshes\\a.nif")
	require.True(t, ok)
	assert.Equal(t, "meshes\\a.nif", f.Name)

	_, ok = arc.Find("meshes\\missing.nif")
	assert.False(t, ok)
}

func TestTes3ArchiveSanityCheckFlagsTamperedHash(t *testing.T) {
	t.Parallel()

	arc := &Tes3Archive{Files: []Tes3File{
		{Hash: Tes3Hash{Lo: 1, Hi: 1}, Name: "meshes\\a.nif"},
	}}
	bad := arc.SanityCheck()
	assert.Equal(t, []int{0}, bad)
}

func TestTes3CalcHashOffsetMatchesLayout(t *testing.T) {
	t.Parallel()

	files := []Tes3File{
		{Name: "a.nif", Data: []byte{1, 2, 3}},
		{Name: "bb.nif", Data: []byte{4, 5}},
	}
	got := tes3CalcHashOffset(files)
	want := tes3CalcFileSize(2) + (len("a.nif")+1) + (len("bb.nif")+1)
	assert.Equal(t, want, got)
}
