package bsa

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSniffDispatchesOnMagic(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		data []byte
		want Dialect
	}{
		{name: "Tes4", data: []byte("BSA\x00"), want: DialectTes4},
		{name: "Fo4", data: []byte("BTDX"), want: DialectFo4},
		{name: "Tes3", data: buildTes3Archive(t, "meshes\\a.nif", []byte{1}), want: DialectTes3},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Sniff(NewReader(tc.data))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSniffRejectsUnrecognized(t *testing.T) {
	t.Parallel()
	_, err := Sniff(NewReader([]byte{0, 0, 0, 0}))
	require.Error(t, err)
}

func TestSniffRewindsCursorToStart(t *testing.T) {
	t.Parallel()
	r := NewReader([]byte("BSA\x00"))
	require.NoError(t, r.SeekAbs(2))
	_, err := Sniff(r)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Tell())
}

func TestOpenDecodesTes3ArchiveFromDisk(t *testing.T) {
	t.Parallel()

	data := buildTes3Archive(t, "meshes\\x.nif", []byte{0xDE, 0xAD, 0xBE, 0xEF})
	path := filepath.Join(t.TempDir(), "test.bsa")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	arc, err := Open(path)
	require.NoError(t, err)
	defer arc.Close()

	assert.Equal(t, DialectTes3, arc.Dialect)
	require.NotNil(t, arc.Tes3)
	assert.Equal(t, []string{"meshes\\x.nif"}, arc.Names())
}

func TestOpenLogsAdvisoryOnTamperedHash(t *testing.T) {
	t.Parallel()

	data := buildTes3Archive(t, "meshes\\x.nif", []byte{1})
	// Flip a byte in the stored hash so it no longer matches the name.
	hashPos := tes3HeaderSize + tes3CalcHashOffset([]Tes3File{{Name: "meshes\\x.nif"}})
	data[hashPos] ^= 0xFF

	path := filepath.Join(t.TempDir(), "tampered.bsa")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	arc, err := Open(path, WithLogger(logger))
	require.NoError(t, err, "a hash mismatch is advisory, not fatal")
	defer arc.Close()

	assert.Contains(t, logs.String(), "does not match")
}

func TestOpenRejectsMissingFile(t *testing.T) {
	t.Parallel()
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist.bsa"))
	require.Error(t, err)
}

func TestArchiveGlobMatchesTes3Names(t *testing.T) {
	t.Parallel()

	arc := &Archive{Dialect: DialectTes3, Tes3: &Tes3Archive{Files: []Tes3File{
		{Name: "meshes\\a.nif"},
		{Name: "meshes\\sub\\b.nif"},
		{Name: "sound\\c.wav"},
	}}}

	matches, err := arc.Glob("meshes/**/*.nif")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"meshes\\a.nif", "meshes\\sub\\b.nif"}, matches)
}

func TestArchiveNamesJoinsTes4DirAndFile(t *testing.T) {
	t.Parallel()

	arc := &Archive{Dialect: DialectTes4, Tes4: &Tes4Archive{Directories: []Tes4Directory{
		{Name: "meshes", Files: []Tes4File{{Name: "x.nif"}, {Name: ""}}},
	}}}

	assert.Equal(t, []string{"meshes\\x.nif"}, arc.Names())
}

func TestDialectString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "tes3", DialectTes3.String())
	assert.Equal(t, "tes4", DialectTes4.String())
	assert.Equal(t, "fo4", DialectFo4.String())
	assert.Equal(t, "unknown", DialectUnknown.String())
}
