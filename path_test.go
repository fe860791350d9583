package bsa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "LowerCasesASCII", in: "Meshes/X.NIF", want: "meshes\\x.nif"},
		{name: "FoldsForwardSlash", in: "a/b/c", want: "a\\b\\c"},
		{name: "StripsLeadingTrailingSlash", in: "\\meshes\\x.nif\\", want: "meshes\\x.nif"},
		{name: "CollapsesDotDot", in: "a/../b/x.nif", want: "b\\x.nif"},
		{name: "Empty", in: "", want: ""},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := normalizePath(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizePathIdempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"Meshes\\X.NIF", "a/b/../c", "", "Sound/Foo.WAV"} {
		once, err := normalizePath(in)
		require.NoError(t, err)
		twice, err := normalizePath(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestVerifyASCIIRejectsHighBit(t *testing.T) {
	t.Parallel()
	_, err := normalizePath("meshes\\\xe9.nif")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindHashNonASCII))
}

func TestSplitStemExt(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		in       string
		stem     string
		ext      string
	}{
		{name: "Simple", in: "meshes\\x.nif", stem: "meshes\\x", ext: ".nif"},
		{name: "NoExtension", in: "meshes\\x", stem: "meshes\\x", ext: ""},
		{name: "DotfileShaped", in: "meshes\\.gitignore", stem: "meshes\\.gitignore", ext: ""},
		{name: "TopLevel", in: "x.nif", stem: "x", ext: ".nif"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			stem, ext := splitStemExt(tc.in)
			assert.Equal(t, tc.stem, stem)
			assert.Equal(t, tc.ext, ext)
		})
	}
}

func TestMatchGlob(t *testing.T) {
	t.Parallel()

	ok, err := matchGlob("meshes/**/*.nif", "meshes\\x\\y.nif")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = matchGlob("sound/*.wav", "meshes\\x.nif")
	require.NoError(t, err)
	assert.False(t, ok)
}
