package bsa

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// lowerTable is a fixed 256-entry char map: '/' folds to '\', 'A'-'Z' fold to
// 'a'-'z', everything else maps to itself. Bethesda's original hashing code
// runs every char through the C locale's tolower, which makes hashes depend
// on the process locale; we hard-code the mapping instead so hashes never
// drift with LC_ALL, the same rationale the engine itself documents.
var lowerTable [256]byte

func init() {
	for i := range lowerTable {
		lowerTable[i] = byte(i)
	}
	lowerTable['/'] = '\\'
	for c := byte('A'); c <= 'Z'; c++ {
		lowerTable[c] = c - 'A' + 'a'
	}
}

// verifyASCII rejects any byte with the high bit set, matching the engine's
// refusal to replicate Bethesda's signed-char table-index bug.
func verifyASCII(p string) error {
	for i := 0; i < len(p); i++ {
		if p[i] >= 0x80 {
			return newErr(KindHashNonASCII, "path contains a non-ascii byte", nil)
		}
	}
	return nil
}

// lexicallyNormalize collapses "." and ".." components and duplicate
// separators the way std::filesystem::path::lexically_normal does, without
// touching the filesystem.
func lexicallyNormalize(p string) string {
	slash := strings.ReplaceAll(p, "\\", "/")
	cleaned := path.Clean("/" + slash)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "." {
		return ""
	}
	return cleaned
}

// normalizePath produces the canonical hashing form of an arbitrary path:
// lexical normalize, '/' folded to '\', ASCII lower-cased, leading/trailing
// '\' stripped. An empty result is returned as-is; callers that need the
// directory-hashing convention turn "" into "." themselves (normalizeTes4 does).
func normalizePath(p string) (string, error) {
	if err := verifyASCII(p); err != nil {
		return "", err
	}

	norm := lexicallyNormalize(p)

	buf := make([]byte, len(norm))
	for i := 0; i < len(norm); i++ {
		buf[i] = lowerTable[norm[i]]
	}
	s := string(buf)

	s = strings.TrimPrefix(s, "\\")
	s = strings.TrimSuffix(s, "\\")
	return s, nil
}

// splitStemExt splits a normalized path into its stem and extension, where
// extension includes the leading '.'. Matches std::filesystem::path's
// has_stem/has_extension semantics for our purposes: a trailing component
// with no dot has no extension, and a leading dot on the final component
// ("..." or ".bashrc"-shaped names) is not itself treated as an extension
// marker unless a later dot exists.
func splitStemExt(p string) (stem, ext string) {
	base := p
	if idx := strings.LastIndexByte(p, '\\'); idx >= 0 {
		base = p[idx+1:]
	}

	dot := strings.LastIndexByte(base, '.')
	if dot <= 0 {
		// No dot, or the only dot is the leading char of a dotfile-shaped
		// name: treat the whole thing as the stem, no extension.
		return p, ""
	}

	prefixLen := len(p) - len(base)
	return p[:prefixLen+dot], base[dot:]
}

// matchGlob reports whether a normalized archive-relative path (backslash
// separated) matches a doublestar glob pattern. The pattern is accepted in
// either slash or backslash form; doublestar itself only understands '/'.
func matchGlob(pattern, archivePath string) (bool, error) {
	pattern = strings.ReplaceAll(pattern, "\\", "/")
	candidate := strings.ReplaceAll(archivePath, "\\", "/")
	return doublestar.Match(pattern, candidate)
}
