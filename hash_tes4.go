package bsa

// hashConstant is the multiplier used by every fold in the Oblivion-family
// hash: crc = ch + crc*hashConstant.
const hashConstant uint32 = 0x1003F

// extensionTable is matched against a file's extension (read as the first 4
// bytes, NUL-padded, little-endian) to decide how much to perturb the
// packed hash bytes.
var extensionTable = [6]uint32{
	packExt(""),
	packExt(".nif"),
	packExt(".kf\x00"),
	packExt(".dds"),
	packExt(".wav"),
	packExt(".adp"),
}

func packExt(s string) uint32 {
	var b [4]byte
	copy(b[:], s)
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// Hash is the Oblivion-family (TES4/FO3/TES5) directory/file identity: a
// packed 8-byte struct compared as a 64-bit number (last, last2, length,
// first, crc) from low to high byte.
type Hash struct {
	Last   int8
	Last2  int8
	Length int8
	First  int8
	Crc    uint32
}

// Numeric packs the hash fields into the 64-bit number used for ordering
// and display: last in the low byte, crc in the high 32 bits.
func (h Hash) Numeric() uint64 {
	return uint64(uint8(h.Last))<<0 |
		uint64(uint8(h.Last2))<<8 |
		uint64(uint8(h.Length))<<16 |
		uint64(uint8(h.First))<<24 |
		uint64(h.Crc)<<32
}

// Less orders hashes by their Numeric value.
func (h Hash) Less(o Hash) bool { return h.Numeric() < o.Numeric() }

// DirHash computes the directory-hash half of the Oblivion-family identity
// over a normalized path.
func DirHash(p string) (Hash, error) {
	if err := verifyASCII(p); err != nil {
		return Hash{}, err
	}
	norm := normalizeTes4(p)
	return dirHashNormalized(norm), nil
}

// FileHash computes the full file identity: directory_hash(stem) with the
// extension folded in and the extension-table perturbation applied.
func FileHash(p string) (Hash, error) {
	if err := verifyASCII(p); err != nil {
		return Hash{}, err
	}
	stem, ext := splitTes4StemExt(p)
	h := dirHashNormalized(stem)

	var extCRC uint32
	for i := 0; i < len(ext); i++ {
		extCRC = uint32(ext[i]) + extCRC*hashConstant
	}
	h.Crc += extCRC

	packed := packExt(ext)
	for i, e := range extensionTable {
		if packed == e {
			h.First += int8(32 * (i & 0xFC))
			h.Last += int8((i & 0xFE) << 6)
			h.Last2 += int8(i << 7)
			break
		}
	}

	return h, nil
}

func dirHashNormalized(p string) Hash {
	var h Hash

	switch min3(len(p)) {
	case 3:
		h.Last2 = int8(p[len(p)-2])
		fallthrough
	case 2, 1:
		h.Last = int8(p[len(p)-1])
		h.First = int8(p[0])
	}

	length := len(p)
	if length > 127 {
		length = 127
	}
	h.Length = int8(length)

	if h.Length <= 3 {
		return h
	}

	// Skip first and last two chars: begin()+1 .. end()-2 in the original.
	for i := 1; i < len(p)-2; i++ {
		h.Crc = uint32(p[i]) + h.Crc*hashConstant
	}

	return h
}

func min3(n int) int {
	if n > 3 {
		return 3
	}
	return n
}

// normalizeTes4 applies the Oblivion-family path normalization: lexical
// normalize, lower-case, fold '/', and turn an empty result into ".".
func normalizeTes4(p string) string {
	norm, err := normalizePath(p)
	if err != nil {
		return ""
	}
	if norm == "" {
		return "."
	}
	return norm
}

// splitTes4StemExt splits a path into (stem, extension) for file hashing,
// after normalizePath. Unlike normalizeTes4, an empty result is not turned
// into ".".
func splitTes4StemExt(p string) (stem, ext string) {
	norm, err := normalizePath(p)
	if err != nil {
		return "", ""
	}
	return splitStemExt(norm)
}
