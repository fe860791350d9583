package bsa

import "math/bits"

// Tes3Hash is Morrowind's folded-XOR/rotate path hash: the first half of the
// normalized path folds into lo by XOR, the second half folds into hi by a
// rotate-and-XOR.
type Tes3Hash struct {
	Lo uint32
	Hi uint32
}

// Numeric packs the hash into the single 64-bit value Morrowind archives
// store it as and the form users compare/search by.
func (h Tes3Hash) Numeric() uint64 {
	return uint64(h.Hi)<<32 | uint64(h.Lo)
}

// Less orders hashes lexicographically on (Lo, Hi), the sort order TES3
// archives are indexed by.
func (h Tes3Hash) Less(o Tes3Hash) bool {
	if h.Lo != o.Lo {
		return h.Lo < o.Lo
	}
	return h.Hi < o.Hi
}

// HashTes3Path normalizes path and computes its TES3 identity hash.
func HashTes3Path(path string) (Tes3Hash, error) {
	norm, err := normalizePath(path)
	if err != nil {
		return Tes3Hash{}, err
	}
	if norm == "" {
		return Tes3Hash{}, newErr(KindHashEmpty, "empty path", nil)
	}
	return hashTes3Normalized(norm), nil
}

func hashTes3Normalized(p string) Tes3Hash {
	mid := len(p) / 2

	var lo uint32
	for i := 0; i < mid; i++ {
		lo ^= uint32(p[i]) << ((i % 4) * 8)
	}

	var hi uint32
	for i := mid; i < len(p); i++ {
		shift := uint((i - mid) % 4 * 8)
		rot := uint32(p[i]) << shift
		hi = bits.RotateLeft32(hi^rot, -int(rot))
	}

	return Tes3Hash{Lo: lo, Hi: hi}
}
