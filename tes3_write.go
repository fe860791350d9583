package bsa

import "bytes"

const maxInt32 = 0x7FFFFFFF

func tes3CalcFileSize(n int) int { return (tes3FileBlockSize + 4) * n }

func tes3CalcNamesSize(files []Tes3File) int {
	size := 0
	for _, f := range files {
		size += f.NameSize()
	}
	return size
}

func tes3CalcHashOffset(files []Tes3File) int {
	return tes3CalcFileSize(len(files)) + tes3CalcNamesSize(files)
}

// validateHashOffsets mirrors the original's container-wide check: the
// hash-table offset itself, plus every entry's contribution to the growing
// name table, must all fit in a signed 32-bit field.
func validateHashOffsets(files []Tes3File) bool {
	offset := tes3CalcHashOffset(files)
	if offset > maxInt32 {
		return false
	}
	for _, f := range files {
		offset += f.NameSize()
		if offset > maxInt32 {
			return false
		}
	}
	return true
}

// validateOffsets checks that every entry's offset field — the running
// prefix sum of fn over all entries before it — fits in a signed 32-bit
// field. The last entry's own contribution never needs to fit (nothing is
// stored past it), hence the n-1 bound.
func validateOffsets(files []Tes3File, fn func(Tes3File) int) bool {
	if len(files) == 0 {
		return true
	}
	offset := 0
	for i := 0; i < len(files)-1; i++ {
		offset += fn(files[i])
		if offset > maxInt32 {
			return false
		}
	}
	return true
}

func tes3NameSizeFn(f Tes3File) int { return f.NameSize() }
func tes3DataSizeFn(f Tes3File) int { return int(f.Size()) }

func canInsertMerged(merged []Tes3File) bool {
	if len(merged) > maxInt32 {
		return false
	}
	if !validateHashOffsets(merged) {
		return false
	}
	if !validateOffsets(merged, tes3NameSizeFn) {
		return false
	}
	if !validateOffsets(merged, tes3DataSizeFn) {
		return false
	}
	return true
}

func sortedMerge(files []Tes3File, extra ...Tes3File) []Tes3File {
	merged := make([]Tes3File, 0, len(files)+len(extra))
	merged = append(merged, files...)
	merged = append(merged, extra...)
	sortTes3Files(merged)
	return merged
}

// Insert adds f to the archive, rejecting a duplicate hash and
// pre-validating that the resulting layout still fits the 32-bit offset
// fields. The archive is left unchanged if the insert is refused.
func (a *Tes3Archive) Insert(f Tes3File) error {
	if a.binaryFind(f.Hash) >= 0 {
		return nil // duplicate hash: a no-op, matching the original's contains() guard
	}

	merged := sortedMerge(a.Files, f)
	if !canInsertMerged(merged) {
		return newErr(KindSizeFailure, "insert would overflow a 32-bit offset field", nil)
	}

	a.Files = merged
	a.Header.FileCount = uint32(len(a.Files))
	return nil
}

// InsertAll merges a batch of files in, de-duplicating by hash (within the
// batch and against the archive) and admitting the whole batch or none of
// it if the merged layout would overflow a 32-bit offset field.
func (a *Tes3Archive) InsertAll(files []Tes3File) error {
	toInsert := make([]Tes3File, 0, len(files))
	for _, f := range files {
		if a.binaryFind(f.Hash) >= 0 {
			continue
		}
		toInsert = append(toInsert, f)
	}
	sortTes3Files(toInsert)
	toInsert = dedupByHash(toInsert)

	merged := sortedMerge(a.Files, toInsert...)
	if !canInsertMerged(merged) {
		return newErr(KindSizeFailure, "batch insert would overflow a 32-bit offset field", nil)
	}

	a.Files = merged
	a.Header.FileCount = uint32(len(a.Files))
	return nil
}

func dedupByHash(files []Tes3File) []Tes3File {
	out := files[:0]
	for i, f := range files {
		if i > 0 && f.Hash == files[i-1].Hash {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Erase removes the entry with the given path's hash, reporting whether an
// entry was found and removed.
func (a *Tes3Archive) Erase(path string) bool {
	h, err := HashTes3Path(path)
	if err != nil {
		return false
	}
	i := a.binaryFind(h)
	if i < 0 {
		return false
	}
	a.Files = append(a.Files[:i], a.Files[i+1:]...)
	a.Header.FileCount = uint32(len(a.Files))
	return true
}

// prepareForWrite recomputes the hash-table offset and every file's
// payload offset, mirroring update_header/update_files.
func (a *Tes3Archive) prepareForWrite() {
	a.Header.HashOffset = uint32(tes3CalcHashOffset(a.Files))
	a.Header.FileCount = uint32(len(a.Files))

	var offset uint32
	for i := range a.Files {
		a.Files[i].offset = offset
		offset += a.Files[i].Size()
	}
}

// WriteTes3 re-encodes the archive, in the same section order it was read
// in: header, file records, name-offset table, names, hashes, payload
// bytes. Given a well-formed, untouched archive, the output is
// byte-identical to the original file.
func WriteTes3(a *Tes3Archive, buf *bytes.Buffer) error {
	a.prepareForWrite()

	w := NewWriter(buf)

	if err := w.WriteU32(a.Header.Version); err != nil {
		return err
	}
	if err := w.WriteU32(a.Header.HashOffset); err != nil {
		return err
	}
	if err := w.WriteU32(a.Header.FileCount); err != nil {
		return err
	}

	for _, f := range a.Files {
		if err := w.WriteU32(f.Size()); err != nil {
			return err
		}
		if err := w.WriteU32(f.offset); err != nil {
			return err
		}
	}

	var nameOffset uint32
	for _, f := range a.Files {
		if err := w.WriteU32(nameOffset); err != nil {
			return err
		}
		nameOffset += uint32(f.NameSize())
	}

	for _, f := range a.Files {
		if _, err := w.WriteString(f.Name); err != nil {
			return newErr(KindOutputFailure, "failed to write name", err)
		}
		if err := w.WriteU8(0); err != nil {
			return err
		}
	}

	for _, f := range a.Files {
		if err := w.WriteU32(f.Hash.Lo); err != nil {
			return err
		}
		if err := w.WriteU32(f.Hash.Hi); err != nil {
			return err
		}
	}

	for _, f := range a.Files {
		if _, err := w.WriteBytes(f.Data); err != nil {
			return newErr(KindOutputFailure, "failed to write payload", err)
		}
	}

	return nil
}
