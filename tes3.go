package bsa

import "sort"

// Tes3Header is the 12-byte Morrowind archive header.
type Tes3Header struct {
	Version    uint32
	HashOffset uint32
	FileCount  uint32
}

const tes3HeaderSize = 12
const tes3FileBlockSize = 8 // size(4) + offset(4)
const tes3HashBlockSize = 8 // lo(4) + hi(4)

// Tes3File is one Morrowind archive entry: its identity hash, on-disk size
// and offset fields, its name, and its payload (a borrowed subspan once
// read from an archive, or caller-supplied bytes before a write).
type Tes3File struct {
	Hash   Tes3Hash
	Name   string
	Data   []byte
	offset uint32
}

// Size is the entry's on-disk payload size.
func (f Tes3File) Size() uint32 { return uint32(len(f.Data)) }

// Offset is the entry's recorded offset into the payload region, valid
// only for entries that came from a decoded archive (set during read, and
// recomputed during write).
func (f Tes3File) Offset() uint32 { return f.offset }

// NameSize is the name's on-disk footprint, including its NUL terminator.
func (f Tes3File) NameSize() int { return len(f.Name) + 1 }

// Tes3Archive is a fully decoded (and, via Insert/Erase/Write, mutable)
// Morrowind archive. Files is always kept sorted by hash ascending.
type Tes3Archive struct {
	Header Tes3Header
	Files  []Tes3File
}

// ReadTes3 decodes a Morrowind archive from r, following the read_initial /
// read_filenames / read_hashes / read_data pass order, then sorts entries
// by hash.
func ReadTes3(r *Reader) (*Tes3Archive, error) {
	if err := r.SeekAbs(0); err != nil {
		return nil, err
	}

	version, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if version != 256 {
		return nil, newErr(KindVersionFailure, "unsupported TES3 archive version", nil)
	}
	hashOffset, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	fileCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	arc := &Tes3Archive{Header: Tes3Header{Version: version, HashOffset: hashOffset, FileCount: fileCount}}
	arc.Files = make([]Tes3File, fileCount)
	sizes := make([]uint32, fileCount)

	// read_initial: size/offset records.
	for i := range arc.Files {
		size, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		offset, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		arc.Files[i].offset = offset
		sizes[i] = size
	}

	// read_filenames: an offset table, then the names themselves.
	nameOffsets := make([]uint32, fileCount)
	for i := range nameOffsets {
		v, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		nameOffsets[i] = v
	}
	namesBase := r.Tell()
	for i := range arc.Files {
		if err := r.SeekAbs(namesBase + int(nameOffsets[i])); err != nil {
			return nil, err
		}
		name, err := r.ReadCString()
		if err != nil {
			return nil, err
		}
		arc.Files[i].Name = name
	}

	// read_hashes: seek to header_size + hash_offset.
	hashPos := tes3HeaderSize + int(hashOffset)
	if err := r.SeekAbs(hashPos); err != nil {
		return nil, err
	}
	for i := range arc.Files {
		lo, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		hi, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		arc.Files[i].Hash = Tes3Hash{Lo: lo, Hi: hi}
	}

	// read_data: payload region starts right after the hash table; every
	// file's bytes are addressed relative to that single base, not to each
	// other.
	dataBase := hashPos + tes3HashBlockSize*int(fileCount)
	for i := range arc.Files {
		data, err := r.Subspan(dataBase+int(arc.Files[i].offset), int(sizes[i]))
		if err != nil {
			return nil, err
		}
		arc.Files[i].Data = data
	}

	sortTes3Files(arc.Files)

	return arc, nil
}

func sortTes3Files(files []Tes3File) {
	sort.SliceStable(files, func(i, j int) bool { return files[i].Hash.Less(files[j].Hash) })
}

// SanityCheck recomputes every entry's hash from its stored name and
// compares it to the stored hash. It is advisory: callers decide whether a
// mismatch is fatal. Returns the indices of any mismatching entries.
func (a *Tes3Archive) SanityCheck() []int {
	var bad []int
	for i, f := range a.Files {
		h, err := HashTes3Path(f.Name)
		if err != nil {
			continue // non-ascii/empty names are skipped, not errored
		}
		if h != f.Hash {
			bad = append(bad, i)
		}
	}
	return bad
}

func (a *Tes3Archive) binaryFind(h Tes3Hash) int {
	i := sort.Search(len(a.Files), func(i int) bool { return !a.Files[i].Hash.Less(h) })
	if i < len(a.Files) && a.Files[i].Hash == h {
		return i
	}
	return -1
}

// Find locates the entry whose normalized path hashes to path, or reports
// ok=false if no such entry exists.
func (a *Tes3Archive) Find(path string) (Tes3File, bool) {
	h, err := HashTes3Path(path)
	if err != nil {
		return Tes3File{}, false
	}
	i := a.binaryFind(h)
	if i < 0 {
		return Tes3File{}, false
	}
	return a.Files[i], true
}
