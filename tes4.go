package bsa

// Tes4Flag is a bit in the Oblivion-family header's archive flags word.
type Tes4Flag uint32

const (
	Tes4DirectoryStrings       Tes4Flag = 1 << 0
	Tes4FileStrings            Tes4Flag = 1 << 1
	Tes4Compressed             Tes4Flag = 1 << 2
	Tes4RetainDirectoryNames   Tes4Flag = 1 << 3
	Tes4RetainFileNames        Tes4Flag = 1 << 4
	Tes4RetainFileNameOffsets  Tes4Flag = 1 << 5
	Tes4XboxArchive            Tes4Flag = 1 << 6
	Tes4RetainStringsStartup   Tes4Flag = 1 << 7
	Tes4EmbeddedFileNames      Tes4Flag = 1 << 8
	Tes4XboxCompressed         Tes4Flag = 1 << 9
)

// Tes4ArchiveType is a bit in the Oblivion-family header's content-type word.
type Tes4ArchiveType uint16

const (
	Tes4TypeMeshes   Tes4ArchiveType = 1 << 0
	Tes4TypeTextures Tes4ArchiveType = 1 << 1
	Tes4TypeMenus    Tes4ArchiveType = 1 << 2
	Tes4TypeSounds   Tes4ArchiveType = 1 << 3
	Tes4TypeVoices   Tes4ArchiveType = 1 << 4
	Tes4TypeShaders  Tes4ArchiveType = 1 << 5
	Tes4TypeTrees    Tes4ArchiveType = 1 << 6
	Tes4TypeFonts    Tes4ArchiveType = 1 << 7
	Tes4TypeMisc     Tes4ArchiveType = 1 << 8
)

// tes4FileBlockSize is the on-disk size of one file record (hash_t + size +
// offset) in the directory-names/file-records region.
const tes4FileBlockSize = 16

// Tes4Header is the 36-byte Oblivion-family archive header.
type Tes4Header struct {
	Version              uint32
	HeaderSize           uint32
	Flags                Tes4Flag
	DirectoryCount       uint32
	FileCount            uint32
	DirectoryNamesLength uint32
	FileNamesLength      uint32
	ArchiveTypes         Tes4ArchiveType
}

func (h Tes4Header) Has(f Tes4Flag) bool { return h.Flags&f != 0 }

// Is reports whether the archive's content-type word claims t.
func (h Tes4Header) Is(t Tes4ArchiveType) bool { return h.ArchiveTypes&t != 0 }

// Tes4File is one file entry in a directory, with its identity hash, its
// on-disk size field (raw, see IsCompressed), its absolute payload offset,
// and its optional recovered name.
type Tes4File struct {
	Hash   Hash
	rawSize uint32
	Offset uint32
	Name   string
}

// IsCompressed reports whether this entry's payload is stored compressed,
// combining the header's default-compressed flag with this entry's
// per-file inversion bit (bit 30, 0x40000000, of the size field). Composition with
// xbox_compressed is left to the payload consumer.
func (f Tes4File) IsCompressed(h Tes4Header) bool {
	inverted := f.rawSize&0x40000000 != 0
	compressed := h.Has(Tes4Compressed)
	if inverted {
		return !compressed
	}
	return compressed
}

// Size returns the on-disk payload size with the compression-inversion bit
// masked off.
func (f Tes4File) Size() uint32 { return f.rawSize &^ 0x40000000 }

// RawSize returns the size field exactly as stored, inversion bit included.
func (f Tes4File) RawSize() uint32 { return f.rawSize }

// Tes4Directory is one directory record: its hash, optional recovered name,
// and the files it contains.
type Tes4Directory struct {
	Hash  Hash
	Name  string
	Files []Tes4File

	dirFilesOffset uint32
}

// Tes4Archive is a fully decoded Oblivion-family (TES4/FO3/TES5) archive.
type Tes4Archive struct {
	Header      Tes4Header
	Directories []Tes4Directory
}

// ReadTes4 decodes an Oblivion-family archive from r.
func ReadTes4(r *Reader) (*Tes4Archive, error) {
	if err := r.SeekAbs(0); err != nil {
		return nil, err
	}
	magic, err := r.ReadMagic(4)
	if err != nil {
		return nil, err
	}
	if magic != "BSA\x00" {
		return nil, newErr(KindInputFailure, "not a TES4-family archive", nil)
	}

	var h Tes4Header
	version, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if version != 103 && version != 104 && version != 105 {
		return nil, newErr(KindVersionFailure, "unsupported TES4 archive version", nil)
	}
	h.Version = version

	headerSize, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	h.HeaderSize = headerSize

	flags, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	h.Flags = Tes4Flag(flags)

	dirCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	h.DirectoryCount = dirCount

	fileCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	h.FileCount = fileCount

	dirNamesLen, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	h.DirectoryNamesLength = dirNamesLen

	fileNamesLen, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	h.FileNamesLength = fileNamesLen

	archiveTypes, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	h.ArchiveTypes = Tes4ArchiveType(archiveTypes)

	if err := r.SeekRel(2); err != nil { // padding
		return nil, err
	}

	if err := r.SeekAbs(int(h.HeaderSize)); err != nil {
		return nil, err
	}

	dirs := make([]Tes4Directory, 0, h.DirectoryCount)
	for i := uint32(0); i < h.DirectoryCount; i++ {
		d, err := readTes4DirectoryRecord(r, h)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, d)
	}

	for i := range dirs {
		if !h.Has(Tes4DirectoryStrings) && len(dirs[i].Files) == 0 {
			continue
		}
		if err := readTes4DirectoryBody(r, h, &dirs[i]); err != nil {
			return nil, err
		}
	}

	// Directory records are followed by the directory-names/file-records
	// region, which was only visited above through scoped jumps; skip over
	// it now to reach the flat file-name-strings region that follows.
	skip := int(h.DirectoryNamesLength) + int(h.DirectoryCount) // includes each name's prefixed length byte
	skip += int(h.FileCount) * tes4FileBlockSize
	if err := r.SeekRel(skip); err != nil {
		return nil, err
	}

	if h.Has(Tes4FileStrings) {
		for i := range dirs {
			for j := range dirs[i].Files {
				name, err := r.ReadCString()
				if err != nil {
					return nil, err
				}
				dirs[i].Files[j].Name = name
			}
		}
	}

	return &Tes4Archive{Header: h, Directories: dirs}, nil
}

// readTes4DirectoryRecord reads one directory's header-area record: the
// hash, file count, and a files-offset, whose on-disk width differs between
// v103/v104 (no padding: 16 bytes) and v105 (a 4-byte padding after both
// file_count and files_offset: 24 bytes).
func readTes4DirectoryRecord(r *Reader, h Tes4Header) (Tes4Directory, error) {
	var d Tes4Directory

	hash, err := readTes4Hash(r, h)
	if err != nil {
		return d, err
	}
	d.Hash = hash

	fileCount, err := r.ReadU32()
	if err != nil {
		return d, err
	}

	if h.Version == 105 {
		if err := r.SeekRel(4); err != nil {
			return d, err
		}
	}

	filesOffset, err := r.ReadU32()
	if err != nil {
		return d, err
	}
	if h.Version == 105 {
		if err := r.SeekRel(4); err != nil {
			return d, err
		}
	}

	d.Files = make([]Tes4File, fileCount)
	d.dirFilesOffset = filesOffset
	return d, nil
}

func readTes4Hash(r *Reader, h Tes4Header) (Hash, error) {
	last, err := r.ReadI8()
	if err != nil {
		return Hash{}, err
	}
	last2, err := r.ReadI8()
	if err != nil {
		return Hash{}, err
	}
	length, err := r.ReadI8()
	if err != nil {
		return Hash{}, err
	}
	first, err := r.ReadI8()
	if err != nil {
		return Hash{}, err
	}

	var crc uint32
	if h.Has(Tes4XboxArchive) {
		restore := r.WithEndian(BigEndian)
		v, err := r.ReadU32()
		restore()
		if err != nil {
			return Hash{}, err
		}
		crc = v
	} else {
		v, err := r.ReadU32()
		if err != nil {
			return Hash{}, err
		}
		crc = v
	}

	return Hash{First: first, Last2: last2, Last: last, Length: length, Crc: crc}, nil
}

// readTes4DirectoryBody jumps (via a scoped cursor restore) to this
// directory's files-offset, reads the optional bzstring name and its file
// records, then returns to wherever the outer directory-record scan was.
func readTes4DirectoryBody(r *Reader, h Tes4Header, d *Tes4Directory) error {
	restore := r.SaveCursor()
	defer restore()

	target := int(d.dirFilesOffset) - int(h.FileNamesLength)
	if err := r.SeekAbs(target); err != nil {
		return err
	}

	if h.Has(Tes4DirectoryStrings) {
		name, err := r.ReadBZString()
		if err != nil {
			return err
		}
		d.Name = name
	}

	for i := range d.Files {
		hash, err := readTes4Hash(r, h)
		if err != nil {
			return err
		}
		size, err := r.ReadU32()
		if err != nil {
			return err
		}
		offset, err := r.ReadU32()
		if err != nil {
			return err
		}
		d.Files[i] = Tes4File{Hash: hash, rawSize: size, Offset: offset}
	}

	return nil
}
