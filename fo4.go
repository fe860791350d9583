package bsa

// Fo4FileHash is FO4's per-entry identity, independent of the Fo4Hash the
// path hasher computes: it is read directly off the wire as 12 raw bytes
// rather than derived, but shares the same field shape.
type Fo4FileHash struct {
	File uint32
	Ext  [4]byte
	Dir  uint32
}

func readFo4Hash(r *Reader) (Fo4FileHash, error) {
	file, err := r.ReadU32()
	if err != nil {
		return Fo4FileHash{}, err
	}
	extBytes, err := r.ReadBytes(4)
	if err != nil {
		return Fo4FileHash{}, err
	}
	dir, err := r.ReadU32()
	if err != nil {
		return Fo4FileHash{}, err
	}
	var h Fo4FileHash
	h.File = file
	copy(h.Ext[:], extBytes)
	h.Dir = dir
	return h, nil
}

// Fo4Chunk is one payload chunk of a GNRL (general) entry.
type Fo4Chunk struct {
	FileOffset       uint64
	CompressedSize   uint32
	UncompressedSize uint32
}

const fo4Sentinel = 0xBAADF00D

func readFo4Chunk(r *Reader) (Fo4Chunk, error) {
	offset, err := r.ReadU64()
	if err != nil {
		return Fo4Chunk{}, err
	}
	compressed, err := r.ReadU32()
	if err != nil {
		return Fo4Chunk{}, err
	}
	uncompressed, err := r.ReadU32()
	if err != nil {
		return Fo4Chunk{}, err
	}
	sentinel, err := r.ReadU32()
	if err != nil {
		return Fo4Chunk{}, err
	}
	if sentinel != fo4Sentinel {
		return Fo4Chunk{}, newErr(KindInputFailure, "fo4 chunk sentinel mismatch", nil)
	}
	return Fo4Chunk{FileOffset: offset, CompressedSize: compressed, UncompressedSize: uncompressed}, nil
}

// Fo4GeneralFile is one GNRL entry: identity hash, the polysemous entry
// header, and its chunks.
type Fo4GeneralFile struct {
	Hash            Fo4FileHash
	DataFileIndex   int8
	ChunkOffsetOrType uint16
	Chunks          []Fo4Chunk
	Name            string
}

// Fo4TextureChunk is one mip-range chunk of a DX10 (texture) entry.
type Fo4TextureChunk struct {
	FileOffset       uint64
	Size             uint32
	UncompressedSize uint32
	MipFirst         uint16
	MipLast          uint16
}

func readFo4TextureChunk(r *Reader) (Fo4TextureChunk, error) {
	offset, err := r.ReadU64()
	if err != nil {
		return Fo4TextureChunk{}, err
	}
	size, err := r.ReadU32()
	if err != nil {
		return Fo4TextureChunk{}, err
	}
	uncompressed, err := r.ReadU32()
	if err != nil {
		return Fo4TextureChunk{}, err
	}
	mipFirst, err := r.ReadU16()
	if err != nil {
		return Fo4TextureChunk{}, err
	}
	mipLast, err := r.ReadU16()
	if err != nil {
		return Fo4TextureChunk{}, err
	}
	sentinel, err := r.ReadU32()
	if err != nil {
		return Fo4TextureChunk{}, err
	}
	if sentinel != fo4Sentinel {
		return Fo4TextureChunk{}, newErr(KindInputFailure, "fo4 texture chunk sentinel mismatch", nil)
	}
	return Fo4TextureChunk{
		FileOffset:       offset,
		Size:             size,
		UncompressedSize: uncompressed,
		MipFirst:         mipFirst,
		MipLast:          mipLast,
	}, nil
}

// Fo4TextureFile is one DX10 entry: identity hash, the fixed 12-byte
// texture header, and its mip-range chunks.
type Fo4TextureFile struct {
	Hash          Fo4FileHash
	DataFileIndex int8
	ChunkOffset   uint16
	Height        uint16
	Width         uint16
	MipCount      int8
	Format        int8
	Flags         int8
	TileMode      int8
	Chunks        []Fo4TextureChunk
	Name          string
}

// Fo4Content distinguishes the two FO4 content formats a header may declare.
type Fo4Content int

const (
	Fo4General Fo4Content = iota
	Fo4Texture
)

// Fo4Header is the 24-byte FO4 archive header.
type Fo4Header struct {
	Version           uint32
	Content           Fo4Content
	FileCount         uint32
	StringTableOffset uint64
}

// Fo4Archive is a fully decoded Fallout 4 archive, in either content format.
type Fo4Archive struct {
	Header         Fo4Header
	GeneralFiles   []Fo4GeneralFile
	TextureFiles   []Fo4TextureFile
}

// ReadFo4 decodes a Fallout 4 (BTDX) archive from r.
func ReadFo4(r *Reader) (*Fo4Archive, error) {
	if err := r.SeekAbs(0); err != nil {
		return nil, err
	}
	magic, err := r.ReadMagic(4)
	if err != nil {
		return nil, err
	}
	if magic != "BTDX" {
		return nil, newErr(KindInputFailure, "not an FO4 archive", nil)
	}

	var h Fo4Header
	version, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if version != 1 {
		return nil, newErr(KindVersionFailure, "unsupported FO4 archive version", nil)
	}
	h.Version = version

	format, err := r.ReadMagic(4)
	if err != nil {
		return nil, err
	}
	switch format {
	case "GNRL":
		h.Content = Fo4General
	case "DX10":
		h.Content = Fo4Texture
	default:
		return nil, newErr(KindInputFailure, "unrecognized FO4 content format", nil)
	}

	fileCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	h.FileCount = fileCount

	stringTableOffset, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	h.StringTableOffset = stringTableOffset

	arc := &Fo4Archive{Header: h}

	switch h.Content {
	case Fo4General:
		arc.GeneralFiles = make([]Fo4GeneralFile, h.FileCount)
		for i := range arc.GeneralFiles {
			f, err := readFo4GeneralFile(r)
			if err != nil {
				return nil, err
			}
			arc.GeneralFiles[i] = f
		}
	case Fo4Texture:
		arc.TextureFiles = make([]Fo4TextureFile, h.FileCount)
		for i := range arc.TextureFiles {
			f, err := readFo4TextureFile(r)
			if err != nil {
				return nil, err
			}
			arc.TextureFiles[i] = f
		}
	}

	if h.StringTableOffset != 0 {
		if err := r.SeekAbs(int(h.StringTableOffset)); err != nil {
			return nil, err
		}
		switch h.Content {
		case Fo4General:
			for i := range arc.GeneralFiles {
				name, err := readFo4Name(r)
				if err != nil {
					return nil, err
				}
				arc.GeneralFiles[i].Name = name
			}
		case Fo4Texture:
			for i := range arc.TextureFiles {
				name, err := readFo4Name(r)
				if err != nil {
					return nil, err
				}
				arc.TextureFiles[i].Name = name
			}
		}
	}

	return arc, nil
}

func readFo4Name(r *Reader) (string, error) {
	length, err := r.ReadU16()
	if err != nil {
		return "", err
	}
	b, err := r.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readFo4GeneralFile(r *Reader) (Fo4GeneralFile, error) {
	var f Fo4GeneralFile

	hash, err := readFo4Hash(r)
	if err != nil {
		return f, err
	}
	f.Hash = hash

	dataFileIndex, err := r.ReadI8()
	if err != nil {
		return f, err
	}
	f.DataFileIndex = dataFileIndex

	chunkCount, err := r.ReadI8()
	if err != nil {
		return f, err
	}

	chunkOffsetOrType, err := r.ReadU16()
	if err != nil {
		return f, err
	}
	f.ChunkOffsetOrType = chunkOffsetOrType

	if chunkCount > 0 {
		f.Chunks = make([]Fo4Chunk, chunkCount)
		for i := range f.Chunks {
			c, err := readFo4Chunk(r)
			if err != nil {
				return f, err
			}
			f.Chunks[i] = c
		}
	}

	return f, nil
}

func readFo4TextureFile(r *Reader) (Fo4TextureFile, error) {
	var f Fo4TextureFile

	hash, err := readFo4Hash(r)
	if err != nil {
		return f, err
	}
	f.Hash = hash

	dataFileIndex, err := r.ReadI8()
	if err != nil {
		return f, err
	}
	f.DataFileIndex = dataFileIndex

	chunkCount, err := r.ReadI8()
	if err != nil {
		return f, err
	}

	chunkOffset, err := r.ReadU16()
	if err != nil {
		return f, err
	}
	f.ChunkOffset = chunkOffset

	height, err := r.ReadU16()
	if err != nil {
		return f, err
	}
	f.Height = height

	width, err := r.ReadU16()
	if err != nil {
		return f, err
	}
	f.Width = width

	mipCount, err := r.ReadI8()
	if err != nil {
		return f, err
	}
	f.MipCount = mipCount

	format, err := r.ReadI8()
	if err != nil {
		return f, err
	}
	f.Format = format

	flags, err := r.ReadI8()
	if err != nil {
		return f, err
	}
	f.Flags = flags

	tilemode, err := r.ReadI8()
	if err != nil {
		return f, err
	}
	f.TileMode = tilemode

	if chunkCount > 0 {
		f.Chunks = make([]Fo4TextureChunk, chunkCount)
		for i := range f.Chunks {
			c, err := readFo4TextureChunk(r)
			if err != nil {
				return f, err
			}
			f.Chunks[i] = c
		}
	}

	return f, nil
}
