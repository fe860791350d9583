package bsa

import (
	"encoding/binary"
	"os"
)

// Endian selects the byte order the Reader decodes integers with. Little is
// the archive-wide default; TES4-family archives flip to big-endian for a
// single sub-field (the hash crc) when the xbox_archive header flag is set.
type Endian int

const (
	LittleEndian Endian = iota
	BigEndian
)

func (e Endian) order() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Reader is a cursor-based, endian-aware view over an archive's bytes,
// normally backed by a read-only memory mapping so the OS faults pages in
// lazily rather than the library copying the whole file up front.
type Reader struct {
	data   []byte
	pos    int
	endian Endian
	closer func() error
}

// NewReader wraps an in-memory byte slice (e.g. from os.ReadFile or a test
// fixture) with no backing mapping to release on Close.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// OpenReader memory-maps path read-only and returns a Reader over it. The
// Reader must be closed with Close to release the mapping.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newErr(KindInputFailure, "failed to open archive", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, newErr(KindInputFailure, "failed to stat archive", err)
	}
	if fi.Size() == 0 {
		return nil, newErr(KindEmptyFile, "archive file is empty", nil)
	}

	data, closer, err := mmapFile(int(f.Fd()), fi.Size())
	if err != nil {
		// Fall back to a plain read so platforms without mmapFile wired
		// (anything outside the unix build tag) still work, just without
		// demand paging.
		buf, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil, newErr(KindInputFailure, "failed to read archive", rerr)
		}
		return &Reader{data: buf}, nil
	}

	return &Reader{data: data, closer: closer}, nil
}

// Close releases the backing memory mapping, if any. Safe to call on a
// Reader built from NewReader (no-op).
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	c := r.closer
	r.closer = nil
	return c()
}

// Len returns the total size of the underlying archive bytes.
func (r *Reader) Len() int { return len(r.data) }

// Tell returns the current absolute cursor position.
func (r *Reader) Tell() int { return r.pos }

// SeekAbs moves the cursor to an absolute byte offset.
func (r *Reader) SeekAbs(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return newErr(KindInputFailure, "seek out of range", nil)
	}
	r.pos = pos
	return nil
}

// SeekBeg is an alias of SeekAbs: the archive reader is always anchored at
// the start of the mapped file, unlike the writer, which may be layered
// inside a larger container stream.
func (r *Reader) SeekBeg(pos int) error { return r.SeekAbs(pos) }

// SeekRel moves the cursor by a relative number of bytes (may be negative).
func (r *Reader) SeekRel(delta int) error { return r.SeekAbs(r.pos + delta) }

// SaveCursor returns a closure that restores the cursor to its value at the
// time SaveCursor was called. This is the scoped-cursor-restore guard the
// TES4 decoder needs: it must jump into the name table mid-record to read a
// directory's optional name, then resume the outer directory-record scan
// exactly where it left off.
//
//	restore := r.SaveCursor()
//	defer restore()
//	... seek around freely ...
func (r *Reader) SaveCursor() func() {
	saved := r.pos
	return func() { r.pos = saved }
}

// WithEndian temporarily switches the decoding endianness, returning a
// closure that restores the previous one. Used for the TES4 xbox_archive
// flag, which flips only the hash crc sub-field to big-endian.
func (r *Reader) WithEndian(e Endian) func() {
	prev := r.endian
	r.endian = e
	return func() { r.endian = prev }
}

func (r *Reader) need(n int) error {
	if r.pos+n > len(r.data) || n < 0 {
		return newErr(KindInputFailure, "read past end of archive", nil)
	}
	return nil
}

// ReadBytes returns a borrowed, non-copied view of the next n bytes and
// advances the cursor past them.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Subspan returns a borrowed view of count bytes at an absolute offset,
// without touching the cursor. This is how the engine hands out payload
// byte ranges without copying.
func (r *Reader) Subspan(offset, count int) ([]byte, error) {
	if offset < 0 || count < 0 || offset+count > len(r.data) {
		return nil, newErr(KindInputFailure, "subspan out of range", nil)
	}
	return r.data[offset : offset+count], nil
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadI8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return r.endian.order().Uint16(b), nil
}

func (r *Reader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return r.endian.order().Uint32(b), nil
}

func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return r.endian.order().Uint64(b), nil
}

func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadMagic reads a fixed-length byte array used for magic/format tags
// ("BSA\0", "BTDX", "GNRL", "DX10", ...).
func (r *Reader) ReadMagic(n int) (string, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadCString reads a NUL-terminated string and consumes the terminator.
func (r *Reader) ReadCString() (string, error) {
	start := r.pos
	for {
		if r.pos >= len(r.data) {
			return "", newErr(KindInputFailure, "unterminated string", nil)
		}
		if r.data[r.pos] == 0 {
			s := string(r.data[start:r.pos])
			r.pos++
			return s, nil
		}
		r.pos++
	}
}

// ReadBZString reads a bzstring: a single length-prefix byte (length
// includes the trailing NUL) followed by that many bytes, the last of which
// is the NUL terminator. The returned string excludes the terminator.
func (r *Reader) ReadBZString() (string, error) {
	length, err := r.ReadU8()
	if err != nil {
		return "", err
	}
	if length == 0 {
		return "", nil
	}
	b, err := r.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	return string(b[:len(b)-1]), nil
}
