package bsa

import (
	"bytes"
	"io"
)

// Writer is a buffered, endian-aware sink used by the TES3 write pipeline —
// the only dialect this package can re-encode. It tracks a beginning-of-
// stream offset so Tell and WriteTo are expressed relative to wherever the
// writer was layered inside a larger buffer. It only appends: there is no
// seek method.
type Writer struct {
	buf    *bytes.Buffer
	endian Endian
	begin  int
}

// NewWriter returns a Writer appending to buf. The current length of buf at
// call time becomes the writer's beginning-of-stream anchor.
func NewWriter(buf *bytes.Buffer) *Writer {
	return &Writer{buf: buf, begin: buf.Len()}
}

// Bytes returns the full contents written so far (including whatever
// preceded the writer's beginning-of-stream offset).
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Tell returns the current write position, relative to the writer's
// beginning-of-stream anchor.
func (w *Writer) Tell() int { return w.buf.Len() - w.begin }

func (w *Writer) putBytes(b []byte) {
	w.buf.Write(b)
}

func (w *Writer) WriteBytes(b []byte) (int, error) {
	return w.buf.Write(b)
}

func (w *Writer) WriteString(s string) (int, error) {
	return w.buf.WriteString(s)
}

func (w *Writer) WriteU8(v uint8) error {
	w.putBytes([]byte{v})
	return nil
}

func (w *Writer) WriteI8(v int8) error { return w.WriteU8(uint8(v)) }

func (w *Writer) WriteU16(v uint16) error {
	b := make([]byte, 2)
	w.endian.order().PutUint16(b, v)
	w.putBytes(b)
	return nil
}

func (w *Writer) WriteI16(v int16) error { return w.WriteU16(uint16(v)) }

func (w *Writer) WriteU32(v uint32) error {
	b := make([]byte, 4)
	w.endian.order().PutUint32(b, v)
	w.putBytes(b)
	return nil
}

func (w *Writer) WriteI32(v int32) error { return w.WriteU32(uint32(v)) }

func (w *Writer) WriteU64(v uint64) error {
	b := make([]byte, 8)
	w.endian.order().PutUint64(b, v)
	w.putBytes(b)
	return nil
}

func (w *Writer) WriteI64(v int64) error { return w.WriteU64(uint64(v)) }

// WriteTo copies the writer's contents (from its beginning-of-stream anchor
// onward) to dst. WriteTes3 does not call it; it writes straight into the
// caller's buffer.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	n, err := dst.Write(w.buf.Bytes()[w.begin:])
	if err != nil {
		return int64(n), newErr(KindOutputFailure, "failed to write archive", err)
	}
	return int64(n), nil
}
