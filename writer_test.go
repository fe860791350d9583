package bsa

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterPrimitivesRoundTripThroughReader(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteU32(0xDEADBEEF))
	require.NoError(t, w.WriteU16(0x1234))
	require.NoError(t, w.WriteU8(0x42))

	r := NewReader(buf.Bytes())
	v32, err := r.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), v32)

	v16, err := r.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), v16)

	v8, err := r.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x42), v8)
}

func TestWriterBeginAnchorIsRelative(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	buf.WriteString("PREFIX")

	w := NewWriter(&buf)
	require.NoError(t, w.WriteU32(1))
	assert.Equal(t, 4, w.Tell())

	var dst bytes.Buffer
	n, err := w.WriteTo(&dst)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	assert.Equal(t, 4, dst.Len())
}
