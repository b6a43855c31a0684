package wire

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter(16)
	w.WriteUint16(0x8001)
	w.WriteUint32(12)
	w.WriteLengthPrefixed16([]byte("abcde"))

	r := NewReader(w.Bytes())

	tag, err := r.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x8001), tag)

	size, err := r.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(12), size)

	data, err := r.ReadLengthPrefixed16()
	require.NoError(t, err)
	assert.Equal(t, []byte("abcde"), data)

	assert.Equal(t, 0, r.Remaining())
}

func TestReaderTruncatedReturnsUnexpectedEOF(t *testing.T) {
	r := NewReader([]byte{0x00, 0x01})
	_, err := r.ReadUint32()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestPatchUint32(t *testing.T) {
	w := NewWriter(8)
	w.WriteUint32(0)
	w.WriteUint32(0)
	w.PatchUint32(0, 42)

	r := NewReader(w.Bytes())
	v, err := r.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), v)
}

func TestBlobBytes(t *testing.T) {
	buf := []byte("0123456789")
	b := Blob{Offset: 2, Length: 4}
	assert.Equal(t, []byte("2345"), b.Bytes(buf))
}
