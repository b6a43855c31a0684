// Package wire implements the big-endian, length-prefixed byte cursor
// shared by DER normalization and the TPM 2.0 command codec.
package wire

import (
	"encoding/binary"
	"io"
)

// Blob is a zero-copy reference into an externally owned buffer.
type Blob struct {
	Offset int
	Length int
}

// Bytes slices buf according to the blob, without copying.
func (b Blob) Bytes(buf []byte) []byte {
	return buf[b.Offset : b.Offset+b.Length]
}

// Writer accumulates a big-endian byte stream.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer with cap bytes pre-allocated.
func NewWriter(cap int) *Writer {
	return &Writer{buf: make([]byte, 0, cap)}
}

func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteUint16(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteUint32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteUint64(v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteBytes appends raw bytes with no length prefix.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteLengthPrefixed16 writes a u16 length followed by b — the TPM2B_X idiom.
func (w *Writer) WriteLengthPrefixed16(b []byte) {
	w.WriteUint16(uint16(len(b)))
	w.WriteBytes(b)
}

// WriteLengthPrefixed32 writes a u32 length followed by b.
func (w *Writer) WriteLengthPrefixed32(b []byte) {
	w.WriteUint32(uint32(len(b)))
	w.WriteBytes(b)
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the accumulated buffer. The caller must not retain a
// mutable alias across further writes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// PatchUint32 overwrites 4 bytes at offset with v, for size fields that must
// be back-patched once the full command/response length is known.
func (w *Writer) PatchUint32(offset int, v uint32) {
	binary.BigEndian.PutUint32(w.buf[offset:offset+4], v)
}

// Reader walks a big-endian byte stream without copying it.
type Reader struct {
	buf    []byte
	cursor int
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

func (r *Reader) Remaining() int {
	return len(r.buf) - r.cursor
}

func (r *Reader) Offset() int {
	return r.cursor
}

func (r *Reader) need(n int) error {
	if r.Remaining() < n {
		return io.ErrUnexpectedEOF
	}
	return nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.cursor]
	r.cursor++
	return v, nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.cursor:])
	r.cursor += 2
	return v, nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.cursor:])
	r.cursor += 4
	return v, nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.buf[r.cursor:])
	r.cursor += 8
	return v, nil
}

// ReadBytes returns a zero-copy slice of n bytes from the cursor.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.buf[r.cursor : r.cursor+n]
	r.cursor += n
	return b, nil
}

// ReadLengthPrefixed16 reads a u16 length then that many bytes.
func (r *Reader) ReadLengthPrefixed16() ([]byte, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(int(n))
}

// ReadLengthPrefixed32 reads a u32 length then that many bytes.
func (r *Reader) ReadLengthPrefixed32() ([]byte, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	return r.ReadBytes(int(n))
}

// Blob captures the current position as a zero-copy reference of length n,
// advancing the cursor as ReadBytes would.
func (r *Reader) ReadBlob(n int) (Blob, error) {
	if err := r.need(n); err != nil {
		return Blob{}, err
	}
	b := Blob{Offset: r.cursor, Length: n}
	r.cursor += n
	return b, nil
}
