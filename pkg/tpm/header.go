// Package tpm implements the TPM 2.0 command/response wire codec and a
// command executor, per TPM 2.0 Library Specification Part 1 §16.9/§16.10
// and Part 3's per-command layouts. All multi-byte values are big-endian.
package tpm

import "vccore/pkg/wire"

// Structure tags (TPM_ST_*) that appear in the command/response header.
const (
	StNoSessions uint16 = 0x8001
	StSessions   uint16 = 0x8002
)

// HeaderSize is the fixed byte length of every TPM command and response
// header: tag (u16), size (u32), code (u32).
const HeaderSize = 10

// Header is the 10-byte prefix on every TPM command and response.
type Header struct {
	Tag  uint16
	Size uint32
	Code uint32
}

// WriteTo serializes h to w.
func (h Header) WriteTo(w *wire.Writer) {
	w.WriteUint16(h.Tag)
	w.WriteUint32(h.Size)
	w.WriteUint32(h.Code)
}

// ReadHeader reads a Header from r.
func ReadHeader(r *wire.Reader) (Header, error) {
	tag, err := r.ReadUint16()
	if err != nil {
		return Header{}, err
	}
	size, err := r.ReadUint32()
	if err != nil {
		return Header{}, err
	}
	code, err := r.ReadUint32()
	if err != nil {
		return Header{}, err
	}
	return Header{Tag: tag, Size: size, Code: code}, nil
}
