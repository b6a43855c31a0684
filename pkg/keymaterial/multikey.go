package keymaterial

import (
	"encoding/binary"

	"github.com/multiformats/go-multibase"

	"vccore/pkg/sensitive"
)

// Multicodec codes for Multikey (did:key / data-integrity multikey)
// encoding, per the multiformats multicodec table. These are the varint
// prefixes that precede the raw compressed/fixed-length public key bytes
// inside the multibase string.
const (
	multicodecP256Pub      = 0x1200
	multicodecP384Pub      = 0x1201
	multicodecP521Pub      = 0x1202
	multicodecSecp256k1Pub = 0xe7
	multicodecEd25519Pub   = 0xed
	multicodecX25519Pub    = 0xec
)

func multicodecFor(tag sensitive.Tag) (uint64, bool) {
	switch tag {
	case sensitive.P256PublicKey:
		return multicodecP256Pub, true
	case sensitive.P384PublicKey:
		return multicodecP384Pub, true
	case sensitive.P521PublicKey:
		return multicodecP521Pub, true
	case sensitive.Secp256k1PublicKey:
		return multicodecSecp256k1Pub, true
	case sensitive.Ed25519PublicKey:
		return multicodecEd25519Pub, true
	case sensitive.X25519PublicKey:
		return multicodecX25519Pub, true
	default:
		return 0, false
	}
}

func tagForMulticodec(code uint64) (sensitive.Tag, bool) {
	switch code {
	case multicodecP256Pub:
		return sensitive.P256PublicKey, true
	case multicodecP384Pub:
		return sensitive.P384PublicKey, true
	case multicodecP521Pub:
		return sensitive.P521PublicKey, true
	case multicodecSecp256k1Pub:
		return sensitive.Secp256k1PublicKey, true
	case multicodecEd25519Pub:
		return sensitive.Ed25519PublicKey, true
	case multicodecX25519Pub:
		return sensitive.X25519PublicKey, true
	default:
		return 0, false
	}
}

// EncodeMultikey wraps the raw, fixed-length encoding a public-key tag's
// SecretBuffer holds (compressed point for EC tags, raw bytes for
// Ed25519/X25519) in its multicodec varint prefix and multibase-encodes
// the result with the base58btc alphabet, producing a did:key-compatible
// "z..." string.
func EncodeMultikey(tag sensitive.Tag, raw []byte) (string, error) {
	code, ok := multicodecFor(tag)
	if !ok {
		return "", ErrUnsupportedAlgorithm
	}
	prefix := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(prefix, code)
	buf := append(prefix[:n], raw...)
	return multibase.Encode(multibase.Base58BTC, buf)
}

// DecodeMultikey reverses EncodeMultikey, returning the tag the
// multicodec prefix identifies and the raw public key bytes that follow.
func DecodeMultikey(s string) (sensitive.Tag, []byte, error) {
	_, buf, err := multibase.Decode(s)
	if err != nil {
		return 0, nil, ErrMalformedKey
	}
	code, n := binary.Uvarint(buf)
	if n <= 0 {
		return 0, nil, ErrMalformedKey
	}
	tag, ok := tagForMulticodec(code)
	if !ok {
		return 0, nil, ErrUnsupportedAlgorithm
	}
	return tag, buf[n:], nil
}
