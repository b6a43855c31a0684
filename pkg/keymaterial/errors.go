package keymaterial

import "errors"

var (
	// ErrUnsupportedAlgorithm is returned for an unknown algorithm tag or curve.
	ErrUnsupportedAlgorithm = errors.New("keymaterial: unsupported algorithm")
	// ErrTagMismatch is returned when a key's role tag does not match the
	// requested operation's family.
	ErrTagMismatch = errors.New("keymaterial: key tag does not match requested operation")
	// ErrMalformedKey is returned when a key fails to parse in its expected encoding.
	ErrMalformedKey = errors.New("keymaterial: malformed key encoding")
	// ErrMalformedSignature is returned when a signature fails to parse.
	ErrMalformedSignature = errors.New("keymaterial: malformed signature encoding")
	// ErrInvalidPoint is returned on X25519 agreement failure (low-order point).
	ErrInvalidPoint = errors.New("keymaterial: invalid point for key agreement")
)
