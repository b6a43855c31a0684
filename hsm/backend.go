// Package hsm provides signing backends keyed by sensitive.Tag: an
// in-process SoftwareBackend for development and testing, and a
// PKCS11Backend (built with -tags=pkcs11) for hardware-backed keys.
// Both speak the same Backend interface so keymaterial callers can swap
// one for the other without touching call sites.
package hsm

import (
	"errors"

	"vccore/pkg/sensitive"
)

var (
	// ErrTagMismatch is returned when a backend is asked to operate on a
	// tag other than the one its key was provisioned for.
	ErrTagMismatch = errors.New("hsm: requested tag does not match backend's key")
	// ErrKeyNotFound is returned when a backend cannot locate the
	// requested key (e.g. PKCS#11 label lookup miss).
	ErrKeyNotFound = errors.New("hsm: key not found")
)

// Backend signs on behalf of a single provisioned key and exposes its
// public half, without ever handing the private key material itself to
// the caller.
type Backend interface {
	// Sign returns a signature SecretBuffer over data, dispatching on
	// tag (which must match the backend's provisioned key).
	Sign(tag sensitive.Tag, data []byte) (*sensitive.SecretBuffer, error)
	// PublicKey returns the raw public key bytes for tag.
	PublicKey(tag sensitive.Tag) ([]byte, error)
	// KeyID returns a stable identifier for the backend's provisioned
	// key, suitable for a JWS/JWT "kid" header or an audit log.
	KeyID() string
	// Close releases any resources (HSM session, pooled buffers) the
	// backend holds.
	Close() error
}
