//go:build !pkcs11

package hsm

import (
	"errors"

	"vccore/pkg/sensitive"
)

// PKCS11Config names the HSM module, slot, and key this backend binds to.
type PKCS11Config struct {
	ModulePath string
	SlotID     uint
	PIN        string
	KeyLabel   string
}

// PKCS11Backend is a stub when PKCS#11 support is not compiled in.
type PKCS11Backend struct{}

// ErrPKCS11NotSupported is returned when PKCS#11 support is not compiled in.
var ErrPKCS11NotSupported = errors.New("hsm: PKCS#11 support not compiled in; rebuild with -tags=pkcs11")

// NewPKCS11Backend returns an error when PKCS#11 support is not compiled in.
func NewPKCS11Backend(config *PKCS11Config, tag sensitive.Tag) (*PKCS11Backend, error) {
	return nil, ErrPKCS11NotSupported
}

func (b *PKCS11Backend) Sign(tag sensitive.Tag, data []byte) (*sensitive.SecretBuffer, error) {
	return nil, ErrPKCS11NotSupported
}

func (b *PKCS11Backend) PublicKey(tag sensitive.Tag) ([]byte, error) {
	return nil, ErrPKCS11NotSupported
}

func (b *PKCS11Backend) KeyID() string {
	return ""
}

func (b *PKCS11Backend) Close() error {
	return nil
}
