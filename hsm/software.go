package hsm

import (
	"github.com/google/uuid"

	"vccore/pkg/keymaterial"
	"vccore/pkg/sensitive"
)

// SoftwareBackend implements Backend with an in-memory key pair rented
// from a sensitive.Pool. It exists for development, testing, and any
// deployment that deliberately opts out of hardware-backed keys.
type SoftwareBackend struct {
	pair       keymaterial.KeyPair
	privateTag sensitive.Tag
	pool       *sensitive.Pool
	keyID      string
}

// NewSoftwareBackend generates a fresh key pair for privateTag and wraps
// it as a Backend, assigning it a random key ID (no caller-facing label
// exists for an in-memory key the way a PKCS#11 key has one).
func NewSoftwareBackend(privateTag sensitive.Tag, pool *sensitive.Pool) (*SoftwareBackend, error) {
	pair, err := keymaterial.Generate(privateTag, pool)
	if err != nil {
		return nil, err
	}
	return &SoftwareBackend{pair: pair, privateTag: privateTag, pool: pool, keyID: uuid.NewString()}, nil
}

// ImportSoftwareBackend wraps an already-generated key pair (e.g. one
// restored from a PlatformEncryptedSecret) as a Backend, taking
// ownership of pair.
func ImportSoftwareBackend(pair keymaterial.KeyPair, privateTag sensitive.Tag, pool *sensitive.Pool) *SoftwareBackend {
	return &SoftwareBackend{pair: pair, privateTag: privateTag, pool: pool, keyID: uuid.NewString()}
}

func (b *SoftwareBackend) Sign(tag sensitive.Tag, data []byte) (*sensitive.SecretBuffer, error) {
	if tag != b.privateTag {
		return nil, ErrTagMismatch
	}
	return keymaterial.Sign(tag, b.pair.PrivateKey, data, b.pool)
}

func (b *SoftwareBackend) PublicKey(tag sensitive.Tag) ([]byte, error) {
	if tag != b.privateTag {
		return nil, ErrTagMismatch
	}
	var out []byte
	err := b.pair.PublicKey.WithBytes(func(raw []byte) {
		out = append([]byte(nil), raw...)
	})
	return out, err
}

func (b *SoftwareBackend) KeyID() string {
	return b.keyID
}

func (b *SoftwareBackend) Close() error {
	b.pair.Release()
	return nil
}
