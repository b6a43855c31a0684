package sensitive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformEncryptedSecretRoundTrip(t *testing.T) {
	pool := NewPool()
	protector, err := NewSoftwareProtector(pool)
	require.NoError(t, err)
	defer protector.Close()

	plaintext := []byte("super secret key material")
	sealed, err := Seal(pool, protector, plaintext)
	require.NoError(t, err)
	defer sealed.Release()

	var observed []byte
	err = sealed.WithDecrypted(TagUnspecified, func(b *SecretBuffer) {
		observed, _ = b.CopyOut()
	})
	require.NoError(t, err)
	assert.Equal(t, plaintext, observed)
}

func TestPlatformEncryptedSecretWrongKeyFails(t *testing.T) {
	pool := NewPool()
	p1, err := NewSoftwareProtector(pool)
	require.NoError(t, err)
	defer p1.Close()
	p2, err := NewSoftwareProtector(pool)
	require.NoError(t, err)
	defer p2.Close()

	sealed, err := Seal(pool, p1, []byte("top secret"))
	require.NoError(t, err)
	defer sealed.Release()

	sealed.protector = p2
	err = sealed.WithDecrypted(TagUnspecified, func(*SecretBuffer) {})
	assert.Error(t, err)
}
