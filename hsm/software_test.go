package hsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vccore/pkg/keymaterial"
	"vccore/pkg/sensitive"
)

func TestSoftwareBackendSignVerifyRoundTrip(t *testing.T) {
	pool := sensitive.NewPool()
	backend, err := NewSoftwareBackend(sensitive.P256PrivateKey, pool)
	require.NoError(t, err)
	defer backend.Close()

	pub, err := backend.PublicKey(sensitive.P256PrivateKey)
	require.NoError(t, err)

	data := []byte("hsm-backed signature")
	sig, err := backend.Sign(sensitive.P256PrivateKey, data)
	require.NoError(t, err)
	defer sig.Release()

	spki, err := keymaterial.EncodeSPKI(sensitive.P256PublicKey, pub)
	require.NoError(t, err)

	var sigBytes []byte
	require.NoError(t, sig.WithBytes(func(b []byte) { sigBytes = append([]byte(nil), b...) }))

	ok, err := keymaterial.Verify(sensitive.P256PublicKey, spki, data, sigBytes)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.NotEmpty(t, backend.KeyID())
}

func TestSoftwareBackendRejectsMismatchedTag(t *testing.T) {
	pool := sensitive.NewPool()
	backend, err := NewSoftwareBackend(sensitive.P256PrivateKey, pool)
	require.NoError(t, err)
	defer backend.Close()

	_, err = backend.Sign(sensitive.P384PrivateKey, []byte("x"))
	assert.ErrorIs(t, err, ErrTagMismatch)
}
