package keymaterial

import (
	"crypto/elliptic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vccore/pkg/sensitive"
)

// TestECDSAP256SignVerifyRoundTrip is spec.md scenario 1: generate a
// P-256 key pair, sign "abcde", verify against the SubjectPublicKeyInfo
// encoding of the public point.
func TestECDSAP256SignVerifyRoundTrip(t *testing.T) {
	pool := sensitive.NewPool()
	kp, err := Generate(sensitive.P256PrivateKey, pool)
	require.NoError(t, err)
	defer kp.Release()

	data := []byte{0x61, 0x62, 0x63, 0x64, 0x65} // "abcde"
	sig, err := Sign(sensitive.P256PrivateKey, kp.PrivateKey, data, pool)
	require.NoError(t, err)
	defer sig.Release()
	assert.Equal(t, 64, sig.Len())

	var spki []byte
	require.NoError(t, kp.PublicKey.WithBytes(func(b []byte) {
		spki, err = EncodeSPKI(sensitive.P256PublicKey, b)
	}))
	require.NoError(t, err)

	var ok bool
	var sigBytes []byte
	require.NoError(t, sig.WithBytes(func(b []byte) { sigBytes = append([]byte(nil), b...) }))
	ok, err = Verify(sensitive.P256PublicKey, spki, data, sigBytes)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestECDSAP521PrivateKeyPadding is spec.md scenario 2: a P-521 key whose
// raw private integer happens to serialize to 65 bytes still rents a
// SecretBuffer of exactly 66 bytes, left-padded with a leading zero.
func TestECDSAP521PrivateKeyPadding(t *testing.T) {
	pool := sensitive.NewPool()
	for i := 0; i < 64; i++ {
		kp, err := Generate(sensitive.P521PrivateKey, pool)
		require.NoError(t, err)
		assert.Equal(t, 66, kp.PrivateKey.Len())
		assert.Equal(t, 67, kp.PublicKey.Len())
		kp.Release()
	}
}

// TestP521FieldPaddingLeadsWithZero directly exercises the copy-into-
// zeroed-buffer pattern ecdsaGenerate/ecdsaSign use to pad a 65-byte
// scalar into fieldByteLen(P-521)'s 66 bytes.
func TestP521FieldPaddingLeadsWithZero(t *testing.T) {
	n := fieldByteLen(elliptic.P521())
	require.Equal(t, 66, n)

	shortScalar := make([]byte, 65)
	for i := range shortScalar {
		shortScalar[i] = 0xFF
	}
	padded := make([]byte, n)
	copy(padded[n-len(shortScalar):], shortScalar)
	assert.Equal(t, byte(0x00), padded[0])
	assert.Equal(t, byte(0xFF), padded[1])
}

func TestECDSASignVerifyRoundTripAllCurves(t *testing.T) {
	pool := sensitive.NewPool()
	data := []byte("the quick brown fox")
	for _, tag := range []sensitive.Tag{sensitive.P256PrivateKey, sensitive.P384PrivateKey, sensitive.P521PrivateKey} {
		kp, err := Generate(tag, pool)
		require.NoError(t, err)

		sig, err := Sign(tag, kp.PrivateKey, data, pool)
		require.NoError(t, err)

		var spki []byte
		pubTag := privateToPublicTag[tag]
		require.NoError(t, kp.PublicKey.WithBytes(func(b []byte) {
			spki, err = EncodeSPKI(pubTag, b)
		}))
		require.NoError(t, err)

		var sigBytes []byte
		require.NoError(t, sig.WithBytes(func(b []byte) { sigBytes = append([]byte(nil), b...) }))

		ok, err := Verify(pubTag, spki, data, sigBytes)
		require.NoError(t, err)
		assert.True(t, ok, "tag %v", tag)

		kp.Release()
		sig.Release()
	}
}

// TestDERNormalizationAcceptsBothEncodings is the "DER normalization"
// property from spec.md §8: a raw signature of the correct length and
// its DER-wrapped equivalent both verify.
func TestDERNormalizationAcceptsBothEncodings(t *testing.T) {
	pool := sensitive.NewPool()
	kp, err := Generate(sensitive.P256PrivateKey, pool)
	require.NoError(t, err)
	defer kp.Release()

	data := []byte("normalize me")
	sig, err := Sign(sensitive.P256PrivateKey, kp.PrivateKey, data, pool)
	require.NoError(t, err)
	defer sig.Release()

	var raw []byte
	require.NoError(t, sig.WithBytes(func(b []byte) { raw = append([]byte(nil), b...) }))

	der, err := rawToDER(elliptic.P256(), raw)
	require.NoError(t, err)

	var spki []byte
	require.NoError(t, kp.PublicKey.WithBytes(func(b []byte) {
		spki, err = EncodeSPKI(sensitive.P256PublicKey, b)
	}))
	require.NoError(t, err)

	okRaw, err := Verify(sensitive.P256PublicKey, spki, data, raw)
	require.NoError(t, err)
	assert.True(t, okRaw)

	okDER, err := Verify(sensitive.P256PublicKey, spki, data, der)
	require.NoError(t, err)
	assert.True(t, okDER)
}
