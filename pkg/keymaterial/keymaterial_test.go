package keymaterial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vccore/pkg/sensitive"
)

// TestLengthExactness is spec.md's universal "length exactness" property
// across every tag with a fixed canonical length that Generate produces.
func TestLengthExactness(t *testing.T) {
	pool := sensitive.NewPool()
	cases := []struct {
		privateTag sensitive.Tag
		pubLen     int
		privLen    int
	}{
		{sensitive.P256PrivateKey, 33, 32},
		{sensitive.P384PrivateKey, 49, 48},
		{sensitive.P521PrivateKey, 67, 66},
		{sensitive.Secp256k1PrivateKey, 33, 32},
		{sensitive.Ed25519PrivateKey, 32, 32},
		{sensitive.X25519PrivateKey, 32, 32},
		{sensitive.MlDsa44PrivateKey, 1312, 2560},
		{sensitive.MlDsa65PrivateKey, 1952, 4032},
		{sensitive.MlDsa87PrivateKey, 2592, 4896},
		{sensitive.MlKem512PrivateKey, 800, 1632},
		{sensitive.MlKem768PrivateKey, 1184, 2400},
		{sensitive.MlKem1024PrivateKey, 1568, 3168},
	}
	for _, c := range cases {
		kp, err := Generate(c.privateTag, pool)
		require.NoError(t, err, "tag %v", c.privateTag)
		assert.Equal(t, c.pubLen, kp.PublicKey.Len(), "public len for %v", c.privateTag)
		assert.Equal(t, c.privLen, kp.PrivateKey.Len(), "private len for %v", c.privateTag)
		kp.Release()
	}
}

func TestEd25519SignVerifyRoundTrip(t *testing.T) {
	pool := sensitive.NewPool()
	kp, err := Generate(sensitive.Ed25519PrivateKey, pool)
	require.NoError(t, err)
	defer kp.Release()

	data := []byte("sign me")
	sig, err := Sign(sensitive.Ed25519PrivateKey, kp.PrivateKey, data, pool)
	require.NoError(t, err)
	defer sig.Release()
	assert.Equal(t, 64, sig.Len())

	var pub, sigBytes []byte
	require.NoError(t, kp.PublicKey.WithBytes(func(b []byte) { pub = append([]byte(nil), b...) }))
	require.NoError(t, sig.WithBytes(func(b []byte) { sigBytes = append([]byte(nil), b...) }))

	ok, err := Verify(sensitive.Ed25519PublicKey, pub, data, sigBytes)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSecp256k1SignVerifyRoundTrip(t *testing.T) {
	pool := sensitive.NewPool()
	kp, err := Generate(sensitive.Secp256k1PrivateKey, pool)
	require.NoError(t, err)
	defer kp.Release()

	data := []byte("bitcoin message")
	sig, err := Sign(sensitive.Secp256k1PrivateKey, kp.PrivateKey, data, pool)
	require.NoError(t, err)
	defer sig.Release()
	assert.Equal(t, 64, sig.Len())

	var pub, sigBytes []byte
	require.NoError(t, kp.PublicKey.WithBytes(func(b []byte) { pub = append([]byte(nil), b...) }))
	require.NoError(t, sig.WithBytes(func(b []byte) { sigBytes = append([]byte(nil), b...) }))

	ok, err := Verify(sensitive.Secp256k1PublicKey, pub, data, sigBytes)
	require.NoError(t, err)
	assert.True(t, ok)
}

// TestSecp256k1SPKIRoundTrip exercises the SubjectPublicKeyInfo envelope
// path EncodeSPKI/DecodeSPKI offer for secp256k1 for interop callers,
// independent of Verify's own raw-point wire contract for this tag.
func TestSecp256k1SPKIRoundTrip(t *testing.T) {
	pool := sensitive.NewPool()
	kp, err := Generate(sensitive.Secp256k1PrivateKey, pool)
	require.NoError(t, err)
	defer kp.Release()

	var pub []byte
	require.NoError(t, kp.PublicKey.WithBytes(func(b []byte) { pub = append([]byte(nil), b...) }))

	spki, err := EncodeSPKI(sensitive.Secp256k1PublicKey, pub)
	require.NoError(t, err)

	tag, decoded, err := DecodeSPKI(spki)
	require.NoError(t, err)
	assert.Equal(t, sensitive.Secp256k1PublicKey, tag)
	assert.Equal(t, pub, decoded)
}

func TestX25519DeriveSharedSecretsAgree(t *testing.T) {
	pool := sensitive.NewPool()
	alice, err := Generate(sensitive.X25519PrivateKey, pool)
	require.NoError(t, err)
	defer alice.Release()
	bob, err := Generate(sensitive.X25519PrivateKey, pool)
	require.NoError(t, err)
	defer bob.Release()

	var alicePub, bobPub []byte
	require.NoError(t, alice.PublicKey.WithBytes(func(b []byte) { alicePub = append([]byte(nil), b...) }))
	require.NoError(t, bob.PublicKey.WithBytes(func(b []byte) { bobPub = append([]byte(nil), b...) }))

	aliceShared, err := Derive(alice.PrivateKey, bobPub, pool)
	require.NoError(t, err)
	defer aliceShared.Release()
	bobShared, err := Derive(bob.PrivateKey, alicePub, pool)
	require.NoError(t, err)
	defer bobShared.Release()

	var a, b []byte
	require.NoError(t, aliceShared.WithBytes(func(buf []byte) { a = append([]byte(nil), buf...) }))
	require.NoError(t, bobShared.WithBytes(func(buf []byte) { b = append([]byte(nil), buf...) }))
	assert.Equal(t, a, b)
}

func TestRSASignVerifyRoundTrip(t *testing.T) {
	pool := sensitive.NewPool()
	kp, err := Generate(sensitive.Rsa2048PrivateKey, pool)
	require.NoError(t, err)
	defer kp.Release()
	assert.Equal(t, 256, kp.PublicKey.Len())

	data := []byte("rsa pkcs1v15")
	sig, err := Sign(sensitive.Rsa2048PrivateKey, kp.PrivateKey, data, pool)
	require.NoError(t, err)
	defer sig.Release()

	var pub, sigBytes []byte
	require.NoError(t, kp.PublicKey.WithBytes(func(b []byte) { pub = append([]byte(nil), b...) }))
	require.NoError(t, sig.WithBytes(func(b []byte) { sigBytes = append([]byte(nil), b...) }))

	ok, err := Verify(sensitive.Rsa2048PublicKey, pub, data, sigBytes)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMlDsaSignVerifyRoundTrip(t *testing.T) {
	pool := sensitive.NewPool()
	for _, tag := range []sensitive.Tag{sensitive.MlDsa44PrivateKey, sensitive.MlDsa65PrivateKey, sensitive.MlDsa87PrivateKey} {
		kp, err := Generate(tag, pool)
		require.NoError(t, err)

		data := []byte("post-quantum signature")
		sig, err := Sign(tag, kp.PrivateKey, data, pool)
		require.NoError(t, err)

		var pub, sigBytes []byte
		require.NoError(t, kp.PublicKey.WithBytes(func(b []byte) { pub = append([]byte(nil), b...) }))
		require.NoError(t, sig.WithBytes(func(b []byte) { sigBytes = append([]byte(nil), b...) }))

		ok, err := Verify(privateToPublicTag[tag], pub, data, sigBytes)
		require.NoError(t, err)
		assert.True(t, ok, "tag %v", tag)

		kp.Release()
		sig.Release()
	}
}

func TestMlKemEncapsulateDecapsulateAgree(t *testing.T) {
	pool := sensitive.NewPool()
	for _, tag := range []sensitive.Tag{sensitive.MlKem512PrivateKey, sensitive.MlKem768PrivateKey, sensitive.MlKem1024PrivateKey} {
		kp, err := Generate(tag, pool)
		require.NoError(t, err)

		var pub []byte
		require.NoError(t, kp.PublicKey.WithBytes(func(b []byte) { pub = append([]byte(nil), b...) }))

		ciphertext, sharedA, err := Encapsulate(privateToPublicTag[tag], pub, pool)
		require.NoError(t, err)

		sharedB, err := Decapsulate(tag, kp.PrivateKey, ciphertext, pool)
		require.NoError(t, err)

		var a, b []byte
		require.NoError(t, sharedA.WithBytes(func(buf []byte) { a = append([]byte(nil), buf...) }))
		require.NoError(t, sharedB.WithBytes(func(buf []byte) { b = append([]byte(nil), buf...) }))
		assert.Equal(t, a, b, "tag %v", tag)

		sharedA.Release()
		sharedB.Release()
		kp.Release()
	}
}

func TestMultikeyRoundTrip(t *testing.T) {
	pool := sensitive.NewPool()
	for _, tag := range []sensitive.Tag{sensitive.P256PrivateKey, sensitive.Ed25519PrivateKey, sensitive.X25519PrivateKey} {
		kp, err := Generate(tag, pool)
		require.NoError(t, err)

		pubTag := privateToPublicTag[tag]
		var raw []byte
		require.NoError(t, kp.PublicKey.WithBytes(func(b []byte) { raw = append([]byte(nil), b...) }))

		encoded, err := EncodeMultikey(pubTag, raw)
		require.NoError(t, err)
		assert.Equal(t, byte('z'), encoded[0])

		decodedTag, decodedRaw, err := DecodeMultikey(encoded)
		require.NoError(t, err)
		assert.Equal(t, pubTag, decodedTag)
		assert.Equal(t, raw, decodedRaw)

		kp.Release()
	}
}

func TestGenerateRejectsUnknownTag(t *testing.T) {
	_, err := Generate(sensitive.TagUnspecified, sensitive.NewPool())
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestSignRejectsMismatchedTag(t *testing.T) {
	pool := sensitive.NewPool()
	kp, err := Generate(sensitive.P256PrivateKey, pool)
	require.NoError(t, err)
	defer kp.Release()

	_, err = Sign(sensitive.P384PrivateKey, kp.PrivateKey, []byte("x"), pool)
	assert.ErrorIs(t, err, ErrTagMismatch)
}
