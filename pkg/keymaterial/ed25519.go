package keymaterial

import (
	"crypto/ed25519"
	"crypto/rand"

	"vccore/pkg/sensitive"
)

func ed25519Generate(pool *sensitive.Pool) (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, err
	}

	privBuf, err := pool.Rent(sensitive.Ed25519PrivateKey, ed25519.SeedSize)
	if err != nil {
		return KeyPair{}, err
	}
	seed := priv.Seed()
	if err := privBuf.WithBytes(func(b []byte) { copy(b, seed) }); err != nil {
		privBuf.Release()
		return KeyPair{}, err
	}

	pubBuf, err := pool.Rent(sensitive.Ed25519PublicKey, ed25519.PublicKeySize)
	if err != nil {
		privBuf.Release()
		return KeyPair{}, err
	}
	if err := pubBuf.WithBytes(func(b []byte) { copy(b, pub) }); err != nil {
		privBuf.Release()
		pubBuf.Release()
		return KeyPair{}, err
	}

	return KeyPair{PublicKey: pubBuf, PrivateKey: privBuf}, nil
}

func ed25519Sign(priv *sensitive.SecretBuffer, data []byte) ([]byte, error) {
	var sig []byte
	err := priv.WithBytes(func(seed []byte) {
		key := ed25519.NewKeyFromSeed(seed)
		sig = ed25519.Sign(key, data)
	})
	return sig, err
}

func ed25519Verify(pub []byte, data, sig []byte) (bool, error) {
	if len(pub) != ed25519.PublicKeySize {
		return false, ErrMalformedKey
	}
	return ed25519.Verify(pub, data, sig), nil
}
