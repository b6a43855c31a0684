package keymaterial

import (
	"crypto/rand"

	"golang.org/x/crypto/curve25519"

	"vccore/pkg/sensitive"
)

func x25519Generate(pool *sensitive.Pool) (KeyPair, error) {
	privBuf, err := pool.Rent(sensitive.X25519PrivateKey, curve25519.ScalarSize)
	if err != nil {
		return KeyPair{}, err
	}
	if err := privBuf.WithBytes(func(b []byte) {
		if _, readErr := rand.Read(b); readErr != nil {
			panic(readErr)
		}
		// Clamp per RFC 7748 so every generated scalar is a valid X25519
		// private key regardless of what the caller later does with it.
		b[0] &= 248
		b[31] &= 127
		b[31] |= 64
	}); err != nil {
		privBuf.Release()
		return KeyPair{}, err
	}

	var pub []byte
	var deriveErr error
	err = privBuf.WithBytes(func(priv []byte) {
		pub, deriveErr = curve25519.X25519(priv, curve25519.Basepoint)
	})
	if err != nil {
		privBuf.Release()
		return KeyPair{}, err
	}
	if deriveErr != nil {
		privBuf.Release()
		return KeyPair{}, deriveErr
	}

	pubBuf, err := pool.Rent(sensitive.X25519PublicKey, curve25519.PointSize)
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

// x25519Derive computes the shared secret for priv and peerPublic,
// rejecting low-order points per RFC 7748 so a malicious peer public key
// cannot force a predictable shared secret (spec.md's ErrInvalidPoint).
func x25519Derive(priv *sensitive.SecretBuffer, peerPublic []byte, pool *sensitive.Pool) (*sensitive.SecretBuffer, error) {
	var shared []byte
	var deriveErr error
	err := priv.WithBytes(func(privBytes []byte) {
		shared, deriveErr = curve25519.X25519(privBytes, peerPublic)
	})
	if err != nil {
		return nil, err
	}
	if deriveErr != nil {
		return nil, ErrInvalidPoint
	}

	buf, err := pool.Rent(sensitive.X25519SharedSecret, len(shared))
	if err != nil {
		return nil, err
	}
	if err := buf.WithBytes(func(b []byte) { copy(b, shared) }); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}
