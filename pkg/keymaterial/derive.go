package keymaterial

import "vccore/pkg/sensitive"

// Derive computes an X25519 shared secret from priv and peerPublic (32
// raw bytes), renting the result as sensitive.X25519SharedSecret.
func Derive(priv *sensitive.SecretBuffer, peerPublic []byte, pool *sensitive.Pool) (*sensitive.SecretBuffer, error) {
	if priv.Tag() != sensitive.X25519PrivateKey {
		return nil, ErrTagMismatch
	}
	return x25519Derive(priv, peerPublic, pool)
}

// Encapsulate runs the ML-KEM encapsulation algorithm against pub (raw
// public key bytes for publicTag, one of the MlKem*PublicKey tags) and
// returns the ciphertext and the resulting shared secret, rented as
// sensitive.MlKemSharedSecret.
func Encapsulate(publicTag sensitive.Tag, pub []byte, pool *sensitive.Pool) (ciphertext []byte, sharedSecret *sensitive.SecretBuffer, err error) {
	scheme, err := mlkemScheme(publicTag)
	if err != nil {
		return nil, nil, err
	}
	ct, ss, err := mlkemEncapsulate(scheme, pub)
	if err != nil {
		return nil, nil, err
	}
	buf, err := pool.Rent(sensitive.MlKemSharedSecret, len(ss))
	if err != nil {
		return nil, nil, err
	}
	if err := buf.WithBytes(func(b []byte) { copy(b, ss) }); err != nil {
		buf.Release()
		return nil, nil, err
	}
	return ct, buf, nil
}

// Decapsulate runs the ML-KEM decapsulation algorithm against priv (a
// SecretBuffer tagged privateTag, one of the MlKem*PrivateKey tags) and
// ciphertext, returning the shared secret as sensitive.MlKemSharedSecret.
func Decapsulate(privateTag sensitive.Tag, priv *sensitive.SecretBuffer, ciphertext []byte, pool *sensitive.Pool) (*sensitive.SecretBuffer, error) {
	if priv.Tag() != privateTag {
		return nil, ErrTagMismatch
	}
	scheme, err := mlkemScheme(privateTag)
	if err != nil {
		return nil, err
	}
	return mlkemDecapsulate(scheme, priv, ciphertext, pool)
}
