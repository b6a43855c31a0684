package keymaterial

import (
	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/mlkem/mlkem1024"
	"github.com/cloudflare/circl/kem/mlkem/mlkem512"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
	"github.com/cloudflare/circl/sign"
	"github.com/cloudflare/circl/sign/mldsa/mldsa44"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"

	"vccore/pkg/sensitive"
)

// mldsaScheme resolves the FIPS 204 parameter set for a signature tag.
// Post-quantum support is entirely circl's; nothing in the retrieved
// teacher or example set implements ML-DSA/ML-KEM, so this is the one
// out-of-pack dependency the dispatch tables below pull in.
func mldsaScheme(tag sensitive.Tag) (sign.Scheme, error) {
	switch tag {
	case sensitive.MlDsa44PublicKey, sensitive.MlDsa44PrivateKey, sensitive.MlDsa44Signature:
		return mldsa44.Scheme(), nil
	case sensitive.MlDsa65PublicKey, sensitive.MlDsa65PrivateKey, sensitive.MlDsa65Signature:
		return mldsa65.Scheme(), nil
	case sensitive.MlDsa87PublicKey, sensitive.MlDsa87PrivateKey, sensitive.MlDsa87Signature:
		return mldsa87.Scheme(), nil
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}

// mlkemScheme resolves the FIPS 203 parameter set for a KEM tag.
func mlkemScheme(tag sensitive.Tag) (kem.Scheme, error) {
	switch tag {
	case sensitive.MlKem512PublicKey, sensitive.MlKem512PrivateKey, sensitive.MlKem512Ciphertext:
		return mlkem512.Scheme(), nil
	case sensitive.MlKem768PublicKey, sensitive.MlKem768PrivateKey, sensitive.MlKem768Ciphertext:
		return mlkem768.Scheme(), nil
	case sensitive.MlKem1024PublicKey, sensitive.MlKem1024PrivateKey, sensitive.MlKem1024Ciphertext:
		return mlkem1024.Scheme(), nil
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}

func mldsaGenerate(scheme sign.Scheme, pubTag, privTag sensitive.Tag, pool *sensitive.Pool) (KeyPair, error) {
	pub, priv, err := scheme.GenerateKey()
	if err != nil {
		return KeyPair{}, err
	}
	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		return KeyPair{}, err
	}
	privBytes, err := priv.MarshalBinary()
	if err != nil {
		return KeyPair{}, err
	}

	pubBuf, err := pool.Rent(pubTag, len(pubBytes))
	if err != nil {
		return KeyPair{}, err
	}
	if err := pubBuf.WithBytes(func(b []byte) { copy(b, pubBytes) }); err != nil {
		pubBuf.Release()
		return KeyPair{}, err
	}

	privBuf, err := pool.Rent(privTag, len(privBytes))
	if err != nil {
		pubBuf.Release()
		return KeyPair{}, err
	}
	if err := privBuf.WithBytes(func(b []byte) { copy(b, privBytes) }); err != nil {
		pubBuf.Release()
		privBuf.Release()
		return KeyPair{}, err
	}

	return KeyPair{PublicKey: pubBuf, PrivateKey: privBuf}, nil
}

func mldsaSign(scheme sign.Scheme, priv *sensitive.SecretBuffer, data []byte) ([]byte, error) {
	var sig []byte
	var unmarshalErr error
	err := priv.WithBytes(func(b []byte) {
		sk, e := scheme.UnmarshalBinaryPrivateKey(b)
		if e != nil {
			unmarshalErr = ErrMalformedKey
			return
		}
		sig = scheme.Sign(sk, data, nil)
	})
	if err != nil {
		return nil, err
	}
	return sig, unmarshalErr
}

func mldsaVerify(scheme sign.Scheme, pub []byte, data, sig []byte) (bool, error) {
	pk, err := scheme.UnmarshalBinaryPublicKey(pub)
	if err != nil {
		return false, ErrMalformedKey
	}
	return scheme.Verify(pk, data, sig, nil), nil
}

func mlkemGenerate(scheme kem.Scheme, pubTag, privTag sensitive.Tag, pool *sensitive.Pool) (KeyPair, error) {
	pub, priv, err := scheme.GenerateKeyPair()
	if err != nil {
		return KeyPair{}, err
	}
	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		return KeyPair{}, err
	}
	privBytes, err := priv.MarshalBinary()
	if err != nil {
		return KeyPair{}, err
	}

	pubBuf, err := pool.Rent(pubTag, len(pubBytes))
	if err != nil {
		return KeyPair{}, err
	}
	if err := pubBuf.WithBytes(func(b []byte) { copy(b, pubBytes) }); err != nil {
		pubBuf.Release()
		return KeyPair{}, err
	}

	privBuf, err := pool.Rent(privTag, len(privBytes))
	if err != nil {
		pubBuf.Release()
		return KeyPair{}, err
	}
	if err := privBuf.WithBytes(func(b []byte) { copy(b, privBytes) }); err != nil {
		pubBuf.Release()
		privBuf.Release()
		return KeyPair{}, err
	}

	return KeyPair{PublicKey: pubBuf, PrivateKey: privBuf}, nil
}

// mlkemEncapsulate produces a ciphertext and shared secret under pub.
// Both are returned as plain byte slices, not rented from a pool: the
// caller decides which tag the ciphertext belongs under (it varies by
// parameter set) and whether the shared secret is kept as
// sensitive.MlKemSharedSecret.
func mlkemEncapsulate(scheme kem.Scheme, pub []byte) (ciphertext, sharedSecret []byte, err error) {
	pk, err := scheme.UnmarshalBinaryPublicKey(pub)
	if err != nil {
		return nil, nil, ErrMalformedKey
	}
	return scheme.Encapsulate(pk)
}

func mlkemDecapsulate(scheme kem.Scheme, priv *sensitive.SecretBuffer, ciphertext []byte, pool *sensitive.Pool) (*sensitive.SecretBuffer, error) {
	var shared []byte
	var opErr error
	err := priv.WithBytes(func(b []byte) {
		sk, e := scheme.UnmarshalBinaryPrivateKey(b)
		if e != nil {
			opErr = ErrMalformedKey
			return
		}
		shared, opErr = scheme.Decapsulate(sk, ciphertext)
	})
	if err != nil {
		return nil, err
	}
	if opErr != nil {
		return nil, opErr
	}

	buf, err := pool.Rent(sensitive.MlKemSharedSecret, len(shared))
	if err != nil {
		return nil, err
	}
	if err := buf.WithBytes(func(b []byte) { copy(b, shared) }); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}
