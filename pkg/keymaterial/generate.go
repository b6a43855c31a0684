package keymaterial

import (
	"crypto/elliptic"

	"vccore/pkg/sensitive"
)

// Generate creates a new key pair for the algorithm identified by
// privateTag, e.g. sensitive.P256PrivateKey, renting both halves from
// pool. The returned KeyPair's tags are privateTag and its public
// counterpart; the caller owns both and must Release them.
func Generate(privateTag sensitive.Tag, pool *sensitive.Pool) (KeyPair, error) {
	switch privateTag {
	case sensitive.P256PrivateKey:
		return ecdsaGenerate(elliptic.P256(), sensitive.P256PublicKey, sensitive.P256PrivateKey, pool)
	case sensitive.P384PrivateKey:
		return ecdsaGenerate(elliptic.P384(), sensitive.P384PublicKey, sensitive.P384PrivateKey, pool)
	case sensitive.P521PrivateKey:
		return ecdsaGenerate(elliptic.P521(), sensitive.P521PublicKey, sensitive.P521PrivateKey, pool)
	case sensitive.Secp256k1PrivateKey:
		return secp256k1Generate(pool)
	case sensitive.Ed25519PrivateKey:
		return ed25519Generate(pool)
	case sensitive.X25519PrivateKey:
		return x25519Generate(pool)
	case sensitive.Rsa2048PrivateKey:
		return rsaGenerate(2048, sensitive.Rsa2048PublicKey, sensitive.Rsa2048PrivateKey, pool)
	case sensitive.Rsa4096PrivateKey:
		return rsaGenerate(4096, sensitive.Rsa4096PublicKey, sensitive.Rsa4096PrivateKey, pool)
	case sensitive.MlDsa44PrivateKey, sensitive.MlDsa65PrivateKey, sensitive.MlDsa87PrivateKey:
		scheme, err := mldsaScheme(privateTag)
		if err != nil {
			return KeyPair{}, err
		}
		return mldsaGenerate(scheme, privateToPublicTag[privateTag], privateTag, pool)
	case sensitive.MlKem512PrivateKey, sensitive.MlKem768PrivateKey, sensitive.MlKem1024PrivateKey:
		scheme, err := mlkemScheme(privateTag)
		if err != nil {
			return KeyPair{}, err
		}
		return mlkemGenerate(scheme, privateToPublicTag[privateTag], privateTag, pool)
	default:
		return KeyPair{}, ErrUnsupportedAlgorithm
	}
}

// curveForTag resolves the crypto/elliptic curve for either half of an
// ECDSA P-256/384/521 key pair, by public tag, private tag, or signature
// tag; this lets sign.go/verify.go/ecdsa.go share one lookup regardless
// of which tag the caller has on hand.
func curveForTag(tag sensitive.Tag) (elliptic.Curve, bool) {
	switch tag {
	case sensitive.P256PrivateKey, sensitive.P256PublicKey, sensitive.EcdsaP256Signature:
		return elliptic.P256(), true
	case sensitive.P384PrivateKey, sensitive.P384PublicKey, sensitive.EcdsaP384Signature:
		return elliptic.P384(), true
	case sensitive.P521PrivateKey, sensitive.P521PublicKey, sensitive.EcdsaP521Signature:
		return elliptic.P521(), true
	default:
		return nil, false
	}
}
