package keymaterial

import "vccore/pkg/sensitive"

// Verify checks sig against data under the public key pub, dispatching
// on publicTag (e.g. sensitive.P256PublicKey). For P256/P384/P521 pub is
// a SubjectPublicKeyInfo DER envelope (see EncodeSPKI) and sig may be raw
// r||s or DER (see normalizeECDSASignature); for every other tag,
// including Secp256k1PublicKey, pub and sig are raw bytes in the
// encoding CanonicalLength describes — EncodeSPKI/DecodeSPKI also support
// Secp256k1PublicKey, but only for interop callers that need a
// SubjectPublicKeyInfo envelope (e.g. export to the DID layer above this
// module); Verify itself never requires one for secp256k1.
func Verify(publicTag sensitive.Tag, pub, data, sig []byte) (bool, error) {
	switch publicTag {
	case sensitive.P256PublicKey, sensitive.P384PublicKey, sensitive.P521PublicKey:
		curve, _ := curveForTag(publicTag)
		return ecdsaVerify(curve, pub, data, sig)
	case sensitive.Secp256k1PublicKey:
		return secp256k1Verify(pub, data, sig)
	case sensitive.Ed25519PublicKey:
		return ed25519Verify(pub, data, sig)
	case sensitive.Rsa2048PublicKey, sensitive.Rsa4096PublicKey:
		return rsaVerify(pub, data, sig)
	case sensitive.MlDsa44PublicKey, sensitive.MlDsa65PublicKey, sensitive.MlDsa87PublicKey:
		scheme, err := mldsaScheme(publicTag)
		if err != nil {
			return false, err
		}
		return mldsaVerify(scheme, pub, data, sig)
	default:
		return false, ErrUnsupportedAlgorithm
	}
}
