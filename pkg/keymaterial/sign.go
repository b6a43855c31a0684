package keymaterial

import "vccore/pkg/sensitive"

// Sign produces a signature over data using priv, a SecretBuffer tagged
// privateTag, and returns it as a SecretBuffer tagged with privateTag's
// signature tag (e.g. sensitive.EcdsaP256Signature for
// sensitive.P256PrivateKey). The caller owns the returned buffer.
func Sign(privateTag sensitive.Tag, priv *sensitive.SecretBuffer, data []byte, pool *sensitive.Pool) (*sensitive.SecretBuffer, error) {
	if priv.Tag() != privateTag {
		return nil, ErrTagMismatch
	}

	var raw []byte
	var err error
	switch privateTag {
	case sensitive.P256PrivateKey, sensitive.P384PrivateKey, sensitive.P521PrivateKey:
		curve, _ := curveForTag(privateTag)
		raw, err = ecdsaSign(curve, priv, data)
	case sensitive.Secp256k1PrivateKey:
		raw, err = secp256k1Sign(priv, data)
	case sensitive.Ed25519PrivateKey:
		raw, err = ed25519Sign(priv, data)
	case sensitive.Rsa2048PrivateKey, sensitive.Rsa4096PrivateKey:
		raw, err = rsaSign(priv, data)
	case sensitive.MlDsa44PrivateKey, sensitive.MlDsa65PrivateKey, sensitive.MlDsa87PrivateKey:
		scheme, schemeErr := mldsaScheme(privateTag)
		if schemeErr != nil {
			return nil, schemeErr
		}
		raw, err = mldsaSign(scheme, priv, data)
	default:
		return nil, ErrUnsupportedAlgorithm
	}
	if err != nil {
		return nil, err
	}

	sigTag := signatureTagFor[privateTag]
	if sigTag == 0 && privateTag != sensitive.Rsa2048PrivateKey && privateTag != sensitive.Rsa4096PrivateKey {
		return nil, ErrUnsupportedAlgorithm
	}

	var sigBuf *sensitive.SecretBuffer
	if sigTag == 0 {
		// RSA signatures (PKCS#1 v1.5) have no fixed length entry in
		// canonicalLengths beyond the modulus size, so they're rented
		// untagged.
		sigBuf = pool.RentUntagged(len(raw))
	} else {
		var rentErr error
		sigBuf, rentErr = pool.Rent(sigTag, len(raw))
		if rentErr != nil {
			return nil, rentErr
		}
	}
	if err := sigBuf.WithBytes(func(b []byte) { copy(b, raw) }); err != nil {
		sigBuf.Release()
		return nil, err
	}
	return sigBuf, nil
}
