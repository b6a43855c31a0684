package keymaterial

import (
	"crypto/sha256"
	"crypto/x509/pkix"
	"encoding/asn1"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"vccore/pkg/sensitive"
)

// secp256k1OID is the named-curve OID used by SPKI envelopes for
// secp256k1 keys (SEC 2, same family of identifiers ecdsa.go resolves
// P-256/384/521 from, just never registered with crypto/elliptic since
// the standard library does not implement this curve).
var secp256k1OID = asn1.ObjectIdentifier{1, 3, 132, 0, 10}

// secp256k1EncodeSPKI builds a SubjectPublicKeyInfo DER envelope for a
// secp256k1 public key, the same id-ecPublicKey AlgorithmIdentifier shape
// ecdsa.go's encodeSPKI uses, with secp256k1OID as the named-curve
// parameter in place of a crypto/elliptic curve (the standard library has
// no secp256k1 implementation to hang encodeSPKI's elliptic.Curve
// parameter on, so this builds the same subjectPublicKeyInfo struct
// directly from the decred library's point encoding instead).
func secp256k1EncodeSPKI(compressed []byte) ([]byte, error) {
	pub, err := secp256k1.ParsePubKey(compressed)
	if err != nil {
		return nil, ErrMalformedKey
	}
	point := pub.SerializeUncompressed()
	spki := subjectPublicKeyInfo{
		Algorithm: pkix.AlgorithmIdentifier{
			Algorithm:  ecPublicKeyOID,
			Parameters: asn1.RawValue{FullBytes: mustMarshalOID(secp256k1OID)},
		},
		PublicKey: asn1.BitString{Bytes: point, BitLength: len(point) * 8},
	}
	return asn1.Marshal(spki)
}

// secp256k1DecodeSPKI parses a SubjectPublicKeyInfo DER envelope carrying
// a secp256k1 point, checking both the id-ecPublicKey algorithm OID and
// the secp256k1 named-curve parameter OID, and returns the point in this
// package's canonical compressed encoding.
func secp256k1DecodeSPKI(der []byte) ([]byte, error) {
	var spki subjectPublicKeyInfo
	rest, err := asn1.Unmarshal(der, &spki)
	if err != nil || len(rest) != 0 {
		return nil, ErrMalformedKey
	}
	if !spki.Algorithm.Algorithm.Equal(ecPublicKeyOID) {
		return nil, ErrMalformedKey
	}
	var curveOID asn1.ObjectIdentifier
	if _, err := asn1.Unmarshal(spki.Algorithm.Parameters.FullBytes, &curveOID); err != nil {
		return nil, ErrMalformedKey
	}
	if !curveOID.Equal(secp256k1OID) {
		return nil, ErrUnsupportedAlgorithm
	}
	pub, err := secp256k1.ParsePubKey(spki.PublicKey.RightAlign())
	if err != nil {
		return nil, ErrMalformedKey
	}
	return pub.SerializeCompressed(), nil
}

func secp256k1Generate(pool *sensitive.Pool) (KeyPair, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return KeyPair{}, err
	}
	defer priv.Zero()

	privBuf, err := pool.Rent(sensitive.Secp256k1PrivateKey, 32)
	if err != nil {
		return KeyPair{}, err
	}
	scalar := priv.Serialize()
	if err := privBuf.WithBytes(func(b []byte) { copy(b, scalar[:]) }); err != nil {
		privBuf.Release()
		return KeyPair{}, err
	}

	compressed := priv.PubKey().SerializeCompressed()
	pubBuf, err := pool.Rent(sensitive.Secp256k1PublicKey, len(compressed))
	if err != nil {
		privBuf.Release()
		return KeyPair{}, err
	}
	if err := pubBuf.WithBytes(func(b []byte) { copy(b, compressed) }); err != nil {
		privBuf.Release()
		pubBuf.Release()
		return KeyPair{}, err
	}

	return KeyPair{PublicKey: pubBuf, PrivateKey: privBuf}, nil
}

func secp256k1Sign(priv *sensitive.SecretBuffer, data []byte) ([]byte, error) {
	var raw []byte
	err := priv.WithBytes(func(b []byte) {
		key := secp256k1.PrivKeyFromBytes(b)
		defer key.Zero()
		hashed := sha256.Sum256(data)
		sig := dcrecdsa.Sign(key, hashed[:])
		rBytes := sig.R().Bytes()
		sBytes := sig.S().Bytes()
		raw = make([]byte, 64)
		copy(raw[:32], rBytes[:])
		copy(raw[32:], sBytes[:])
	})
	return raw, err
}

func secp256k1Verify(pub []byte, data, sig []byte) (bool, error) {
	key, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return false, ErrMalformedKey
	}
	if len(sig) != 64 {
		return false, ErrMalformedSignature
	}
	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(sig[:32]); overflow {
		return false, ErrMalformedSignature
	}
	if overflow := s.SetByteSlice(sig[32:]); overflow {
		return false, ErrMalformedSignature
	}
	parsed := dcrecdsa.NewSignature(&r, &s)
	hashed := sha256.Sum256(data)
	return parsed.Verify(hashed[:], key), nil
}
