package keymaterial

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509/pkix"
	"encoding/asn1"
	"math/big"

	"vccore/pkg/sensitive"
)

// ecPublicKeyOID is the AlgorithmIdentifier.Algorithm for id-ecPublicKey
// (RFC 5480). The dispatch below never delegates to an auto-detecting
// public-key factory; it checks this OID and resolves the curve from the
// AlgorithmIdentifier.Parameters OID explicitly, per spec.md §4.2.
var ecPublicKeyOID = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}

var curveOIDs = map[string]asn1.ObjectIdentifier{
	"P-256": {1, 2, 840, 10045, 3, 1, 7},
	"P-384": {1, 3, 132, 0, 34},
	"P-521": {1, 3, 132, 0, 35},
}

func curveByOID(oid asn1.ObjectIdentifier) (elliptic.Curve, bool) {
	for name, candidate := range curveOIDs {
		if candidate.Equal(oid) {
			switch name {
			case "P-256":
				return elliptic.P256(), true
			case "P-384":
				return elliptic.P384(), true
			case "P-521":
				return elliptic.P521(), true
			}
		}
	}
	return nil, false
}

// fieldByteLen returns ceil(field_bits/8) for curve, e.g. 66 for P-521.
func fieldByteLen(curve elliptic.Curve) int {
	return (curve.Params().BitSize + 7) / 8
}

type subjectPublicKeyInfo struct {
	Algorithm pkix.AlgorithmIdentifier
	PublicKey asn1.BitString
}

// encodeSPKI builds a SubjectPublicKeyInfo DER blob carrying an
// uncompressed EC point, per X.509.
func encodeSPKI(curve elliptic.Curve, x, y *big.Int) ([]byte, error) {
	oid, ok := curveOIDForCurve(curve)
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}
	point := elliptic.Marshal(curve, x, y)
	spki := subjectPublicKeyInfo{
		Algorithm: pkix.AlgorithmIdentifier{
			Algorithm:  ecPublicKeyOID,
			Parameters: asn1.RawValue{FullBytes: mustMarshalOID(oid)},
		},
		PublicKey: asn1.BitString{Bytes: point, BitLength: len(point) * 8},
	}
	return asn1.Marshal(spki)
}

func curveOIDForCurve(curve elliptic.Curve) (asn1.ObjectIdentifier, bool) {
	name := curve.Params().Name
	oid, ok := curveOIDs[name]
	return oid, ok
}

func mustMarshalOID(oid asn1.ObjectIdentifier) []byte {
	b, err := asn1.Marshal(oid)
	if err != nil {
		panic(err)
	}
	return b
}

// decodeSPKI parses a SubjectPublicKeyInfo DER blob, explicitly checking
// the algorithm OID and resolving the curve from the named-curve
// parameters OID, and decodes the subjectPublicKey BIT STRING as an
// uncompressed or compressed EC point on that curve.
func decodeSPKI(der []byte) (*ecdsa.PublicKey, error) {
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
	curve, ok := curveByOID(curveOID)
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}

	point := spki.PublicKey.RightAlign()
	x, y := elliptic.Unmarshal(curve, point)
	if x == nil {
		x, y = elliptic.UnmarshalCompressed(curve, point)
	}
	if x == nil {
		return nil, ErrMalformedKey
	}
	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}

// rawToDER converts a raw r||s signature of length 2*fieldByteLen(curve)
// into an ASN.1 DER SEQUENCE{ INTEGER r, INTEGER s }, both unsigned.
func rawToDER(curve elliptic.Curve, raw []byte) ([]byte, error) {
	n := fieldByteLen(curve)
	if len(raw) != 2*n {
		return nil, ErrMalformedSignature
	}
	r := new(big.Int).SetBytes(raw[:n])
	s := new(big.Int).SetBytes(raw[n:])
	return asn1.Marshal(struct {
		R, S *big.Int
	}{r, s})
}

// derToRaw converts an ASN.1 DER ECDSA signature to raw r||s, zero-padded
// to 2*fieldByteLen(curve).
func derToRaw(curve elliptic.Curve, der []byte) ([]byte, error) {
	var sig struct {
		R, S *big.Int
	}
	rest, err := asn1.Unmarshal(der, &sig)
	if err != nil || len(rest) != 0 {
		return nil, ErrMalformedSignature
	}
	n := fieldByteLen(curve)
	out := make([]byte, 2*n)
	rb := sig.R.Bytes()
	sb := sig.S.Bytes()
	copy(out[n-len(rb):n], rb)
	copy(out[2*n-len(sb):], sb)
	return out, nil
}

// normalizeECDSASignature implements spec.md §4.2's "DER normalization":
// a signature whose length equals 2*ceil(field_bits/8) is raw and gets
// wrapped into DER; any other length is assumed to already be DER and is
// passed through unchanged.
func normalizeECDSASignature(curve elliptic.Curve, sig []byte) ([]byte, error) {
	if len(sig) == 2*fieldByteLen(curve) {
		return rawToDER(curve, sig)
	}
	return sig, nil
}

func ecdsaGenerate(curve elliptic.Curve, pubTag, privTag sensitive.Tag, pool *sensitive.Pool) (KeyPair, error) {
	priv, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return KeyPair{}, err
	}

	n := fieldByteLen(curve)
	dBytes := priv.D.Bytes()
	privBuf, err := pool.Rent(privTag, n)
	if err != nil {
		return KeyPair{}, err
	}
	if err := privBuf.WithBytes(func(b []byte) {
		copy(b[n-len(dBytes):], dBytes)
	}); err != nil {
		return KeyPair{}, err
	}

	compressed := elliptic.MarshalCompressed(curve, priv.PublicKey.X, priv.PublicKey.Y)
	pubBuf, err := pool.Rent(pubTag, len(compressed))
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

// hashForCurve digests data with the hash whose output size matches the
// curve's strength, per FIPS 186-5 (SHA-256 for P-256, SHA-384 for
// P-384, SHA-512 for P-521).
func hashForCurve(curve elliptic.Curve, data []byte) []byte {
	switch curve.Params().BitSize {
	case 256:
		h := sha256.Sum256(data)
		return h[:]
	case 384:
		h := sha512.Sum384(data)
		return h[:]
	default:
		h := sha512.Sum512(data)
		return h[:]
	}
}

// ecdsaSign signs data with priv (a raw, zero-padded scalar of length
// fieldByteLen(curve)) and returns a raw r||s signature, zero-padded to
// 2*fieldByteLen(curve).
func ecdsaSign(curve elliptic.Curve, priv *sensitive.SecretBuffer, data []byte) ([]byte, error) {
	var raw []byte
	err := priv.WithBytes(func(b []byte) {
		d := new(big.Int).SetBytes(b)
		key := &ecdsa.PrivateKey{
			PublicKey: ecdsa.PublicKey{Curve: curve},
			D:         d,
		}
		key.PublicKey.X, key.PublicKey.Y = curve.ScalarBaseMult(d.Bytes())
		hashed := hashForCurve(curve, data)
		r, s, e := ecdsa.Sign(rand.Reader, key, hashed)
		if e != nil {
			return
		}
		n := fieldByteLen(curve)
		raw = make([]byte, 2*n)
		rb := r.Bytes()
		sb := s.Bytes()
		copy(raw[n-len(rb):n], rb)
		copy(raw[2*n-len(sb):], sb)
	})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrMalformedKey
	}
	return raw, nil
}

// ecdsaVerify checks sig (raw r||s or DER, see normalizeECDSASignature)
// against data using the SubjectPublicKeyInfo DER envelope spki, per
// spec.md scenario 1 (verify against "the generated SubjectPublicKeyInfo
// encoding of the public point"). decodeSPKI does the anti-downgrade
// OID check; curve is cross-checked against the tag the caller expected.
func ecdsaVerify(curve elliptic.Curve, spki []byte, data, sig []byte) (bool, error) {
	key, err := decodeSPKI(spki)
	if err != nil {
		return false, err
	}
	if key.Curve.Params().Name != curve.Params().Name {
		return false, ErrTagMismatch
	}
	der, err := normalizeECDSASignature(curve, sig)
	if err != nil {
		return false, err
	}
	var parsed struct{ R, S *big.Int }
	rest, err := asn1.Unmarshal(der, &parsed)
	if err != nil || len(rest) != 0 {
		return false, ErrMalformedSignature
	}
	hashed := hashForCurve(curve, data)
	return ecdsa.Verify(key, hashed, parsed.R, parsed.S), nil
}

// EncodeSPKI builds a SubjectPublicKeyInfo DER envelope from the
// compressed EC point bytes a
// P256PublicKey/P384PublicKey/P521PublicKey/Secp256k1PublicKey
// SecretBuffer holds. secp256k1 has no crypto/elliptic implementation to
// build the envelope from, so it is encoded via secp256k1EncodeSPKI
// instead, using the same id-ecPublicKey AlgorithmIdentifier shape with
// secp256k1OID as the curve parameter.
func EncodeSPKI(publicTag sensitive.Tag, compressed []byte) ([]byte, error) {
	if publicTag == sensitive.Secp256k1PublicKey {
		return secp256k1EncodeSPKI(compressed)
	}
	curve, ok := curveForTag(publicTag)
	if !ok {
		return nil, ErrUnsupportedAlgorithm
	}
	x, y := elliptic.UnmarshalCompressed(curve, compressed)
	if x == nil {
		return nil, ErrMalformedKey
	}
	return encodeSPKI(curve, x, y)
}

// DecodeSPKI parses a SubjectPublicKeyInfo DER envelope and returns the
// public-key tag it identifies along with the compressed point bytes in
// the pool's canonical encoding for that tag. decodeSPKI only recognizes
// the P-256/384/521 curve OIDs, returning ErrUnsupportedAlgorithm for any
// other named curve; on that outcome DecodeSPKI retries the envelope as a
// secp256k1 SPKI before giving up.
func DecodeSPKI(der []byte) (sensitive.Tag, []byte, error) {
	key, err := decodeSPKI(der)
	if err == ErrUnsupportedAlgorithm {
		if compressed, serr := secp256k1DecodeSPKI(der); serr == nil {
			return sensitive.Secp256k1PublicKey, compressed, nil
		}
	}
	if err != nil {
		return 0, nil, err
	}
	var tag sensitive.Tag
	switch key.Curve.Params().Name {
	case "P-256":
		tag = sensitive.P256PublicKey
	case "P-384":
		tag = sensitive.P384PublicKey
	case "P-521":
		tag = sensitive.P521PublicKey
	default:
		return 0, nil, ErrUnsupportedAlgorithm
	}
	return tag, elliptic.MarshalCompressed(key.Curve, key.X, key.Y), nil
}
