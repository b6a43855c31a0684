package keymaterial

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"math/big"

	"vccore/pkg/sensitive"
)

// rsaGenerate generates an RSA key of the given modulus size and rents a
// SecretBuffer for each half. The private half is stored as PKCS#1 DER,
// whose length varies by a few bytes depending on the CRT components'
// leading zero bytes, which is why Rsa*PrivateKey has no entry in
// canonicalLengths. The public half is stored as the raw modulus, whose
// length is fixed by the key size; RsaEncode produces the DER envelope
// on demand.
func rsaGenerate(bits int, pubTag, privTag sensitive.Tag, pool *sensitive.Pool) (KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return KeyPair{}, err
	}

	der := x509.MarshalPKCS1PrivateKey(key)
	privBuf, err := pool.Rent(privTag, len(der))
	if err != nil {
		return KeyPair{}, err
	}
	if err := privBuf.WithBytes(func(b []byte) { copy(b, der) }); err != nil {
		privBuf.Release()
		return KeyPair{}, err
	}

	modulus := key.PublicKey.N.Bytes()
	pubBuf, err := pool.Rent(pubTag, bits/8)
	if err != nil {
		privBuf.Release()
		return KeyPair{}, err
	}
	if err := pubBuf.WithBytes(func(b []byte) {
		copy(b[len(b)-len(modulus):], modulus)
	}); err != nil {
		privBuf.Release()
		pubBuf.Release()
		return KeyPair{}, err
	}

	return KeyPair{PublicKey: pubBuf, PrivateKey: privBuf}, nil
}

// RsaEncode builds a SubjectPublicKeyInfo DER envelope from the raw
// modulus bytes a Rsa2048PublicKey/Rsa4096PublicKey SecretBuffer holds,
// using the standard RSA public exponent 65537.
func RsaEncode(modulus []byte) ([]byte, error) {
	pub := &rsa.PublicKey{
		N: new(big.Int).SetBytes(modulus),
		E: 65537,
	}
	return x509.MarshalPKIXPublicKey(pub)
}

func rsaSign(priv *sensitive.SecretBuffer, data []byte) ([]byte, error) {
	var sig []byte
	var signErr error
	err := priv.WithBytes(func(b []byte) {
		key, e := x509.ParsePKCS1PrivateKey(b)
		if e != nil {
			signErr = ErrMalformedKey
			return
		}
		hashed := sha256.Sum256(data)
		sig, signErr = rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, hashed[:])
	})
	if err != nil {
		return nil, err
	}
	return sig, signErr
}

func rsaVerify(modulus []byte, data, sig []byte) (bool, error) {
	pub := &rsa.PublicKey{N: new(big.Int).SetBytes(modulus), E: 65537}
	hashed := sha256.Sum256(data)
	err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, hashed[:], sig)
	if err != nil {
		return false, nil
	}
	return true, nil
}
