package sensitive

// Tag names an algorithm and a key/signature/secret role. It is a closed
// enumeration: dispatch tables throughout keymaterial and hsm are keyed by
// Tag, never by a free-form string, so that an operation can reject a key
// of the wrong role before touching cryptographic primitives.
type Tag int

const (
	TagUnspecified Tag = iota

	P256PublicKey
	P256PrivateKey
	P384PublicKey
	P384PrivateKey
	P521PublicKey
	P521PrivateKey
	Secp256k1PublicKey
	Secp256k1PrivateKey

	EcdsaP256Signature
	EcdsaP384Signature
	EcdsaP521Signature
	Secp256k1Signature

	Ed25519PublicKey
	Ed25519PrivateKey
	Ed25519Signature

	X25519PublicKey
	X25519PrivateKey
	X25519SharedSecret

	Rsa2048PublicKey
	Rsa2048PrivateKey
	Rsa4096PublicKey
	Rsa4096PrivateKey

	MlDsa44PublicKey
	MlDsa44PrivateKey
	MlDsa44Signature
	MlDsa65PublicKey
	MlDsa65PrivateKey
	MlDsa65Signature
	MlDsa87PublicKey
	MlDsa87PrivateKey
	MlDsa87Signature

	MlKem512PublicKey
	MlKem512PrivateKey
	MlKem512Ciphertext
	MlKem768PublicKey
	MlKem768PrivateKey
	MlKem768Ciphertext
	MlKem1024PublicKey
	MlKem1024PrivateKey
	MlKem1024Ciphertext
	MlKemSharedSecret

	// WindowsPlatformEncrypted tags the ciphertext produced by
	// PlatformEncryptedSecret's software protector. The name is kept for
	// interop with callers that expect a platform-DPAPI-shaped tag even
	// though the protector in this module is portable, not Windows-only.
	WindowsPlatformEncrypted
)

var canonicalLengths = map[Tag]int{
	P256PublicKey:       33,
	P256PrivateKey:      32,
	P384PublicKey:       49,
	P384PrivateKey:      48,
	P521PublicKey:       67,
	P521PrivateKey:      66,
	Secp256k1PublicKey:  33,
	Secp256k1PrivateKey: 32,

	EcdsaP256Signature: 64,
	EcdsaP384Signature: 96,
	EcdsaP521Signature: 132,
	Secp256k1Signature: 64,

	Ed25519PublicKey:  32,
	Ed25519PrivateKey: 32,
	Ed25519Signature:  64,

	X25519PublicKey:    32,
	X25519PrivateKey:   32,
	X25519SharedSecret: 32,

	// Raw modulus bytes; the DER/DID-compatible envelope is produced on
	// demand by keymaterial.RsaEncode and is not what the pool owns.
	Rsa2048PublicKey: 256,
	Rsa4096PublicKey: 512,

	MlDsa44PublicKey:  1312,
	MlDsa44PrivateKey: 2560,
	MlDsa44Signature:  2420,
	MlDsa65PublicKey:  1952,
	MlDsa65PrivateKey: 4032,
	MlDsa65Signature:  3309,
	MlDsa87PublicKey:  2592,
	MlDsa87PrivateKey: 4896,
	MlDsa87Signature:  4627,

	MlKem512PublicKey:   800,
	MlKem512PrivateKey:  1632,
	MlKem512Ciphertext:  768,
	MlKem768PublicKey:   1184,
	MlKem768PrivateKey:  2400,
	MlKem768Ciphertext:  1088,
	MlKem1024PublicKey:  1568,
	MlKem1024PrivateKey: 3168,
	MlKem1024Ciphertext: 1568,
	MlKemSharedSecret:   32,
}

// CanonicalLength returns the fixed natural encoding length for tag and
// whether tag has one. Rsa*PrivateKey (variable-length PKCS#1 DER) and
// WindowsPlatformEncrypted (ciphertext grows with nonce/tag overhead) are
// the only tags without a fixed length; every other tag's SecretBuffer
// length is checked against this table at construction time.
func (t Tag) CanonicalLength() (int, bool) {
	n, ok := canonicalLengths[t]
	return n, ok
}

var tagNames = map[Tag]string{
	TagUnspecified:           "Unspecified",
	P256PublicKey:            "P256PublicKey",
	P256PrivateKey:           "P256PrivateKey",
	P384PublicKey:            "P384PublicKey",
	P384PrivateKey:           "P384PrivateKey",
	P521PublicKey:            "P521PublicKey",
	P521PrivateKey:           "P521PrivateKey",
	Secp256k1PublicKey:       "Secp256k1PublicKey",
	Secp256k1PrivateKey:      "Secp256k1PrivateKey",
	EcdsaP256Signature:       "EcdsaP256Signature",
	EcdsaP384Signature:       "EcdsaP384Signature",
	EcdsaP521Signature:       "EcdsaP521Signature",
	Secp256k1Signature:       "Secp256k1Signature",
	Ed25519PublicKey:         "Ed25519PublicKey",
	Ed25519PrivateKey:        "Ed25519PrivateKey",
	Ed25519Signature:         "Ed25519Signature",
	X25519PublicKey:          "X25519PublicKey",
	X25519PrivateKey:         "X25519PrivateKey",
	X25519SharedSecret:       "X25519SharedSecret",
	Rsa2048PublicKey:         "Rsa2048PublicKey",
	Rsa2048PrivateKey:        "Rsa2048PrivateKey",
	Rsa4096PublicKey:         "Rsa4096PublicKey",
	Rsa4096PrivateKey:        "Rsa4096PrivateKey",
	MlDsa44PublicKey:         "MlDsa44PublicKey",
	MlDsa44PrivateKey:        "MlDsa44PrivateKey",
	MlDsa44Signature:         "MlDsa44Signature",
	MlDsa65PublicKey:         "MlDsa65PublicKey",
	MlDsa65PrivateKey:        "MlDsa65PrivateKey",
	MlDsa65Signature:         "MlDsa65Signature",
	MlDsa87PublicKey:         "MlDsa87PublicKey",
	MlDsa87PrivateKey:        "MlDsa87PrivateKey",
	MlDsa87Signature:         "MlDsa87Signature",
	MlKem512PublicKey:        "MlKem512PublicKey",
	MlKem512PrivateKey:       "MlKem512PrivateKey",
	MlKem512Ciphertext:       "MlKem512Ciphertext",
	MlKem768PublicKey:        "MlKem768PublicKey",
	MlKem768PrivateKey:       "MlKem768PrivateKey",
	MlKem768Ciphertext:       "MlKem768Ciphertext",
	MlKem1024PublicKey:       "MlKem1024PublicKey",
	MlKem1024PrivateKey:      "MlKem1024PrivateKey",
	MlKem1024Ciphertext:      "MlKem1024Ciphertext",
	MlKemSharedSecret:        "MlKemSharedSecret",
	WindowsPlatformEncrypted: "WindowsPlatformEncrypted",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "Tag(unknown)"
}
