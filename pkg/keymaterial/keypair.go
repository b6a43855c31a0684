// Package keymaterial provides algorithm-indexed key generation and
// signature/key-agreement dispatch across classical and post-quantum
// algorithms, keyed by sensitive.Tag rather than per-algorithm free
// functions.
package keymaterial

import "vccore/pkg/sensitive"

// KeyPair is the aggregate (PublicKey, PrivateKey) produced by Generate.
// Both components are SecretBuffers in the canonical encoding for their
// tag.
type KeyPair struct {
	PublicKey  *sensitive.SecretBuffer
	PrivateKey *sensitive.SecretBuffer
}

// Release releases both halves of the pair. Safe to call even if one half
// has already been taken/released.
func (k KeyPair) Release() {
	if k.PublicKey != nil {
		k.PublicKey.Release()
	}
	if k.PrivateKey != nil {
		k.PrivateKey.Release()
	}
}

// family groups tags that participate in the same algorithm so dispatch
// tables can validate a private/public tag pair belongs together.
type family int

const (
	familyP256 family = iota
	familyP384
	familyP521
	familySecp256k1
	familyEd25519
	familyX25519
	familyRsa2048
	familyRsa4096
	familyMlDsa44
	familyMlDsa65
	familyMlDsa87
	familyMlKem512
	familyMlKem768
	familyMlKem1024
)

var tagFamily = map[sensitive.Tag]family{
	sensitive.P256PublicKey:       familyP256,
	sensitive.P256PrivateKey:      familyP256,
	sensitive.P384PublicKey:       familyP384,
	sensitive.P384PrivateKey:      familyP384,
	sensitive.P521PublicKey:       familyP521,
	sensitive.P521PrivateKey:      familyP521,
	sensitive.Secp256k1PublicKey:  familySecp256k1,
	sensitive.Secp256k1PrivateKey: familySecp256k1,
	sensitive.Ed25519PublicKey:    familyEd25519,
	sensitive.Ed25519PrivateKey:   familyEd25519,
	sensitive.X25519PublicKey:     familyX25519,
	sensitive.X25519PrivateKey:    familyX25519,
	sensitive.Rsa2048PublicKey:    familyRsa2048,
	sensitive.Rsa2048PrivateKey:   familyRsa2048,
	sensitive.Rsa4096PublicKey:    familyRsa4096,
	sensitive.Rsa4096PrivateKey:   familyRsa4096,
	sensitive.MlDsa44PublicKey:    familyMlDsa44,
	sensitive.MlDsa44PrivateKey:   familyMlDsa44,
	sensitive.MlDsa65PublicKey:    familyMlDsa65,
	sensitive.MlDsa65PrivateKey:   familyMlDsa65,
	sensitive.MlDsa87PublicKey:    familyMlDsa87,
	sensitive.MlDsa87PrivateKey:   familyMlDsa87,
	sensitive.MlKem512PublicKey:   familyMlKem512,
	sensitive.MlKem512PrivateKey:  familyMlKem512,
	sensitive.MlKem768PublicKey:   familyMlKem768,
	sensitive.MlKem768PrivateKey:  familyMlKem768,
	sensitive.MlKem1024PublicKey:  familyMlKem1024,
	sensitive.MlKem1024PrivateKey: familyMlKem1024,
}

func sameFamily(a, b sensitive.Tag) bool {
	fa, ok1 := tagFamily[a]
	fb, ok2 := tagFamily[b]
	return ok1 && ok2 && fa == fb
}

// privateToPublicTag maps each private-key tag to its counterpart public
// tag, used by Generate to rent both halves of a KeyPair from a single
// private-key tag argument.
var privateToPublicTag = map[sensitive.Tag]sensitive.Tag{
	sensitive.P256PrivateKey:      sensitive.P256PublicKey,
	sensitive.P384PrivateKey:      sensitive.P384PublicKey,
	sensitive.P521PrivateKey:      sensitive.P521PublicKey,
	sensitive.Secp256k1PrivateKey: sensitive.Secp256k1PublicKey,
	sensitive.Ed25519PrivateKey:   sensitive.Ed25519PublicKey,
	sensitive.X25519PrivateKey:    sensitive.X25519PublicKey,
	sensitive.Rsa2048PrivateKey:   sensitive.Rsa2048PublicKey,
	sensitive.Rsa4096PrivateKey:   sensitive.Rsa4096PublicKey,
	sensitive.MlDsa44PrivateKey:   sensitive.MlDsa44PublicKey,
	sensitive.MlDsa65PrivateKey:   sensitive.MlDsa65PublicKey,
	sensitive.MlDsa87PrivateKey:   sensitive.MlDsa87PublicKey,
	sensitive.MlKem512PrivateKey:  sensitive.MlKem512PublicKey,
	sensitive.MlKem768PrivateKey:  sensitive.MlKem768PublicKey,
	sensitive.MlKem1024PrivateKey: sensitive.MlKem1024PublicKey,
}

// signatureTagFor maps each private-key tag that signs to the tag its
// signature output carries.
var signatureTagFor = map[sensitive.Tag]sensitive.Tag{
	sensitive.P256PrivateKey:      sensitive.EcdsaP256Signature,
	sensitive.P384PrivateKey:      sensitive.EcdsaP384Signature,
	sensitive.P521PrivateKey:      sensitive.EcdsaP521Signature,
	sensitive.Secp256k1PrivateKey: sensitive.Secp256k1Signature,
	sensitive.Ed25519PrivateKey:   sensitive.Ed25519Signature,
	sensitive.MlDsa44PrivateKey:   sensitive.MlDsa44Signature,
	sensitive.MlDsa65PrivateKey:   sensitive.MlDsa65Signature,
	sensitive.MlDsa87PrivateKey:   sensitive.MlDsa87Signature,
}
