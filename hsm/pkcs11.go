//go:build pkcs11

package hsm

import (
	"crypto"
	"crypto/elliptic"
	"fmt"
	"math/big"

	"github.com/miekg/pkcs11"

	"vccore/pkg/sensitive"
)

// PKCS11Config names the HSM module, slot, and key this backend binds to.
type PKCS11Config struct {
	ModulePath string
	SlotID     uint
	PIN        string
	KeyLabel   string
}

// PKCS11Backend implements Backend against a PKCS#11 token, for keys
// that never leave hardware. It supports the EC and RSA tag families;
// Ed25519/X25519/secp256k1/ML-DSA/ML-KEM keys are software-only in this
// module (no mechanism for them exists in the retrieved example's
// PKCS#11 usage, and PKCS#11 v2.40's CKM_EDDSA support is not assumed
// present on arbitrary tokens).
type PKCS11Backend struct {
	ctx        *pkcs11.Ctx
	session    pkcs11.SessionHandle
	privateKey pkcs11.ObjectHandle
	tag        sensitive.Tag
	curve      elliptic.Curve // nil for RSA tags
	keyType    uint
	pubBytes   []byte
	keyID      string
}

// NewPKCS11Backend opens a session against config and binds tag to the
// private key labeled config.KeyLabel. For an RSA key it checks that tag
// is an RSA public-key tag before returning; an EC key's curve is not
// checked against tag.
func NewPKCS11Backend(config *PKCS11Config, tag sensitive.Tag) (*PKCS11Backend, error) {
	ctx := pkcs11.New(config.ModulePath)
	if ctx == nil {
		return nil, fmt.Errorf("hsm: failed to load PKCS#11 module: %s", config.ModulePath)
	}
	if err := ctx.Initialize(); err != nil {
		return nil, fmt.Errorf("hsm: failed to initialize PKCS#11: %w", err)
	}

	session, err := ctx.OpenSession(config.SlotID, pkcs11.CKF_SERIAL_SESSION)
	if err != nil {
		ctx.Finalize()
		return nil, fmt.Errorf("hsm: failed to open session: %w", err)
	}
	if err := ctx.Login(session, pkcs11.CKU_USER, config.PIN); err != nil {
		ctx.CloseSession(session)
		ctx.Finalize()
		return nil, fmt.Errorf("hsm: failed to login: %w", err)
	}

	b := &PKCS11Backend{ctx: ctx, session: session, tag: tag, keyID: config.KeyLabel}
	if err := b.findKey(config.KeyLabel); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// KeyID returns the PKCS#11 key label this backend was bound to.
func (b *PKCS11Backend) KeyID() string {
	return b.keyID
}

func (b *PKCS11Backend) findKey(label string) error {
	template := []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_CLASS, pkcs11.CKO_PRIVATE_KEY),
		pkcs11.NewAttribute(pkcs11.CKA_LABEL, label),
	}
	if err := b.ctx.FindObjectsInit(b.session, template); err != nil {
		return fmt.Errorf("hsm: failed to init find objects: %w", err)
	}
	objs, _, err := b.ctx.FindObjects(b.session, 1)
	if err != nil {
		b.ctx.FindObjectsFinal(b.session)
		return fmt.Errorf("hsm: failed to find objects: %w", err)
	}
	if err := b.ctx.FindObjectsFinal(b.session); err != nil {
		return fmt.Errorf("hsm: failed to finalize find objects: %w", err)
	}
	if len(objs) == 0 {
		return ErrKeyNotFound
	}
	b.privateKey = objs[0]

	attrs, err := b.ctx.GetAttributeValue(b.session, b.privateKey, []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_KEY_TYPE, nil),
	})
	if err != nil {
		return fmt.Errorf("hsm: failed to get key type: %w", err)
	}
	b.keyType = bytesToUint(attrs[0].Value)

	return b.extractPublicKey(label)
}

func (b *PKCS11Backend) extractPublicKey(label string) error {
	template := []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_CLASS, pkcs11.CKO_PUBLIC_KEY),
		pkcs11.NewAttribute(pkcs11.CKA_LABEL, label),
	}
	if err := b.ctx.FindObjectsInit(b.session, template); err != nil {
		return fmt.Errorf("hsm: failed to init find public key: %w", err)
	}
	objs, _, err := b.ctx.FindObjects(b.session, 1)
	if err != nil {
		b.ctx.FindObjectsFinal(b.session)
		return fmt.Errorf("hsm: failed to find public key: %w", err)
	}
	if err := b.ctx.FindObjectsFinal(b.session); err != nil {
		return fmt.Errorf("hsm: failed to finalize find public key: %w", err)
	}
	if len(objs) == 0 {
		return ErrKeyNotFound
	}

	switch b.keyType {
	case pkcs11.CKK_RSA:
		return b.extractRSAPublicKey(objs[0])
	case pkcs11.CKK_EC:
		return b.extractECPublicKey(objs[0])
	default:
		return fmt.Errorf("hsm: unsupported PKCS#11 key type: %d", b.keyType)
	}
}

func (b *PKCS11Backend) extractRSAPublicKey(handle pkcs11.ObjectHandle) error {
	attrs, err := b.ctx.GetAttributeValue(b.session, handle, []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_MODULUS, nil),
	})
	if err != nil {
		return fmt.Errorf("hsm: failed to get RSA modulus: %w", err)
	}
	modulus := attrs[0].Value
	want, ok := b.tag.CanonicalLength()
	if !ok || (b.tag != sensitive.Rsa2048PublicKey && b.tag != sensitive.Rsa4096PublicKey) {
		return fmt.Errorf("hsm: tag %v is not an RSA public-key tag", b.tag)
	}
	out := make([]byte, want)
	copy(out[want-len(modulus):], modulus)
	b.pubBytes = out
	return nil
}

func (b *PKCS11Backend) extractECPublicKey(handle pkcs11.ObjectHandle) error {
	attrs, err := b.ctx.GetAttributeValue(b.session, handle, []*pkcs11.Attribute{
		pkcs11.NewAttribute(pkcs11.CKA_EC_PARAMS, nil),
		pkcs11.NewAttribute(pkcs11.CKA_EC_POINT, nil),
	})
	if err != nil {
		return fmt.Errorf("hsm: failed to get EC public key attributes: %w", err)
	}
	curve, err := parseCurveOID(attrs[0].Value)
	if err != nil {
		return err
	}
	b.curve = curve

	point := attrs[1].Value
	if len(point) > 2 && point[0] == 0x04 && point[1] == byte(len(point)-2) {
		point = point[2:]
	}
	if len(point) == 0 || point[0] != 0x04 {
		return fmt.Errorf("hsm: invalid EC point format")
	}
	keyLen := (curve.Params().BitSize + 7) / 8
	if len(point) != 1+2*keyLen {
		return fmt.Errorf("hsm: invalid EC point length")
	}
	x := new(big.Int).SetBytes(point[1 : 1+keyLen])
	y := new(big.Int).SetBytes(point[1+keyLen:])
	b.pubBytes = elliptic.MarshalCompressed(curve, x, y)
	return nil
}

func (b *PKCS11Backend) Sign(tag sensitive.Tag, data []byte) (*sensitive.SecretBuffer, error) {
	if tag != b.tag {
		return nil, ErrTagMismatch
	}

	var mechanism *pkcs11.Mechanism
	var hash crypto.Hash
	switch b.keyType {
	case pkcs11.CKK_RSA:
		mechanism, hash = b.rsaMechanism()
	case pkcs11.CKK_EC:
		mechanism, hash = b.ecdsaMechanism()
	default:
		return nil, fmt.Errorf("hsm: unsupported PKCS#11 key type: %d", b.keyType)
	}

	h := hash.New()
	h.Write(data)
	hashed := h.Sum(nil)

	if err := b.ctx.SignInit(b.session, []*pkcs11.Mechanism{mechanism}, b.privateKey); err != nil {
		return nil, fmt.Errorf("hsm: failed to init sign: %w", err)
	}
	sig, err := b.ctx.Sign(b.session, hashed)
	if err != nil {
		return nil, fmt.Errorf("hsm: sign failed: %w", err)
	}

	pool := sensitive.DefaultPool()
	buf := pool.RentUntagged(len(sig))
	if err := buf.WithBytes(func(out []byte) { copy(out, sig) }); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}

func (b *PKCS11Backend) PublicKey(tag sensitive.Tag) ([]byte, error) {
	if tag != b.tag {
		return nil, ErrTagMismatch
	}
	return b.pubBytes, nil
}

func (b *PKCS11Backend) Close() error {
	if b.ctx != nil {
		b.ctx.Logout(b.session)
		b.ctx.CloseSession(b.session)
		b.ctx.Finalize()
	}
	return nil
}

func (b *PKCS11Backend) rsaMechanism() (*pkcs11.Mechanism, crypto.Hash) {
	if b.tag == sensitive.Rsa4096PublicKey {
		return pkcs11.NewMechanism(pkcs11.CKM_SHA512_RSA_PKCS, nil), crypto.SHA512
	}
	return pkcs11.NewMechanism(pkcs11.CKM_SHA256_RSA_PKCS, nil), crypto.SHA256
}

func (b *PKCS11Backend) ecdsaMechanism() (*pkcs11.Mechanism, crypto.Hash) {
	switch b.curve.Params().BitSize {
	case 384:
		return pkcs11.NewMechanism(pkcs11.CKM_ECDSA, nil), crypto.SHA384
	case 521:
		return pkcs11.NewMechanism(pkcs11.CKM_ECDSA, nil), crypto.SHA512
	default:
		return pkcs11.NewMechanism(pkcs11.CKM_ECDSA, nil), crypto.SHA256
	}
}

func bytesToUint(b []byte) uint {
	var result uint
	for _, v := range b {
		result = result<<8 | uint(v)
	}
	return result
}

func parseCurveOID(oid []byte) (elliptic.Curve, error) {
	p256OID := []byte{0x06, 0x08, 0x2a, 0x86, 0x48, 0xce, 0x3d, 0x03, 0x01, 0x07}
	p384OID := []byte{0x06, 0x05, 0x2b, 0x81, 0x04, 0x00, 0x22}
	p521OID := []byte{0x06, 0x05, 0x2b, 0x81, 0x04, 0x00, 0x23}

	switch {
	case bytesEqual(oid, p256OID):
		return elliptic.P256(), nil
	case bytesEqual(oid, p384OID):
		return elliptic.P384(), nil
	case bytesEqual(oid, p521OID):
		return elliptic.P521(), nil
	default:
		return nil, fmt.Errorf("hsm: unsupported curve OID: %x", oid)
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
