package sensitive

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Protector is the platform-DPAPI-equivalent abstraction: something that
// can wrap and unwrap secret bytes using key material the process does
// not otherwise expose. softwareProtector is the portable implementation
// this module ships; a Windows DPAPI- or TPM-sealed-storage-backed
// Protector can be substituted without changing PlatformEncryptedSecret.
type Protector interface {
	Protect(plaintext []byte) (ciphertext []byte, err error)
	Unprotect(ciphertext []byte) (plaintext []byte, err error)
}

// softwareProtector derives an AES-256-GCM key from a process-local master
// secret via HKDF. It is the fallback "platform-backed" implementation for
// hosts without a DPAPI-equivalent available.
type softwareProtector struct {
	master *SecretBuffer
}

// NewSoftwareProtector rents a random 32-byte master secret from pool and
// returns a Protector built on it. The master secret lives for the
// lifetime of the returned Protector and is zeroized when Close is called.
func NewSoftwareProtector(pool *Pool) (*softwareProtector, error) {
	master := pool.RentUntagged(32)
	if err := master.WithBytes(func(b []byte) {
		_, _ = io.ReadFull(rand.Reader, b)
	}); err != nil {
		return nil, err
	}
	return &softwareProtector{master: master}, nil
}

// Close zeroizes the master secret. After Close, Protect/Unprotect fail.
func (p *softwareProtector) Close() {
	p.master.Release()
}

func (p *softwareProtector) deriveKey(salt []byte) ([]byte, error) {
	var key []byte
	err := p.master.WithBytes(func(master []byte) {
		kdf := hkdf.New(sha256.New, master, salt, []byte("vccore/sensitive/platform-protector"))
		key = make([]byte, 32)
		if _, readErr := io.ReadFull(kdf, key); readErr != nil {
			key = nil
		}
	})
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, errors.New("sensitive: hkdf key derivation failed")
	}
	return key, nil
}

func (p *softwareProtector) Protect(plaintext []byte) ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	key, err := p.deriveKey(salt)
	if err != nil {
		return nil, err
	}
	defer zeroize(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(salt)+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, plaintext, nil)
	return out, nil
}

func (p *softwareProtector) Unprotect(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < 16+12 {
		return nil, errors.New("sensitive: ciphertext too short")
	}
	salt := ciphertext[:16]
	nonce := ciphertext[16:28]
	sealed := ciphertext[28:]

	key, err := p.deriveKey(salt)
	if err != nil {
		return nil, err
	}
	defer zeroize(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return gcm.Open(nil, nonce, sealed, nil)
}

// PlatformEncryptedSecret owns one encrypted SecretBuffer. Its scoped
// decrypt accessor decrypts into a transient SecretBuffer, passes it to
// the closure, and zeroizes it on every exit path; the encrypted form
// remains in place across the call.
type PlatformEncryptedSecret struct {
	encrypted *SecretBuffer
	protector Protector
	pool      *Pool
}

// Seal rents a WindowsPlatformEncrypted-tagged buffer holding
// protector.Protect(plaintext), and returns a PlatformEncryptedSecret
// owning it.
func Seal(pool *Pool, protector Protector, plaintext []byte) (*PlatformEncryptedSecret, error) {
	ciphertext, err := protector.Protect(plaintext)
	if err != nil {
		return nil, err
	}
	buf, err := pool.Rent(WindowsPlatformEncrypted, len(ciphertext))
	if err != nil {
		return nil, err
	}
	if werr := buf.WithBytes(func(b []byte) { copy(b, ciphertext) }); werr != nil {
		return nil, werr
	}
	zeroize(ciphertext)
	return &PlatformEncryptedSecret{encrypted: buf, protector: protector, pool: pool}, nil
}

// WithDecrypted decrypts the wrapped secret into a transient SecretBuffer,
// invokes fn with it, and releases (zeroizes) it before returning,
// regardless of whether fn panics or returns an error path out-of-band.
func (s *PlatformEncryptedSecret) WithDecrypted(tag Tag, fn func(*SecretBuffer)) error {
	var plaintext []byte
	var unprotectErr error
	err := s.encrypted.WithBytes(func(ciphertext []byte) {
		plaintext, unprotectErr = s.protector.Unprotect(ciphertext)
	})
	if err != nil {
		return err
	}
	if unprotectErr != nil {
		return unprotectErr
	}

	transient, err := s.pool.Rent(tag, len(plaintext))
	if err != nil {
		zeroize(plaintext)
		return err
	}
	if werr := transient.WithBytes(func(b []byte) { copy(b, plaintext) }); werr != nil {
		zeroize(plaintext)
		transient.Release()
		return werr
	}
	zeroize(plaintext)

	defer transient.Release()
	fn(transient)
	return nil
}

// Release zeroizes the encrypted form.
func (s *PlatformEncryptedSecret) Release() {
	s.encrypted.Release()
}
