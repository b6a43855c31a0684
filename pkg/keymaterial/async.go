package keymaterial

import "vccore/pkg/sensitive"

// SignResult carries the outcome of an asynchronous signing call.
type SignResult struct {
	Signature *sensitive.SecretBuffer
	Err       error
}

// signAsync runs sign in its own goroutine and reports the outcome on
// the returned channel. The HSM backends this module eventually wires in
// (pkcs11 sessions in particular) are not meaningfully concurrent
// underneath, so the async entry points exist for API parity with
// callers that already assume a non-blocking signing call, not for
// genuine fan-out: each call gets its own goroutine rather than a shared
// worker pool.
func signAsync(sign func() (*sensitive.SecretBuffer, error)) <-chan SignResult {
	out := make(chan SignResult, 1)
	go func() {
		sig, err := sign()
		out <- SignResult{Signature: sig, Err: err}
	}()
	return out
}

// SignP256Async signs data asynchronously with an ECDSA P-256 private key.
func SignP256Async(priv *sensitive.SecretBuffer, data []byte, pool *sensitive.Pool) <-chan SignResult {
	return signAsync(func() (*sensitive.SecretBuffer, error) {
		return Sign(sensitive.P256PrivateKey, priv, data, pool)
	})
}

// SignP384Async signs data asynchronously with an ECDSA P-384 private key.
func SignP384Async(priv *sensitive.SecretBuffer, data []byte, pool *sensitive.Pool) <-chan SignResult {
	return signAsync(func() (*sensitive.SecretBuffer, error) {
		return Sign(sensitive.P384PrivateKey, priv, data, pool)
	})
}

// SignP521Async signs data asynchronously with an ECDSA P-521 private key.
func SignP521Async(priv *sensitive.SecretBuffer, data []byte, pool *sensitive.Pool) <-chan SignResult {
	return signAsync(func() (*sensitive.SecretBuffer, error) {
		return Sign(sensitive.P521PrivateKey, priv, data, pool)
	})
}

// SignSecp256k1Async signs data asynchronously with a secp256k1 private key.
func SignSecp256k1Async(priv *sensitive.SecretBuffer, data []byte, pool *sensitive.Pool) <-chan SignResult {
	return signAsync(func() (*sensitive.SecretBuffer, error) {
		return Sign(sensitive.Secp256k1PrivateKey, priv, data, pool)
	})
}
