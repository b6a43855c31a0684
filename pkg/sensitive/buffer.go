package sensitive

// SecretBuffer is the universal owned secret type: a contiguous byte
// region carrying a Tag, with exclusive (move-only) ownership. Destruction
// zeroizes the region before it is released back to the pool that rented
// it.
//
// SecretBuffer is not safe for concurrent use by multiple goroutines; the
// ownership discipline forbids aliasing in the first place.
type SecretBuffer struct {
	tag    Tag
	bytes  []byte
	pool   *Pool
	moved  bool
	zeroed bool
}

// newSecretBuffer is called only by Pool.Rent.
func newSecretBuffer(tag Tag, bytes []byte, pool *Pool) *SecretBuffer {
	return &SecretBuffer{tag: tag, bytes: bytes, pool: pool}
}

// Tag returns the buffer's algorithm/role tag.
func (b *SecretBuffer) Tag() Tag {
	return b.tag
}

// Len returns the buffer's length.
func (b *SecretBuffer) Len() int {
	return len(b.bytes)
}

// WithBytes provides a read-only view of the secret inside fn. The slice
// passed to fn must not be retained past the call; any copy fn makes must
// itself be zeroized by the caller before it goes out of scope.
func (b *SecretBuffer) WithBytes(fn func(b []byte)) error {
	if b.moved {
		return ErrUseAfterRelease
	}
	fn(b.bytes)
	return nil
}

// CopyOut returns a fresh copy of the secret bytes. Prefer WithBytes; use
// CopyOut only when the caller has its own zeroization discipline for the
// copy (e.g., handing bytes to an external crypto library that zeroizes
// its inputs after use).
func (b *SecretBuffer) CopyOut() ([]byte, error) {
	if b.moved {
		return nil, ErrUseAfterRelease
	}
	out := make([]byte, len(b.bytes))
	copy(out, b.bytes)
	return out, nil
}

// Take transfers ownership of the underlying bytes to the caller and marks
// b as moved; b can no longer be used after this call. The returned
// SecretBuffer is a new, independent owner of the same storage.
func (b *SecretBuffer) Take() (*SecretBuffer, error) {
	if b.moved {
		return nil, ErrUseAfterRelease
	}
	moved := &SecretBuffer{tag: b.tag, bytes: b.bytes, pool: b.pool}
	b.moved = true
	b.bytes = nil
	return moved, nil
}

// Release zeroizes the buffer and returns its storage to the owning pool.
// Release is idempotent: calling it more than once is a no-op.
func (b *SecretBuffer) Release() {
	if b.moved || b.zeroed {
		return
	}
	zeroize(b.bytes)
	b.zeroed = true
	if b.pool != nil {
		b.pool.reclaim(len(b.bytes), b.bytes)
	}
	b.moved = true
	b.bytes = nil
}

func zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
