package sensitive

import (
	"sync"

	"vccore/pkg/logger"
)

// slabCapacity implements the per-size strategy from spec.md §4.1: small
// allocations get deep slabs (amortizing the allocation cost of buffers
// that get rented and released constantly, such as signatures), larger
// ones get shallow slabs.
func slabCapacity(size int) int {
	switch {
	case size <= 64:
		return 32
	case size <= 256:
		return 8
	default:
		return 1
	}
}

// sizeClass holds every free slot for one buffer length. One mutex per
// size class means two rents for different lengths never contend with
// each other.
type sizeClass struct {
	mu   sync.Mutex
	free [][]byte
}

// Pool is a pooled, size-segregated allocator producing scoped
// SecretBuffers with zero-on-release. A Pool can be instantiated as the
// process-wide DefaultPool or per-subsystem via NewPool for isolation
// (e.g., one pool per HSM session scope so trimming one does not disturb
// another).
type Pool struct {
	mu      sync.Mutex
	classes map[int]*sizeClass
	log     *logger.Log
}

// NewPool returns an empty, independent pool.
func NewPool() *Pool {
	return &Pool{classes: make(map[int]*sizeClass), log: logger.NewSimple("sensitive")}
}

var defaultPool = NewPool()

// DefaultPool returns the process-wide shared pool.
func DefaultPool() *Pool {
	return defaultPool
}

func (p *Pool) classFor(size int) *sizeClass {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.classes[size]
	if !ok {
		c = &sizeClass{}
		p.classes[size] = c
	}
	return c
}

// rentBytes returns a zeroed byte slice of exactly size bytes, reusing a
// freed slot if one is available.
func (p *Pool) rentBytes(size int) []byte {
	c := p.classFor(size)

	c.mu.Lock()
	defer c.mu.Unlock()

	if n := len(c.free); n > 0 {
		b := c.free[n-1]
		c.free = c.free[:n-1]
		return b
	}

	// Allocate a fresh slab; every slot beyond the first is pre-seeded
	// into the free list so subsequent rents of this size reuse storage
	// instead of allocating again.
	cap := slabCapacity(size)
	for i := 1; i < cap; i++ {
		c.free = append(c.free, make([]byte, size))
	}
	return make([]byte, size)
}

func (p *Pool) reclaim(size int, b []byte) {
	c := p.classFor(size)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.free = append(c.free, b)
}

// Rent returns a SecretBuffer of exactly size bytes, tagged tag. The
// returned buffer's length always equals size exactly; any other outcome
// is an AllocationInvariantError, which is fatal per spec.md §7.
func (p *Pool) Rent(tag Tag, size int) (*SecretBuffer, error) {
	if canonical, ok := tag.CanonicalLength(); ok && canonical != size {
		return nil, ErrLengthMismatch
	}
	b := p.rentBytes(size)
	if len(b) != size {
		panic(&AllocationInvariantError{Requested: size, Got: len(b)})
	}
	return newSecretBuffer(tag, b, p), nil
}

// RentUntagged rents a buffer without a canonical-length check, for
// transient scratch use (e.g., DER intermediate buffers) that never
// becomes a tagged SecretBuffer handed to a caller.
func (p *Pool) RentUntagged(size int) *SecretBuffer {
	b := p.rentBytes(size)
	return newSecretBuffer(TagUnspecified, b, p)
}

// TrimExcess releases every currently-free slot back to the Go allocator.
// Slots that are checked out (i.e., live SecretBuffers) are untouched.
func (p *Pool) TrimExcess() {
	p.mu.Lock()
	classes := make([]*sizeClass, 0, len(p.classes))
	for _, c := range p.classes {
		classes = append(classes, c)
	}
	p.mu.Unlock()

	freed := 0
	for _, c := range classes {
		c.mu.Lock()
		freed += len(c.free)
		c.free = nil
		c.mu.Unlock()
	}
	p.log.Debug("trimmed pool", "sizeClasses", len(classes), "slotsFreed", freed)
}
