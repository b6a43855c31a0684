package sensitive

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRentReturnsExactLength(t *testing.T) {
	p := NewPool()
	buf, err := p.Rent(Ed25519PrivateKey, 32)
	require.NoError(t, err)
	assert.Equal(t, 32, buf.Len())
	assert.Equal(t, Ed25519PrivateKey, buf.Tag())
}

func TestRentRejectsWrongLengthForTag(t *testing.T) {
	p := NewPool()
	_, err := p.Rent(Ed25519PrivateKey, 31)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestReleaseZeroizesAndReusesSlot(t *testing.T) {
	p := NewPool()
	buf, err := p.Rent(X25519PrivateKey, 32)
	require.NoError(t, err)

	require.NoError(t, buf.WithBytes(func(b []byte) {
		for i := range b {
			b[i] = 0xAA
		}
	}))
	buf.Release()

	again, err := p.Rent(X25519PrivateKey, 32)
	require.NoError(t, err)
	err = again.WithBytes(func(b []byte) {
		for _, v := range b {
			assert.Equal(t, byte(0), v)
		}
	})
	require.NoError(t, err)
}

func TestUseAfterReleaseFails(t *testing.T) {
	p := NewPool()
	buf, err := p.Rent(Ed25519PrivateKey, 32)
	require.NoError(t, err)
	buf.Release()

	assert.ErrorIs(t, buf.WithBytes(func([]byte) {}), ErrUseAfterRelease)
	_, err = buf.CopyOut()
	assert.ErrorIs(t, err, ErrUseAfterRelease)
}

func TestTakeTransfersOwnership(t *testing.T) {
	p := NewPool()
	buf, err := p.Rent(Ed25519PrivateKey, 32)
	require.NoError(t, err)

	moved, err := buf.Take()
	require.NoError(t, err)

	assert.ErrorIs(t, buf.WithBytes(func([]byte) {}), ErrUseAfterRelease)
	assert.NoError(t, moved.WithBytes(func([]byte) {}))
	moved.Release()
}

func TestTrimExcessDoesNotDisturbLiveBuffers(t *testing.T) {
	p := NewPool()
	live, err := p.Rent(Ed25519PrivateKey, 32)
	require.NoError(t, err)

	p.TrimExcess()
	assert.NoError(t, live.WithBytes(func([]byte) {}))
	live.Release()
}

func TestConcurrentRentsReturnDisjointRegions(t *testing.T) {
	p := NewPool()
	const n = 64
	bufs := make([]*SecretBuffer, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			buf, err := p.Rent(Ed25519PrivateKey, 32)
			require.NoError(t, err)
			_ = buf.WithBytes(func(b []byte) {
				for j := range b {
					b[j] = byte(i)
				}
			})
			bufs[i] = buf
		}(i)
	}
	wg.Wait()

	for i, b := range bufs {
		err := b.WithBytes(func(bs []byte) {
			assert.Equal(t, byte(i), bs[0])
		})
		require.NoError(t, err)
		b.Release()
	}
}
