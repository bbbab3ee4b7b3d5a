package bus

import (
	"context"
	"testing"

	"github.com/DanilR266/sysprog/internal/coro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTrySendV_Partial tests that a batch send delivers as much as fits.
func TestTrySendV_Partial(t *testing.T) {
	t.Parallel()

	b, _ := newTestBus(t)
	h := b.Open(3)

	n, err := b.TrySendV(h, []uint32{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = b.TrySendV(h, []uint32{6})
	require.ErrorIs(t, err, ErrWouldBlock)
	assert.Equal(t, 0, n)

	buf := make([]uint32, 2)
	n, err = b.TryRecvV(h, buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []uint32{1, 2}, buf)

	n, err = b.TrySendV(h, []uint32{6, 7, 8})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	buf = make([]uint32, 10)
	n, err = b.TryRecvV(h, buf)
	require.NoError(t, err)
	assert.Equal(t, []uint32{3, 6, 7}, buf[:n])

	_, err = b.TryRecvV(h, buf)
	require.ErrorIs(t, err, ErrWouldBlock)
}

// TestTrySendV_Empty tests batch operations with empty input.
func TestTrySendV_Empty(t *testing.T) {
	t.Parallel()

	b, _ := newTestBus(t)
	h := b.Open(1)

	n, err := b.TrySendV(h, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = b.TryRecvV(h, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = b.TrySendV(h+1, []uint32{1})
	require.ErrorIs(t, err, ErrNoChannel)
}

// TestBatch_NotImplemented tests that disabled batch operations are reported
// as not implemented.
func TestBatch_NotImplemented(t *testing.T) {
	t.Parallel()

	b := New(coro.NewScheduler(), Options{Broadcast: true})
	h := b.Open(1)

	_, err := b.TrySendV(h, []uint32{1})
	require.ErrorIs(t, err, ErrNotImplemented)
	assert.Equal(t, ErrCodeNotImplemented, b.Errno())

	_, err = b.RecvV(h, make([]uint32, 1))
	require.ErrorIs(t, err, ErrNotImplemented)
}

// TestSendVRecvV_Blocking tests blocking batch transfers in both directions.
func TestSendVRecvV_Blocking(t *testing.T) {
	t.Parallel()

	for _, capacity := range []uint{0, 1, 4} {
		b, sched := newTestBus(t)
		h := b.Open(capacity)

		msgs := []uint32{}
		for i := range uint32(20) {
			msgs = append(msgs, i)
		}
		received := []uint32{}

		sched.Go("producer", func(_ *coro.Coro) {
			rest := msgs
			for len(rest) > 0 {
				n, err := b.SendV(h, rest)
				if !assert.NoError(t, err) {
					return
				}
				assert.Positive(t, n)
				rest = rest[n:]
			}
		})
		sched.Go("consumer", func(_ *coro.Coro) {
			buf := make([]uint32, 3)
			for len(received) < len(msgs) {
				n, err := b.RecvV(h, buf)
				if !assert.NoError(t, err) {
					return
				}
				received = append(received, buf[:n]...)
			}
		})

		require.NoError(t, sched.Run(context.Background()))
		assert.Equal(t, msgs, received, "capacity %d", capacity)
	}
}
