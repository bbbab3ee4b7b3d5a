package bus

import (
	"context"
	"testing"

	"github.com/DanilR266/sysprog/internal/coro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTryBroadcast_Success tests that a broadcast reaches every open channel.
func TestTryBroadcast_Success(t *testing.T) {
	t.Parallel()

	b, _ := newTestBus(t)
	h1 := b.Open(2)
	closed := b.Open(2)
	h2 := b.Open(1)
	require.NoError(t, b.Close(closed))

	require.NoError(t, b.TryBroadcast(5))
	assert.Equal(t, ErrCodeNone, b.Errno())

	for _, h := range []int{h1, h2} {
		msg, err := b.TryRecv(h)
		require.NoError(t, err)
		assert.Equal(t, uint32(5), msg)
	}
}

// TestTryBroadcast_AllOrNothing tests that nothing is sent if any channel is
// full.
func TestTryBroadcast_AllOrNothing(t *testing.T) {
	t.Parallel()

	b, _ := newTestBus(t)
	roomy := b.Open(5)
	full := b.Open(1)
	require.NoError(t, b.TrySend(full, 1))

	err := b.TryBroadcast(2)
	require.ErrorIs(t, err, ErrWouldBlock)
	assert.Equal(t, ErrCodeWouldBlock, b.Errno())

	n, err := b.Len(roomy)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

// TestTryBroadcast_NoChannel tests broadcasting without open channels.
func TestTryBroadcast_NoChannel(t *testing.T) {
	t.Parallel()

	b, _ := newTestBus(t)
	require.ErrorIs(t, b.TryBroadcast(1), ErrNoChannel)

	h := b.Open(1)
	require.NoError(t, b.Close(h))
	require.ErrorIs(t, b.TryBroadcast(1), ErrNoChannel)
	assert.Equal(t, ErrCodeNoChannel, b.Errno())
}

// TestBroadcast_NotImplemented tests that a disabled broadcast is reported as
// not implemented.
func TestBroadcast_NotImplemented(t *testing.T) {
	t.Parallel()

	b := New(coro.NewScheduler(), Options{})
	b.Open(1)

	require.ErrorIs(t, b.TryBroadcast(1), ErrNotImplemented)
	assert.Equal(t, ErrCodeNotImplemented, b.Errno())
	require.ErrorIs(t, b.Broadcast(1), ErrNotImplemented)
}

// TestBroadcast_Blocking tests that a blocking broadcast waits until every
// channel has room.
func TestBroadcast_Blocking(t *testing.T) {
	t.Parallel()

	b, sched := newTestBus(t)
	h1 := b.Open(1)
	h2 := b.Open(1)
	require.NoError(t, b.TrySend(h1, 1))
	require.NoError(t, b.TrySend(h2, 1))

	got := map[int][]uint32{}

	sched.Go("broadcaster", func(_ *coro.Coro) {
		assert.NoError(t, b.Broadcast(2))
	})
	sched.Go("consumer", func(_ *coro.Coro) {
		for range 2 {
			for _, h := range []int{h1, h2} {
				msg, err := b.Recv(h)
				assert.NoError(t, err)
				got[h] = append(got[h], msg)
			}
		}
	})

	require.NoError(t, sched.Run(context.Background()))
	assert.Equal(t, []uint32{1, 2}, got[h1])
	assert.Equal(t, []uint32{1, 2}, got[h2])
}

// TestBroadcast_HandsOnWakeup tests that a broadcaster woken on one channel,
// but still blocked by another, passes the wakeup on to the next sender.
func TestBroadcast_HandsOnWakeup(t *testing.T) {
	t.Parallel()

	b, s := newTestBus(t)
	first := b.Open(1)
	second := b.Open(1)
	require.NoError(t, b.TrySend(first, 1))
	require.NoError(t, b.TrySend(second, 2))

	got := []uint32{}

	s.Go("broadcaster", func(_ *coro.Coro) {
		assert.NoError(t, b.Broadcast(9))
	})
	s.Go("producer", func(_ *coro.Coro) {
		assert.NoError(t, b.Send(first, 3))
	})
	s.Go("unblocker", func(_ *coro.Coro) {
		msg, err := b.Recv(first)
		assert.NoError(t, err)
		assert.Equal(t, uint32(1), msg)
	})
	s.Go("drainer", func(c *coro.Coro) {
		c.Yield()
		c.Yield()

		for _, h := range []int{second, first} {
			msg, err := b.Recv(h)
			assert.NoError(t, err)
			got = append(got, msg)
		}
	})

	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, []uint32{2, 3}, got)

	for _, h := range []int{first, second} {
		msg, err := b.TryRecv(h)
		require.NoError(t, err)
		assert.Equal(t, uint32(9), msg)
	}
}
