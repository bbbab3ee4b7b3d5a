// Package bus implements a registry of bounded message channels for
// coroutines of a cooperative [coro.Scheduler].
//
// Non-blocking operations fail with [ErrWouldBlock] when a channel is full or
// empty, blocking operations suspend the calling coroutine instead and retry
// once woken up. Every call revalidates the channel handle, as a channel may
// be closed by another coroutine while the caller is suspended.
package bus

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/DanilR266/sysprog/internal/coro"
)

type scheduler interface {
	Current() *coro.Coro
	Wakeup(c *coro.Coro)
}

// Options toggles the optional operations of a [Bus]. Disabled operations
// fail with [ErrNotImplemented].
type Options struct {
	Broadcast bool
	Batch     bool
}

// Stats is a snapshot of the state of a [Bus].
type Stats struct {
	OpenChannels    int
	QueuedMessages  int
	ParkedSenders   int
	ParkedReceivers int
}

// Bus owns all channels, addressed by integer handles. Handles are handed out
// in increasing order and never reused, a closed channel leaves an empty
// slot behind.
type Bus struct {
	sched    scheduler
	opts     Options
	channels []*Channel
	errno    ErrorCode
}

// New returns a pointer to a new [Bus], suspending and waking coroutines
// through the given scheduler.
func New(sched scheduler, opts Options) *Bus {
	return &Bus{
		sched: sched,
		opts:  opts,
	}
}

// Errno returns the error code recorded by the last operation.
func (b *Bus) Errno() ErrorCode {
	return b.errno
}

// SetErrno overrides the recorded error code.
func (b *Bus) SetErrno(code ErrorCode) {
	b.errno = code
}

// result records the outcome of an operation as last-error and wraps any
// error with the operation tag.
func (b *Bus) result(op string, err error) error {
	b.errno = codeOf(err)

	if err != nil {
		return fmt.Errorf("(bus-%s) %w", op, err)
	}

	return nil
}

// Open creates a new channel holding up to capacity messages and returns its
// handle.
func (b *Bus) Open(capacity uint) int {
	ch := newChannel(int(min(capacity, math.MaxInt32)))

	b.channels = append(b.channels, ch)
	handle := len(b.channels) - 1

	slog.Debug("Opened channel.",
		"handle", handle,
		"capacity", capacity,
	)
	b.errno = ErrCodeNone

	return handle
}

// Close closes the channel behind the handle. All coroutines waiting on the
// channel are woken up and will observe [ErrNoChannel].
func (b *Bus) Close(handle int) error {
	ch, err := b.channel(handle)
	if err != nil {
		return b.result("close", err)
	}

	woken := ch.close(b.sched)
	b.channels[handle] = nil

	slog.Debug("Closed channel.",
		"handle", handle,
		"woken", woken,
	)

	return b.result("close", nil)
}

// Destroy closes all open channels, waking everybody waiting on them, and
// resets the registry.
func (b *Bus) Destroy() {
	for handle, ch := range b.channels {
		if ch == nil {
			continue
		}
		ch.close(b.sched)
		b.channels[handle] = nil
	}

	b.channels = nil
	b.errno = ErrCodeNone
}

// Stats returns a snapshot of the open channels and their waiters.
func (b *Bus) Stats() Stats {
	var stats Stats

	for _, ch := range b.channels {
		if ch == nil {
			continue
		}
		stats.OpenChannels++
		stats.QueuedMessages += ch.Len()
		stats.ParkedSenders += ch.sendWaiters.Len()
		stats.ParkedReceivers += ch.recvWaiters.Len()
	}

	return stats
}

// Len returns the amount of messages queued in the channel behind the handle.
func (b *Bus) Len(handle int) (int, error) {
	ch, err := b.channel(handle)
	if err != nil {
		return 0, b.result("len", err)
	}

	return ch.Len(), b.result("len", nil)
}

func (b *Bus) channel(handle int) (*Channel, error) {
	if handle < 0 || handle >= len(b.channels) || b.channels[handle] == nil {
		return nil, ErrNoChannel
	}

	return b.channels[handle], nil
}

// TrySend appends msg to the channel, or fails with [ErrWouldBlock] without
// any change if the channel is full.
func (b *Bus) TrySend(handle int, msg uint32) error {
	return b.result("trysend", b.trySend(handle, msg))
}

func (b *Bus) trySend(handle int, msg uint32) error {
	ch, err := b.channel(handle)
	if err != nil {
		return err
	}

	if ch.free() == 0 {
		return ErrWouldBlock
	}

	ch.push(msg)
	ch.pushed(b.sched)

	return nil
}

// Send appends msg to the channel, suspending the calling coroutine for as
// long as the channel is full.
func (b *Bus) Send(handle int, msg uint32) error {
	for {
		err := b.trySend(handle, msg)
		if !errors.Is(err, ErrWouldBlock) {
			return b.result("send", err)
		}

		if err := b.park(&b.channels[handle].sendWaiters); err != nil {
			return b.result("send", err)
		}
	}
}

// TryRecv takes the oldest message from the channel, or fails with
// [ErrWouldBlock] if the channel is empty.
func (b *Bus) TryRecv(handle int) (uint32, error) {
	msg, err := b.tryRecv(handle)

	return msg, b.result("tryrecv", err)
}

func (b *Bus) tryRecv(handle int) (uint32, error) {
	ch, err := b.channel(handle)
	if err != nil {
		return 0, err
	}

	if ch.Len() == 0 {
		return 0, ErrWouldBlock
	}

	var buf [1]uint32
	ch.pop(buf[:])
	ch.popped(b.sched)

	return buf[0], nil
}

// Recv takes the oldest message from the channel, suspending the calling
// coroutine for as long as the channel is empty.
func (b *Bus) Recv(handle int) (uint32, error) {
	for {
		msg, err := b.tryRecv(handle)
		if !errors.Is(err, ErrWouldBlock) {
			return msg, b.result("recv", err)
		}

		if err := b.parkReceiver(b.channels[handle]); err != nil {
			return 0, b.result("recv", err)
		}
	}
}

// park suspends the current coroutine on the given queue.
func (b *Bus) park(q *WakeupQueue) error {
	c := b.sched.Current()
	if c == nil {
		return fmt.Errorf("%w: %w", ErrWouldBlock, coro.ErrNoCoroutine)
	}

	q.Suspend(c)

	return nil
}

// parkReceiver suspends the current coroutine until data arrives. On a
// rendezvous channel the receiver first wakes a waiting sender, which can
// only deliver once it sees a receiver waiting.
func (b *Bus) parkReceiver(ch *Channel) error {
	if ch.capacity == 0 && b.sched.Current() != nil {
		ch.sendWaiters.WakeFirst(b.sched)
	}

	return b.park(&ch.recvWaiters)
}
