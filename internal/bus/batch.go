package bus

import (
	"errors"
)

// TrySendV appends as many of msgs to the channel as currently fit and
// returns how many were sent. It fails with [ErrWouldBlock] only if not a
// single message fits.
func (b *Bus) TrySendV(handle int, msgs []uint32) (int, error) {
	n, err := b.trySendV(handle, msgs)

	return n, b.result("trysendv", err)
}

func (b *Bus) trySendV(handle int, msgs []uint32) (int, error) {
	if !b.opts.Batch {
		return 0, ErrNotImplemented
	}

	ch, err := b.channel(handle)
	if err != nil {
		return 0, err
	}

	if len(msgs) == 0 {
		return 0, nil
	}

	n := min(ch.free(), len(msgs))
	if n == 0 {
		return 0, ErrWouldBlock
	}

	ch.push(msgs[:n]...)
	ch.pushed(b.sched)

	return n, nil
}

// SendV appends a prefix of msgs to the channel, suspending the calling
// coroutine until at least one message fits. It returns how many were sent.
func (b *Bus) SendV(handle int, msgs []uint32) (int, error) {
	for {
		n, err := b.trySendV(handle, msgs)
		if !errors.Is(err, ErrWouldBlock) {
			return n, b.result("sendv", err)
		}

		if err := b.park(&b.channels[handle].sendWaiters); err != nil {
			return 0, b.result("sendv", err)
		}
	}
}

// TryRecvV moves up to len(buf) of the oldest messages into buf and returns
// how many were received. It fails with [ErrWouldBlock] if the channel is
// empty.
func (b *Bus) TryRecvV(handle int, buf []uint32) (int, error) {
	n, err := b.tryRecvV(handle, buf)

	return n, b.result("tryrecvv", err)
}

func (b *Bus) tryRecvV(handle int, buf []uint32) (int, error) {
	if !b.opts.Batch {
		return 0, ErrNotImplemented
	}

	ch, err := b.channel(handle)
	if err != nil {
		return 0, err
	}

	if len(buf) == 0 {
		return 0, nil
	}

	if ch.Len() == 0 {
		return 0, ErrWouldBlock
	}

	n := ch.pop(buf)
	ch.popped(b.sched)

	return n, nil
}

// RecvV moves up to len(buf) messages into buf, suspending the calling
// coroutine until at least one message is available.
func (b *Bus) RecvV(handle int, buf []uint32) (int, error) {
	for {
		n, err := b.tryRecvV(handle, buf)
		if !errors.Is(err, ErrWouldBlock) {
			return n, b.result("recvv", err)
		}

		if err := b.parkReceiver(b.channels[handle]); err != nil {
			return 0, b.result("recvv", err)
		}
	}
}
