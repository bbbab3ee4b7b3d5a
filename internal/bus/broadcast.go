package bus

import (
	"errors"
)

// TryBroadcast appends msg to every open channel. If any open channel is
// full, nothing is sent and [ErrWouldBlock] is returned. Without any open
// channel the call fails with [ErrNoChannel].
func (b *Bus) TryBroadcast(msg uint32) error {
	_, err := b.tryBroadcast(msg)

	return b.result("trybroadcast", err)
}

// tryBroadcast returns the first full channel when it would block.
func (b *Bus) tryBroadcast(msg uint32) (*Channel, error) {
	if !b.opts.Broadcast {
		return nil, ErrNotImplemented
	}

	open := 0
	for _, ch := range b.channels {
		if ch == nil {
			continue
		}
		open++

		if ch.free() == 0 {
			return ch, ErrWouldBlock
		}
	}

	if open == 0 {
		return nil, ErrNoChannel
	}

	for _, ch := range b.channels {
		if ch == nil {
			continue
		}
		ch.push(msg)
		ch.pushed(b.sched)
	}

	return nil, nil
}

// Broadcast appends msg to every open channel, suspending the calling
// coroutine on a full channel until all channels have room at once.
func (b *Bus) Broadcast(msg uint32) error {
	var wokenOn *Channel

	for {
		full, err := b.tryBroadcast(msg)
		if !errors.Is(err, ErrWouldBlock) {
			return b.result("broadcast", err)
		}

		// The wakeup was for a channel this call cannot use yet, so it is
		// handed on to the next sender waiting there.
		if wokenOn != nil && wokenOn != full && wokenOn.free() > 0 {
			wokenOn.sendWaiters.WakeFirst(b.sched)
		}

		if err := b.park(&full.sendWaiters); err != nil {
			return b.result("broadcast", err)
		}
		wokenOn = full
	}
}
