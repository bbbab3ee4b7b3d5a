package bus

import "github.com/DanilR266/sysprog/internal/queue"

// Channel is a bounded FIFO of messages, with one [WakeupQueue] for senders
// waiting on a full channel and one for receivers waiting on an empty one.
//
// A capacity of zero makes the channel a rendezvous point: a message can only
// be deposited for a receiver that is already waiting for it.
type Channel struct {
	capacity    int
	data        queue.FIFO[uint32]
	sendWaiters WakeupQueue
	recvWaiters WakeupQueue
}

func newChannel(capacity int) *Channel {
	return &Channel{
		capacity: capacity,
	}
}

// Capacity returns the capacity the channel was opened with.
func (ch *Channel) Capacity() int {
	return ch.capacity
}

// Len returns the amount of messages currently queued.
func (ch *Channel) Len() int {
	return ch.data.Len()
}

// limit is the amount of messages the channel may currently hold.
func (ch *Channel) limit() int {
	if ch.capacity > 0 {
		return ch.capacity
	}

	return ch.recvWaiters.Len()
}

// free is the amount of messages that can be pushed without blocking.
func (ch *Channel) free() int {
	return max(ch.limit()-ch.Len(), 0)
}

func (ch *Channel) push(msgs ...uint32) {
	ch.data.Enqueue(msgs...)
}

// pop moves up to len(buf) messages from the head of the channel into buf.
func (ch *Channel) pop(buf []uint32) int {
	return ch.data.DequeueInto(buf)
}

// pushed wakes a receiver for the new data and, if there is still room, the
// next waiting sender. The latter is needed because a woken sender stays at
// the head of its queue until it resumes, so several receives in a row would
// otherwise all target the same sender.
func (ch *Channel) pushed(s scheduler) {
	ch.recvWaiters.WakeFirst(s)

	if ch.free() > 0 {
		ch.sendWaiters.WakeFirst(s)
	}
}

// popped is the receiving counterpart of [Channel.pushed].
func (ch *Channel) popped(s scheduler) {
	ch.sendWaiters.WakeFirst(s)

	if ch.Len() > 0 {
		ch.recvWaiters.WakeFirst(s)
	}
}

// close wakes every waiting coroutine and drops the queued messages.
func (ch *Channel) close(s scheduler) int {
	woken := ch.sendWaiters.WakeAll(s)
	woken += ch.recvWaiters.WakeAll(s)

	ch.data.Reset()

	return woken
}
