package bus

import (
	"container/list"

	"github.com/DanilR266/sysprog/internal/coro"
)

// WakeupQueue is a FIFO of coroutines waiting for a condition to change.
//
// A coroutine registers itself with [WakeupQueue.Suspend] and deregisters
// itself once it resumes. Waking only marks the head runnable and leaves the
// entry in place, so a second wake racing ahead of the resumption targets the
// same coroutine again instead of skipping over it.
type WakeupQueue struct {
	entries list.List
}

// Suspend registers c at the tail of the queue and suspends it until it is
// woken up. The entry is removed once c resumes.
func (q *WakeupQueue) Suspend(c *coro.Coro) {
	e := q.entries.PushBack(c)
	c.Suspend()
	q.entries.Remove(e)
}

// WakeFirst marks the coroutine at the head of the queue as runnable. It is a
// no-op on an empty queue.
func (q *WakeupQueue) WakeFirst(s scheduler) {
	if e := q.entries.Front(); e != nil {
		s.Wakeup(e.Value.(*coro.Coro)) //nolint:forcetypeassert
	}
}

// WakeAll marks every queued coroutine as runnable and detaches all entries,
// returning the amount of coroutines woken. Used when the queue owner goes
// away, as the resumed coroutines will not find the owner anymore.
func (q *WakeupQueue) WakeAll(s scheduler) int {
	woken := 0

	for e := q.entries.Front(); e != nil; {
		next := e.Next()
		s.Wakeup(q.entries.Remove(e).(*coro.Coro)) //nolint:forcetypeassert
		woken++
		e = next
	}

	return woken
}

// Len returns the amount of coroutines waiting in the queue.
func (q *WakeupQueue) Len() int {
	return q.entries.Len()
}
