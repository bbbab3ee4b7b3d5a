// Package coro implements a cooperative scheduler for lightweight execution
// units (coroutines).
//
// Every coroutine is backed by a goroutine, but only one of them runs at any
// time: the [Scheduler] hands a baton to exactly one coroutine and waits for
// it to suspend, yield or finish before resuming the next one. Code running
// inside coroutines of one scheduler therefore never races with other code of
// the same scheduler and does not need any locking.
package coro

import (
	"runtime"
)

type state int

const (
	stateRunnable state = iota
	stateRunning
	stateSuspended
	stateDone
)

func (s state) String() string {
	switch s {
	case stateRunnable:
		return "runnable"
	case stateRunning:
		return "running"
	case stateSuspended:
		return "suspended"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Coro is a single cooperatively scheduled execution unit.
type Coro struct {
	id      int
	name    string
	sched   *Scheduler
	state   state
	resume  chan bool
	failure error
}

// ID returns the scheduler-unique identifier of the coroutine.
func (c *Coro) ID() int {
	return c.id
}

// Name returns the name the coroutine was spawned with.
func (c *Coro) Name() string {
	return c.name
}

// Done returns whether the coroutine function has returned.
func (c *Coro) Done() bool {
	return c.state == stateDone
}

// Suspended returns whether the coroutine is currently waiting to be woken
// up with [Scheduler.Wakeup].
func (c *Coro) Suspended() bool {
	return c.state == stateSuspended
}

// Suspend gives control back to the scheduler and blocks until the coroutine
// is woken up again with [Scheduler.Wakeup]. It must only be called by the
// coroutine itself while it is running.
func (c *Coro) Suspend() {
	c.state = stateSuspended
	c.park()
}

// Yield gives control back to the scheduler while staying runnable, so other
// runnable coroutines get a turn before this one continues.
func (c *Coro) Yield() {
	c.state = stateRunnable
	c.sched.enqueue(c)
	c.park()
}

// park hands the baton back to the scheduler and waits for the next resume.
// A false resume means the scheduler is shutting down, in which case the
// coroutine's goroutine is unwound.
func (c *Coro) park() {
	c.sched.yield <- struct{}{}

	if !<-c.resume {
		runtime.Goexit()
	}
}
