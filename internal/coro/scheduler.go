package coro

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/DanilR266/sysprog/internal/queue"
)

// Scheduler runs coroutines one at a time in FIFO order of becoming runnable.
type Scheduler struct {
	runQueue queue.FIFO[*Coro]
	current  *Coro
	yield    chan struct{}
	live     map[int]*Coro
	nextID   int
	switches uint64
}

// NewScheduler returns a pointer to a new [Scheduler].
func NewScheduler() *Scheduler {
	return &Scheduler{
		yield: make(chan struct{}),
		live:  make(map[int]*Coro),
	}
}

// Go spawns a new coroutine running fn. The coroutine becomes runnable
// immediately, but starts executing only once the scheduler hands it the
// baton. It can be called before [Scheduler.Run] or from within a running
// coroutine.
func (s *Scheduler) Go(name string, fn func(c *Coro)) *Coro {
	c := &Coro{
		id:     s.nextID,
		name:   name,
		sched:  s,
		state:  stateRunnable,
		resume: make(chan bool),
	}
	s.nextID++
	s.live[c.id] = c

	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.failure = fmt.Errorf("%w: %s (%d): %v", ErrCoroutinePanic, c.name, c.id, r)
			}
			c.state = stateDone
			delete(s.live, c.id)
			s.yield <- struct{}{}
		}()

		if !<-c.resume {
			return
		}

		fn(c)
	}()

	s.enqueue(c)

	return c
}

// Current returns the coroutine that is currently running, or nil if called
// from outside of any coroutine.
func (s *Scheduler) Current() *Coro {
	return s.current
}

// Wakeup makes a suspended coroutine runnable again. Waking a coroutine that
// is not suspended (already runnable, running or done) has no effect.
func (s *Scheduler) Wakeup(c *Coro) {
	if c == nil || c.state != stateSuspended {
		return
	}

	c.state = stateRunnable
	s.enqueue(c)
}

// Live returns the amount of coroutines that have not finished yet.
func (s *Scheduler) Live() int {
	return len(s.live)
}

// Switches returns the amount of context switches performed so far.
func (s *Scheduler) Switches() uint64 {
	return s.switches
}

// Run executes coroutines until all of them have finished. It returns
// [ErrDeadlock] if coroutines remain that are all suspended, the context
// error if the context is cancelled, or an error wrapping
// [ErrCoroutinePanic] if a coroutine panicked. In all error cases the
// remaining coroutines are unwound before returning.
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.unwind()

	for {
		if ctx.Err() != nil {
			return fmt.Errorf("(coro-run) %w", ctx.Err())
		}

		c, ok := s.runQueue.Dequeue()
		if !ok {
			break
		}

		s.current = c
		c.state = stateRunning
		s.switches++

		c.resume <- true
		<-s.yield

		s.current = nil

		if c.failure != nil {
			return fmt.Errorf("(coro-run) %w", c.failure)
		}
	}

	if len(s.live) > 0 {
		return fmt.Errorf("(coro-run) %w: %d left", ErrDeadlock, len(s.live))
	}

	slog.Debug("Scheduler finished all coroutines.",
		"coroutines", s.nextID,
		"switches", s.switches,
	)

	return nil
}

// unwind terminates the goroutines of all coroutines that did not finish.
func (s *Scheduler) unwind() {
	if len(s.live) == 0 {
		return
	}

	remaining := make([]*Coro, 0, len(s.live))
	for _, c := range s.live {
		remaining = append(remaining, c)
	}
	slices.SortFunc(remaining, func(a, b *Coro) int {
		return a.id - b.id
	})

	for _, c := range remaining {
		slog.Debug("Unwinding unfinished coroutine.",
			"name", c.name,
			"id", c.id,
			"state", c.state.String(),
		)
		c.resume <- false
		<-s.yield
	}

	s.runQueue.Reset()
}

func (s *Scheduler) enqueue(c *Coro) {
	s.runQueue.Enqueue(c)
}
