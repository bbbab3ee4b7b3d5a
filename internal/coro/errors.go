package coro

import "errors"

var (
	// ErrDeadlock is returned by [Scheduler.Run] when coroutines remain but
	// none of them is runnable, meaning nobody is left to wake them up.
	ErrDeadlock = errors.New("all remaining coroutines are suspended")

	// ErrNoCoroutine is returned by operations that need to suspend the
	// calling coroutine, but are called from outside of any coroutine.
	ErrNoCoroutine = errors.New("not called from within a coroutine")

	// ErrCoroutinePanic wraps a panic that occurred inside a coroutine.
	ErrCoroutinePanic = errors.New("coroutine panicked")
)
