// Package arena provides a slot arena addressing values through
// generation-checked handles.
//
// Freed slots are reused first-fit, lowest index first. Every reuse bumps the
// slot generation, so handles that still point to the previous occupant of a
// slot are rejected instead of silently aliasing the new one.
package arena

import (
	"fmt"
	"iter"
)

// Handle addresses a value stored in an [Arena]. The zero Handle is never
// valid and can be used as a nil reference.
type Handle struct {
	index uint32
	gen   uint32
}

// Nil is the zero [Handle], referring to nothing.
var Nil Handle //nolint:gochecknoglobals

// Index returns the slot index of the handle. Indexes are small non-negative
// integers, but they are only unique among live values.
func (h Handle) Index() int {
	return int(h.index)
}

// IsNil returns whether the handle is the zero [Handle].
func (h Handle) IsNil() bool {
	return h.gen == 0
}

func (h Handle) String() string {
	if h.IsNil() {
		return "nil"
	}

	return fmt.Sprintf("%d#%d", h.index, h.gen)
}

type slot[T any] struct {
	value *T
	gen   uint32
}

// Arena stores pointers to values of type T in reusable slots. Pointers
// returned by the arena stay valid until the value is freed.
type Arena[T any] struct {
	slots []slot[T]
	used  int
	hint  int
}

// New returns a pointer to a new, empty [Arena].
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Alloc stores v in the lowest free slot and returns its handle.
func (a *Arena[T]) Alloc(v *T) Handle {
	for i := a.hint; i < len(a.slots); i++ {
		if a.slots[i].value == nil {
			a.slots[i].value = v
			a.used++
			a.hint = i + 1

			return Handle{index: uint32(i), gen: a.slots[i].gen} //nolint:gosec
		}
	}

	a.slots = append(a.slots, slot[T]{value: v, gen: 1})
	a.used++
	a.hint = len(a.slots)

	return Handle{index: uint32(len(a.slots) - 1), gen: 1} //nolint:gosec
}

// Get returns the value behind the handle, or false if the handle is nil,
// out of range, freed or refers to an earlier occupant of the slot.
func (a *Arena[T]) Get(h Handle) (*T, bool) {
	if h.IsNil() || int(h.index) >= len(a.slots) {
		return nil, false
	}

	s := a.slots[h.index]
	if s.value == nil || s.gen != h.gen {
		return nil, false
	}

	return s.value, true
}

// Free releases the slot behind the handle and returns whether it was live.
func (a *Arena[T]) Free(h Handle) bool {
	if _, ok := a.Get(h); !ok {
		return false
	}

	a.release(int(h.index))

	return true
}

func (a *Arena[T]) release(i int) {
	a.slots[i].value = nil
	a.slots[i].gen++
	if a.slots[i].gen == 0 {
		a.slots[i].gen = 1
	}

	a.used--
	a.hint = min(a.hint, i)
}

// Clear releases every live slot. Slot generations are kept, so handles
// issued before the call stay invalid afterwards.
func (a *Arena[T]) Clear() {
	for i := range a.slots {
		if a.slots[i].value != nil {
			a.release(i)
		}
	}

	a.hint = 0
}

// Len returns the amount of live values.
func (a *Arena[T]) Len() int {
	return a.used
}

// All iterates over all live values in slot order.
func (a *Arena[T]) All() iter.Seq2[Handle, *T] {
	return func(yield func(Handle, *T) bool) {
		for i, s := range a.slots {
			if s.value == nil {
				continue
			}
			if !yield(Handle{index: uint32(i), gen: s.gen}, s.value) { //nolint:gosec
				return
			}
		}
	}
}
