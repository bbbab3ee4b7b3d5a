// Package queue implements a head-indexed FIFO queue.
package queue

// FIFO is a first-in first-out queue of items. Dequeuing advances a head
// index instead of reslicing, the consumed prefix is reclaimed once the queue
// runs empty or the head passes the middle of the backing slice.
//
// A FIFO is not safe for concurrent use.
type FIFO[T any] struct {
	head  int
	items []T
}

// Len returns the amount of items in the queue.
func (q *FIFO[T]) Len() int {
	return len(q.items) - q.head
}

// HasRemainingItems returns whether the queue has items left to dequeue.
func (q *FIFO[T]) HasRemainingItems() bool {
	return q.head < len(q.items)
}

// Enqueue adds items to the tail of the queue.
func (q *FIFO[T]) Enqueue(items ...T) {
	q.items = append(q.items, items...)
}

// Dequeue removes and returns the item at the head of the queue.
func (q *FIFO[T]) Dequeue() (T, bool) { //nolint:ireturn
	var zeroVal T

	if q.head >= len(q.items) {
		return zeroVal, false
	}

	item := q.items[q.head]
	q.items[q.head] = zeroVal
	q.head++
	q.compact()

	return item, true
}

// DequeueInto moves up to len(buf) items from the head of the queue into buf
// and returns how many were moved.
func (q *FIFO[T]) DequeueInto(buf []T) int {
	n := copy(buf, q.items[q.head:])
	clear(q.items[q.head : q.head+n])
	q.head += n
	q.compact()

	return n
}

// Reset drops all items and releases the backing slice.
func (q *FIFO[T]) Reset() {
	q.head = 0
	q.items = nil
}

func (q *FIFO[T]) compact() {
	switch {
	case q.head == len(q.items):
		q.head = 0
		q.items = q.items[:0]
	case q.head > len(q.items)/2:
		remaining := copy(q.items, q.items[q.head:])
		clear(q.items[remaining:])
		q.items = q.items[:remaining]
		q.head = 0
	}
}
