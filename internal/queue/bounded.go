// Package queue implements the two bounded FIFOs and the ring buffer shared
// between the dispatcher, game, and telemetry goroutines. TryPush never
// blocks, modelling the ISR-safe, non-allocating enqueue primitive the
// design calls for: a full queue drops the new entry rather than stalling
// the caller.
package queue

// Bounded is a fixed-capacity FIFO backed by a buffered channel. TryPush is
// safe to call from any goroutine, including one standing in for interrupt
// context, because it never blocks and never allocates after construction.
type Bounded[T any] struct {
	ch chan T
}

// NewBounded constructs a bounded queue of the given capacity.
func NewBounded[T any](capacity int) *Bounded[T] {
	return &Bounded[T]{ch: make(chan T, capacity)}
}

// TryPush attempts to enqueue v without blocking. Returns false if the
// queue was full and v was dropped.
func (b *Bounded[T]) TryPush(v T) bool {
	select {
	case b.ch <- v:
		return true
	default:
		return false
	}
}

// TryPop attempts to dequeue without blocking. ok is false if the queue was
// empty.
func (b *Bounded[T]) TryPop() (v T, ok bool) {
	select {
	case v = <-b.ch:
		return v, true
	default:
		return v, false
	}
}

// Chan exposes the underlying channel for select-based consumers that need
// to wait with a timeout (the telemetry task's 10ms drain wait).
func (b *Bounded[T]) Chan() <-chan T {
	return b.ch
}

// Len returns the number of currently queued entries.
func (b *Bounded[T]) Len() int {
	return len(b.ch)
}
