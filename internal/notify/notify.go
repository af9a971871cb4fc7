// Package notify implements the single-slot ISR-safe notification primitive
// used to wake the pause controller. A pending notification coalesces: if
// the controller has not yet observed one, a second notify is a no-op.
package notify

// Signal is a counting-at-most-one semaphore. Notify is safe to call from
// any goroutine, including one standing in for interrupt context.
type Signal struct {
	ch chan struct{}
}

// New returns a ready-to-use Signal.
func New() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Notify wakes one pending or future Wait call. Multiple notifications
// before the wait is observed coalesce into one.
func (s *Signal) Notify() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// Chan exposes the underlying channel for select-based waiters that must
// also watch for cancellation.
func (s *Signal) Chan() <-chan struct{} {
	return s.ch
}
