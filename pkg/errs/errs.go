// Package errs enumerates the error kinds the core raises, following the
// propagation policy in the design: only hardware init errors are fatal.
package errs

import "errors"

var (
	// ErrHardwareInit is raised only during bootstrap. Fatal; the device
	// must abort before starting any task.
	ErrHardwareInit = errors.New("hardware initialization failed")

	// ErrQueueFull is non-fatal: an event or command was silently dropped
	// because its queue was at capacity.
	ErrQueueFull = errors.New("queue full")

	// ErrI2CTransient is non-fatal: an I2C read or write failed without
	// being retried. During Running it degrades the current pop to Late.
	ErrI2CTransient = errors.New("transient i2c error")

	// ErrBufferOverflow is non-fatal: the ring buffer evicted its oldest
	// entry to make room for a new one. Never surfaced to the host.
	ErrBufferOverflow = errors.New("ring buffer overflow")
)
