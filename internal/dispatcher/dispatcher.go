// Package dispatcher implements the command dispatcher: it stands in for
// the hardware RX-threshold ISR, turning bytes read from the serial link
// into notifications, queued commands, and flag mutations. Unlike a real
// ISR it runs on its own goroutine, but it never blocks on anything but
// the next byte, matching the "drain fully, defer to tasks" contract.
package dispatcher

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/wham/wham-go/internal/connwatch"
	"github.com/wham/wham-go/internal/notify"
	"github.com/wham/wham-go/internal/queue"
	"github.com/wham/wham-go/pkg/command"
	"github.com/wham/wham-go/pkg/log"
)

// LinkID correlates every trace-log event produced for one serial session,
// the Go replacement for a connection identifier an embedded system has no
// need to name.
type LinkID = string

// NewLinkID generates a fresh correlation id for one dispatcher run.
func NewLinkID() LinkID {
	return uuid.NewString()
}

// Dispatcher reads single command bytes from r and routes them per the
// byte table: pause notifications, queued commands, or connwatch flag
// mutations.
type Dispatcher struct {
	r        *bufio.Reader
	cmdQueue *queue.Bounded[command.Command]
	pauseSig *notify.Signal
	watcher  *connwatch.Watcher
	logger   log.Logger
	linkID   LinkID
}

// New constructs a Dispatcher reading from r.
func New(
	r io.Reader,
	cmdQueue *queue.Bounded[command.Command],
	pauseSig *notify.Signal,
	watcher *connwatch.Watcher,
	logger log.Logger,
	linkID LinkID,
) *Dispatcher {
	return &Dispatcher{
		r:        bufio.NewReader(r),
		cmdQueue: cmdQueue,
		pauseSig: pauseSig,
		watcher:  watcher,
		logger:   logger,
		linkID:   linkID,
	}
}

// Run reads and dispatches bytes until ctx is cancelled or r returns an
// error (including io.EOF, which ends the run without returning an error).
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		b, err := d.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		d.dispatch(b)
	}
}

func (d *Dispatcher) dispatch(b byte) {
	if b != 'D' {
		d.watcher.Touch(time.Now())
	}

	var note string
	switch {
	case b == 'P':
		d.pauseSig.Notify()
		note = "pause notified"
	case b == 'R':
		if !d.cmdQueue.TryPush(command.Reset()) {
			d.logQueueDrop()
		}
	case b == 'S':
		if !d.cmdQueue.TryPush(command.Start()) {
			d.logQueueDrop()
		}
	case b >= '1' && b <= '8':
		level := b - '0'
		if !d.cmdQueue.TryPush(command.SetLevel(level)) {
			d.logQueueDrop()
		}
	case b == 'I':
		d.watcher.RequestIdentify()
	case b == 'D':
		d.watcher.Disconnect()
	default:
		note = "ignored"
	}

	d.logByte(b, note)
}

func (d *Dispatcher) logByte(b byte, note string) {
	if d.logger == nil {
		return
	}
	d.logger.Log(log.Event{
		Timestamp: time.Now(),
		LinkID:    d.linkID,
		Layer:     log.LayerDispatcher,
		Category:  log.CategoryCommandByte,
		CommandByte: &log.CommandByteEvent{
			Byte:    b,
			Ignored: note == "ignored",
			Note:    note,
		},
	})
}

func (d *Dispatcher) logQueueDrop() {
	if d.logger == nil {
		return
	}
	d.logger.Log(log.Event{
		Timestamp: time.Now(),
		LinkID:    d.linkID,
		Layer:     log.LayerDispatcher,
		Category:  log.CategoryQueueDrop,
		QueueDrop: &log.QueueDropEvent{Queue: log.QueueCommand},
	})
}
