// Package telemetry implements the telemetry task: it drains the event
// queue, transmits events as JSON when the host is connected, buffers them
// in a ring when it is not, and handles the identify handshake.
package telemetry

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/wham/wham-go/internal/clock"
	"github.com/wham/wham-go/internal/connwatch"
	"github.com/wham/wham-go/internal/hal"
	"github.com/wham/wham-go/internal/queue"
	"github.com/wham/wham-go/pkg/gameevent"
	"github.com/wham/wham-go/pkg/log"
	"github.com/wham/wham-go/pkg/wire"
)

// RingCapacity is the default offline buffer capacity, used unless a
// caller overrides it via NewTaskWithRingCapacity.
const RingCapacity = 100

// Task is the telemetry loop. One Task runs on its own goroutine.
type Task struct {
	eventQueue *queue.Bounded[gameevent.Event]
	ring       *queue.Ring[gameevent.Event]
	watcher    *connwatch.Watcher
	deviceID   *hal.DeviceID
	clk        clock.Clock
	out        io.Writer
	outMu      sync.Mutex
	logger     log.Logger
	linkID     string
}

// NewTask constructs a telemetry Task writing frames to out, with the
// offline ring sized to RingCapacity.
func NewTask(
	eventQueue *queue.Bounded[gameevent.Event],
	watcher *connwatch.Watcher,
	panel hal.Panel,
	clk clock.Clock,
	out io.Writer,
	logger log.Logger,
	linkID string,
) *Task {
	return NewTaskWithRingCapacity(eventQueue, watcher, panel, clk, out, logger, linkID, RingCapacity)
}

// NewTaskWithRingCapacity is NewTask with an explicit ring capacity,
// configured via pkg/config's ring_capacity for an alternate board
// revision or test rig.
func NewTaskWithRingCapacity(
	eventQueue *queue.Bounded[gameevent.Event],
	watcher *connwatch.Watcher,
	panel hal.Panel,
	clk clock.Clock,
	out io.Writer,
	logger log.Logger,
	linkID string,
	ringCapacity int,
) *Task {
	return &Task{
		eventQueue: eventQueue,
		ring:       queue.NewRing[gameevent.Event](ringCapacity),
		watcher:    watcher,
		deviceID:   hal.NewDeviceID(panel),
		clk:        clk,
		out:        out,
		logger:     logger,
		linkID:     linkID,
	}
}

// Run executes the four-step telemetry loop until ctx is cancelled.
func (t *Task) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		now := t.clk.Now()

		if t.watcher.CheckTimeout(now) {
			t.logStateChange("CONNECTED", "OFFLINE")
		}

		if t.watcher.TakeIdentifyRequest() {
			if err := t.handleIdentify(now); err != nil {
				return err
			}
		}

		t.drainEventQueueOnce(ctx)

		t.clk.Sleep(10 * time.Millisecond)
	}
	return nil
}

func (t *Task) handleIdentify(now time.Time) error {
	wasConnected := t.watcher.Connected()
	t.watcher.SetConnected(true)
	t.watcher.Touch(now)
	if !wasConnected {
		t.logStateChange("OFFLINE", "CONNECTED")
	}

	deviceID, err := t.deviceID.Get()
	if err != nil {
		t.logHardwareError("serial_number", err)
		return nil
	}

	frame, err := wire.EncodeIdentify(deviceID)
	if err != nil {
		return err
	}
	t.write(frame)

	for _, e := range t.ring.Drain() {
		t.send(e)
	}
	return nil
}

// drainEventQueueOnce waits up to 10ms for one event and routes it; it
// never blocks longer than that single wait.
func (t *Task) drainEventQueueOnce(ctx context.Context) {
	select {
	case e := <-t.eventQueue.Chan():
		t.routeEvent(e)
	case <-time.After(10 * time.Millisecond):
	case <-ctx.Done():
	}
}

func (t *Task) routeEvent(e gameevent.Event) {
	if t.watcher.Connected() {
		t.send(e)
		return
	}
	if t.ring.Push(e) {
		t.logBufferOverflow()
	}
}

func (t *Task) send(e gameevent.Event) {
	frame, err := wire.EncodeEvent(e)
	if err != nil {
		return
	}
	t.write(frame)
}

func (t *Task) write(frame []byte) {
	t.outMu.Lock()
	defer t.outMu.Unlock()
	t.out.Write(frame)
}

func (t *Task) logStateChange(from, to string) {
	if t.logger == nil {
		return
	}
	t.logger.Log(log.Event{
		Timestamp: t.clk.Now(),
		LinkID:    t.linkID,
		Layer:     log.LayerTelemetry,
		Category:  log.CategoryStateChange,
		StateChange: &log.StateChangeEvent{
			Entity: log.StateEntityConnectivity,
			From:   from,
			To:     to,
		},
	})
}

func (t *Task) logBufferOverflow() {
	if t.logger == nil {
		return
	}
	t.logger.Log(log.Event{
		Timestamp: t.clk.Now(),
		LinkID:    t.linkID,
		Layer:     log.LayerTelemetry,
		Category:  log.CategoryQueueDrop,
		QueueDrop: &log.QueueDropEvent{Queue: log.QueueRing},
	})
}

func (t *Task) logHardwareError(op string, err error) {
	if t.logger == nil {
		return
	}
	t.logger.Log(log.Event{
		Timestamp: t.clk.Now(),
		LinkID:    t.linkID,
		Layer:     log.LayerTelemetry,
		Category:  log.CategoryHardwareError,
		HardwareError: &log.HardwareErrorEvent{
			Operation: op,
			Message:   err.Error(),
		},
	})
}
