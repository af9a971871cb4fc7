// Package supervisor wires the HAL, the two queues, the notify channel, and
// the dispatcher/pausectl/game/telemetry goroutines into one runnable unit,
// grounded on the teacher's DeviceService lifecycle (Start/Stop/OnEvent
// over a cancellable context). It surfaces the first hardware-init error
// before starting anything: no goroutine runs until the panel is ready.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/wham/wham-go/internal/clock"
	"github.com/wham/wham-go/internal/connwatch"
	"github.com/wham/wham-go/internal/dispatcher"
	"github.com/wham/wham-go/internal/game"
	"github.com/wham/wham-go/internal/hal"
	"github.com/wham/wham-go/internal/notify"
	"github.com/wham/wham-go/internal/pausectl"
	"github.com/wham/wham-go/internal/queue"
	"github.com/wham/wham-go/internal/rng"
	"github.com/wham/wham-go/internal/telemetry"
	"github.com/wham/wham-go/pkg/command"
	"github.com/wham/wham-go/pkg/gameevent"
	"github.com/wham/wham-go/pkg/hwmap"
	"github.com/wham/wham-go/pkg/log"
)

// Options configures one Device's collaborators. Callers normally build
// this from a resolved pkg/config.Config. AgentTimeout, RingCapacity, and
// RNGSeed fall back to their package defaults (connwatch.AgentTimeout,
// telemetry.RingCapacity, rng.Seed) when left zero, so existing callers
// that only care about the panel/link/queues are unaffected.
type Options struct {
	Panel             hal.Panel
	ButtonMap, LEDMap hwmap.Map
	Link              io.ReadWriter
	EventQueueCap     int
	CommandQueueCap   int
	Logger            log.Logger
	Clock             clock.Clock
	AgentTimeout      time.Duration
	RingCapacity      int
	RNGSeed           uint32
}

// Device is the bootstrapped, runnable unit: one HAL panel, one serial
// link, and the four goroutines that implement the spec.
type Device struct {
	opts   Options
	linkID dispatcher.LinkID

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
}

// New validates and constructs a Device. It does not touch hardware; call
// Start to initialize the panel and launch the goroutines.
func New(opts Options) *Device {
	return &Device{opts: opts, linkID: dispatcher.NewLinkID()}
}

// Start initializes the panel and launches the dispatcher, pause
// controller, game, and telemetry goroutines. It returns a wrapped
// errs.ErrHardwareInit if panel initialization fails, in which case no
// goroutine is started. Start blocks until ctx is cancelled or one
// goroutine returns an error, then stops the others and returns.
func (d *Device) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return errors.New("supervisor: already running")
	}
	d.running = true
	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.running = false
		d.mu.Unlock()
	}()

	if err := d.opts.Panel.Init(); err != nil {
		cancel()
		return fmt.Errorf("supervisor: panel init: %w", err)
	}

	agentTimeout := d.opts.AgentTimeout
	if agentTimeout <= 0 {
		agentTimeout = connwatch.AgentTimeout
	}
	ringCapacity := d.opts.RingCapacity
	if ringCapacity <= 0 {
		ringCapacity = telemetry.RingCapacity
	}
	seed := d.opts.RNGSeed
	if seed == 0 {
		seed = rng.Seed
	}

	cmdQueue := queue.NewBounded[command.Command](d.opts.CommandQueueCap)
	eventQueue := queue.NewBounded[gameevent.Event](d.opts.EventQueueCap)
	pauseSig := notify.New()
	gate := pausectl.New()
	watcher := connwatch.NewWithTimeout(agentTimeout)

	disp := dispatcher.New(d.opts.Link, cmdQueue, pauseSig, watcher, d.opts.Logger, d.linkID)
	gameTask := game.NewTaskWithSeed(d.opts.Panel, d.opts.ButtonMap, d.opts.LEDMap, cmdQueue, eventQueue, gate, d.opts.Clock, d.opts.Logger, d.linkID, seed)
	telemetryTask := telemetry.NewTaskWithRingCapacity(eventQueue, watcher, d.opts.Panel, d.opts.Clock, d.opts.Link, d.opts.Logger, d.linkID, ringCapacity)

	errCh := make(chan error, 4)
	var wg sync.WaitGroup

	run := func(fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errCh <- fn(runCtx)
		}()
	}

	run(disp.Run)
	run(func(ctx context.Context) error {
		pausectl.Run(ctx, pauseSig, gate, d.linkID, d.opts.Logger)
		return nil
	})
	run(gameTask.Run)
	run(telemetryTask.Run)

	var firstErr error
	for range 4 {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	wg.Wait()
	cancel()

	return firstErr
}

// Stop cancels the running Device's context, if any. Safe to call more
// than once and before Start.
func (d *Device) Stop() {
	d.mu.Lock()
	cancel := d.cancel
	d.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
