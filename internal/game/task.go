// Package game implements the game task: the state machine that drives the
// LED panel, polls buttons, and emits gameevent.Event values consumed by
// the telemetry task.
package game

import (
	"context"
	"fmt"
	"time"

	"github.com/wham/wham-go/internal/clock"
	"github.com/wham/wham-go/internal/hal"
	"github.com/wham/wham-go/internal/pausectl"
	"github.com/wham/wham-go/internal/queue"
	"github.com/wham/wham-go/internal/rng"
	"github.com/wham/wham-go/pkg/command"
	"github.com/wham/wham-go/pkg/gameevent"
	"github.com/wham/wham-go/pkg/hwmap"
	"github.com/wham/wham-go/pkg/log"
)

// PopDurations is the per-level pop window, indexed by level-1. Canonical
// tuning values; do not change.
var PopDurations = [8]int{1500, 1250, 1000, 750, 600, 500, 350, 275}

const (
	Lives        = 5
	Levels       = 8
	PopsPerLevel = 10
)

// Task owns the game state machine. One Task runs on its own goroutine for
// the life of the process; NewTask wires its collaborators.
type Task struct {
	panel     hal.Panel
	buttonMap hwmap.Map
	ledMap    hwmap.Map

	cmdQueue   *queue.Bounded[command.Command]
	eventQueue *queue.Bounded[gameevent.Event]

	gate   *pausectl.Gate
	clk    clock.Clock
	logger log.Logger
	linkID string
	rng    *rng.Xorshift32
	seed   uint32

	lives              uint8
	requestedLevelIdx  int
	levelChangePending bool
	resetRequested     bool
	startRequested     bool
}

// NewTask constructs a game Task seeded with rng.Seed. buttonMap and
// ledMap are the logical to physical pin remaps for the button and LED
// panels respectively.
func NewTask(
	panel hal.Panel,
	buttonMap, ledMap hwmap.Map,
	cmdQueue *queue.Bounded[command.Command],
	eventQueue *queue.Bounded[gameevent.Event],
	gate *pausectl.Gate,
	clk clock.Clock,
	logger log.Logger,
	linkID string,
) *Task {
	return NewTaskWithSeed(panel, buttonMap, ledMap, cmdQueue, eventQueue, gate, clk, logger, linkID, rng.Seed)
}

// NewTaskWithSeed is NewTask with an explicit RNG seed, configured via
// pkg/config's rng_seed for a test rig that needs reproducible pop/target
// sequences other than the canonical one.
func NewTaskWithSeed(
	panel hal.Panel,
	buttonMap, ledMap hwmap.Map,
	cmdQueue *queue.Bounded[command.Command],
	eventQueue *queue.Bounded[gameevent.Event],
	gate *pausectl.Gate,
	clk clock.Clock,
	logger log.Logger,
	linkID string,
	seed uint32,
) *Task {
	return &Task{
		panel:      panel,
		buttonMap:  buttonMap,
		ledMap:     ledMap,
		cmdQueue:   cmdQueue,
		eventQueue: eventQueue,
		gate:       gate,
		clk:        clk,
		logger:     logger,
		linkID:     linkID,
		rng:        rng.New(seed),
		seed:       seed,
	}
}

// Run drives Idle -> Running -> Idle forever until ctx is cancelled.
func (t *Task) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		if err := t.idleLoop(ctx); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		if err := t.runSession(ctx); err != nil {
			return err
		}
	}
	return nil
}

// idleLoop animates the loader LED until start is requested, a button is
// pressed, or ctx is cancelled. A reset observed here is consumed without
// leaving Idle.
func (t *Task) idleLoop(ctx context.Context) error {
	for {
		for led := 0; led < hwmap.PanelCount; led++ {
			t.setLED(led)
			for slice := 0; slice < 50; slice++ {
				if ctx.Err() != nil {
					return nil
				}
				if err := t.gate.Wait(ctx); err != nil {
					return nil
				}

				t.drainCmdQueue()
				switch {
				case t.resetRequested:
					t.resetRequested = false
					t.levelChangePending = false
					t.startRequested = false
				case t.startRequested:
					t.startRequested = false
					return nil
				default:
					pressed, err := t.buttonPressed()
					if err != nil {
						return err
					}
					if pressed {
						return nil
					}
				}
				t.clk.Sleep(10 * time.Millisecond)
			}
		}
	}
}

// drainCmdQueue empties the command queue into the pending-intent flags.
// KindReset implies wiping the other pending flags, per the design.
func (t *Task) drainCmdQueue() {
	for {
		cmd, ok := t.cmdQueue.TryPop()
		if !ok {
			return
		}
		switch cmd.Kind {
		case command.KindReset:
			t.resetRequested = true
			t.levelChangePending = false
			t.startRequested = false
		case command.KindStart:
			t.startRequested = true
		case command.KindSetLevel:
			t.requestedLevelIdx = int(cmd.Level) - 1
			t.levelChangePending = true
		}
	}
}

// levelOutcome classifies why playLevel returned.
type levelOutcome int

const (
	levelCompleted levelOutcome = iota
	levelAbortedLevelChange
	levelAbortedReset
	levelAbortedLivesZero
)

// runSession plays Running to completion: SessionStart, levels in
// sequence, SessionEnd, then the post-session animation and delay.
func (t *Task) runSession(ctx context.Context) error {
	t.lives = Lives
	t.rng.Reseed(t.seed)
	t.drainCmdQueue()
	t.emitEvent(gameevent.NewSessionStart())

	levelIdx := t.requestedLevelIdx
	if levelIdx < 0 {
		levelIdx = 0
	}
	if levelIdx > Levels-1 {
		levelIdx = Levels - 1
	}
	t.levelChangePending = false
	t.resetRequested = false
	t.startRequested = false

	won := false
	resetAborted := false

	for levelIdx < Levels {
		if outcome, next, abort := t.checkAbort(levelIdx); abort {
			if outcome == levelAbortedLevelChange {
				levelIdx = next
				continue
			}
			resetAborted = true
			break
		}

		if err := t.playLevelAnimation(ctx, levelIdx); err != nil {
			return err
		}

		outcome, nextLevel, err := t.playLevel(ctx, levelIdx)
		if err != nil {
			return err
		}

		switch outcome {
		case levelCompleted:
			t.emitEvent(gameevent.NewLevelComplete(uint8(levelIdx + 1)))
			levelIdx++
			if levelIdx >= Levels {
				won = true
			}
		case levelAbortedLevelChange:
			levelIdx = nextLevel
		case levelAbortedReset:
			resetAborted = true
		case levelAbortedLivesZero:
		}

		if outcome == levelAbortedReset || outcome == levelAbortedLivesZero {
			break
		}
	}

	switch {
	case resetAborted:
		t.emitEvent(gameevent.NewSessionEnd(false))
	case t.lives == 0:
		t.emitEvent(gameevent.NewSessionEnd(false))
		t.sleepCheckpoint(ctx, 500*time.Millisecond)
		t.flashAll(ctx, 3, 500, 500)
	case won:
		t.emitEvent(gameevent.NewSessionEnd(true))
		t.sleepCheckpoint(ctx, 500*time.Millisecond)
		t.flashAll(ctx, 100, 50, 50)
	}

	if !resetAborted {
		t.sleepCheckpoint(ctx, 2*time.Second)
	}
	return nil
}

// checkAbort is the cooperative checkpoint used before each pop, before
// each inter-pop delay, and between levels. It drains pending commands and
// reports whether the caller must unwind to the outer loop.
func (t *Task) checkAbort(levelIdx int) (levelOutcome, int, bool) {
	t.drainCmdQueue()
	if t.resetRequested {
		t.resetRequested = false
		t.levelChangePending = false
		t.startRequested = false
		return levelAbortedReset, 0, true
	}
	if t.levelChangePending {
		next := t.requestedLevelIdx
		t.levelChangePending = false
		if next != levelIdx {
			return levelAbortedLevelChange, next, true
		}
	}
	return levelCompleted, 0, false
}

// playLevelAnimation lights level+1 LEDs, holds, flashes three times, and
// pauses before the first pop.
func (t *Task) playLevelAnimation(ctx context.Context, levelIdx int) error {
	n := levelIdx + 1
	t.setLEDs(n)
	t.sleepCheckpoint(ctx, 1000*time.Millisecond)
	for i := 0; i < 3; i++ {
		t.allLEDsOff()
		t.sleepCheckpoint(ctx, 500*time.Millisecond)
		t.setLEDs(n)
		t.sleepCheckpoint(ctx, 500*time.Millisecond)
	}
	t.allLEDsOff()
	t.sleepCheckpoint(ctx, 500*time.Millisecond)
	return nil
}

// playLevel runs the ten pops of one level, returning why it stopped.
func (t *Task) playLevel(ctx context.Context, levelIdx int) (levelOutcome, int, error) {
	for pop := 1; pop <= PopsPerLevel; pop++ {
		if outcome, next, abort := t.checkAbort(levelIdx); abort {
			return outcome, next, nil
		}

		delay := time.Duration(250+int(t.rng.Intn(751))) * time.Millisecond
		t.sleepCheckpoint(ctx, delay)

		if outcome, next, abort := t.checkAbort(levelIdx); abort {
			return outcome, next, nil
		}

		target := int(t.rng.Intn(hwmap.PanelCount))
		reactionMs, outcome, err := t.doPop(ctx, levelIdx, target)
		if err != nil {
			return levelCompleted, 0, err
		}

		t.emitEvent(gameevent.NewPopResult(gameevent.PopResult{
			Mole:       uint8(target),
			Outcome:    outcome,
			ReactionMs: reactionMs,
			Lives:      t.lives,
			Level:      uint8(levelIdx + 1),
			PopIndex:   uint8(pop),
			PopsTotal:  PopsPerLevel,
		}))

		if outcome != gameevent.Hit {
			t.lives--
			t.flashAll(ctx, 1, 100, 100)
			if t.lives == 0 {
				return levelAbortedLivesZero, 0, nil
			}
		}

		if outcome, next, abort := t.checkAbort(levelIdx); abort {
			return outcome, next, nil
		}
	}
	return levelCompleted, 0, nil
}

// doPop debounces, lights the target LED, and polls for a press, returning
// the reaction time and outcome. A persistent I2C read failure is treated
// as "all released", which degrades the pop to Late rather than retrying.
func (t *Task) doPop(ctx context.Context, levelIdx, target int) (uint16, gameevent.Outcome, error) {
	debounced := 0
	for debounced < 50 {
		if err := t.gate.Wait(ctx); err != nil {
			return 0, gameevent.Late, nil
		}
		if t.readButtons() == hwmap.AllReleased {
			break
		}
		t.clk.Sleep(10 * time.Millisecond)
		debounced += 10
	}

	t.setLED(target)
	defer t.allLEDsOff()

	duration := PopDurations[levelIdx]
	elapsed := 0
	for elapsed < duration {
		if err := t.gate.Wait(ctx); err != nil {
			return uint16(duration), gameevent.Late, nil
		}
		b := t.readButtons()
		if b != hwmap.AllReleased {
			bit := t.buttonMap.Physical(target)
			if b&(1<<bit) == 0 {
				return uint16(elapsed), gameevent.Hit, nil
			}
			return uint16(elapsed), gameevent.Miss, nil
		}
		t.clk.Sleep(5 * time.Millisecond)
		elapsed += 5
	}
	return uint16(duration), gameevent.Late, nil
}

func (t *Task) readButtons() byte {
	b, err := t.panel.ReadButtons()
	if err != nil {
		t.logHardwareError("read_buttons", err)
		return hwmap.AllReleased
	}
	return b
}

func (t *Task) buttonPressed() (bool, error) {
	b, err := t.panel.ReadButtons()
	if err != nil {
		return false, err
	}
	return b != hwmap.AllReleased, nil
}

// sleepCheckpoint subdivides d into 10ms chunks, checking the pause gate
// before each one, so a pause is observed within one chunk regardless of
// how long the delay is.
func (t *Task) sleepCheckpoint(ctx context.Context, d time.Duration) {
	const chunk = 10 * time.Millisecond
	for d > 0 {
		if ctx.Err() != nil {
			return
		}
		if err := t.gate.Wait(ctx); err != nil {
			return
		}
		step := chunk
		if d < step {
			step = d
		}
		t.clk.Sleep(step)
		d -= step
	}
}

func (t *Task) flashAll(ctx context.Context, times, onMs, offMs int) {
	full := t.ledsMask(hwmap.PanelCount)
	for i := 0; i < times; i++ {
		t.writeLEDs(full)
		t.sleepCheckpoint(ctx, time.Duration(onMs)*time.Millisecond)
		t.allLEDsOff()
		t.sleepCheckpoint(ctx, time.Duration(offMs)*time.Millisecond)
	}
}

func (t *Task) setLED(logical int) {
	t.writeLEDs(1 << t.ledMap.Physical(logical))
}

func (t *Task) setLEDs(n int) {
	t.writeLEDs(t.ledsMask(n))
}

func (t *Task) allLEDsOff() {
	t.writeLEDs(hwmap.LEDsOff)
}

func (t *Task) ledsMask(n int) byte {
	var mask byte
	for i := 0; i < n; i++ {
		mask |= 1 << t.ledMap.Physical(i)
	}
	return mask
}

func (t *Task) writeLEDs(mask byte) {
	if err := t.panel.WriteLEDs(mask); err != nil {
		t.logHardwareError("write_leds", err)
	}
}

func (t *Task) emitEvent(e gameevent.Event) {
	if !t.eventQueue.TryPush(e) {
		t.logQueueDrop(log.QueueEvent)
	}
	t.logGameEvent(e)
}

func (t *Task) logGameEvent(e gameevent.Event) {
	if t.logger == nil {
		return
	}
	payload := &log.GameEventPayload{Kind: e.Kind.String()}
	switch e.Kind {
	case gameevent.KindPopResult:
		p := e.PopResult
		payload.Summary = fmt.Sprintf("mole=%d outcome=%s reaction_ms=%d lives=%d lvl=%d pop=%d/%d",
			p.Mole, p.Outcome, p.ReactionMs, p.Lives, p.Level, p.PopIndex, p.PopsTotal)
	case gameevent.KindLevelComplete:
		payload.Summary = fmt.Sprintf("lvl=%d", e.LevelComplete.Level)
	case gameevent.KindSessionEnd:
		payload.Summary = fmt.Sprintf("won=%t", e.SessionEnd.Won)
	}
	t.logger.Log(log.Event{
		Timestamp: t.clk.Now(),
		LinkID:    t.linkID,
		Layer:     log.LayerGame,
		Category:  log.CategoryGameEvent,
		GameEvent: payload,
	})
}

func (t *Task) logQueueDrop(q log.QueueName) {
	if t.logger == nil {
		return
	}
	t.logger.Log(log.Event{
		Timestamp: t.clk.Now(),
		LinkID:    t.linkID,
		Layer:     log.LayerGame,
		Category:  log.CategoryQueueDrop,
		QueueDrop: &log.QueueDropEvent{Queue: q},
	})
}

func (t *Task) logHardwareError(op string, err error) {
	if t.logger == nil {
		return
	}
	t.logger.Log(log.Event{
		Timestamp: t.clk.Now(),
		LinkID:    t.linkID,
		Layer:     log.LayerGame,
		Category:  log.CategoryHardwareError,
		HardwareError: &log.HardwareErrorEvent{
			Operation: op,
			Message:   err.Error(),
		},
	})
}
