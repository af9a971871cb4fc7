// Package connwatch tracks host connectivity: the two ISR-touched globals
// (agent_connected, last_command_tick) plus the identify flag, and the
// telemetry task's 60s timeout check. The three flags are plain atomics per
// the design notes, not a mutex-guarded struct, because they are written
// from the dispatcher goroutine (standing in for interrupt context) and
// read from the telemetry goroutine with no ordering requirement beyond
// word-sized load/store.
package connwatch

import (
	"sync"
	"sync/atomic"
	"time"
)

// AgentTimeout is the agent-connectivity timeout: with no received byte for
// longer than this, the telemetry task treats the host as offline.
const AgentTimeout = 60 * time.Second

// State is the connectivity state observed by OnStateChange callbacks.
type State uint8

const (
	StateOffline State = iota
	StateConnected
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateOffline:
		return "OFFLINE"
	case StateConnected:
		return "CONNECTED"
	default:
		return "UNKNOWN"
	}
}

// Watcher holds the connectivity flags. The zero value is not usable; build
// with New or NewWithTimeout.
type Watcher struct {
	connected         atomic.Bool
	lastCommandTickNs atomic.Int64
	identifyRequested atomic.Bool
	timeout           time.Duration

	mu            sync.Mutex
	onStateChange func(old, new State)
}

// New returns a Watcher in the initial offline state, using AgentTimeout.
func New() *Watcher {
	return NewWithTimeout(AgentTimeout)
}

// NewWithTimeout returns a Watcher in the initial offline state, using
// timeout in place of AgentTimeout. An alternate board revision or test rig
// configures this via pkg/config's agent_timeout_seconds.
func NewWithTimeout(timeout time.Duration) *Watcher {
	w := &Watcher{timeout: timeout}
	w.lastCommandTickNs.Store(0)
	return w
}

// Touch records now as the last-command tick. Called by the dispatcher for
// every received byte except 'D'. Safe to call from any goroutine.
func (w *Watcher) Touch(now time.Time) {
	w.lastCommandTickNs.Store(now.UnixNano())
}

// Disconnect forces the offline state immediately, independent of the
// timeout. Called by the dispatcher on the 'D' byte.
func (w *Watcher) Disconnect() {
	w.setConnected(false)
}

// RequestIdentify sets the identify flag. Called by the dispatcher on the
// 'I' byte.
func (w *Watcher) RequestIdentify() {
	w.identifyRequested.Store(true)
}

// TakeIdentifyRequest atomically clears and returns the identify flag.
// Called once per telemetry loop iteration.
func (w *Watcher) TakeIdentifyRequest() bool {
	return w.identifyRequested.CompareAndSwap(true, false)
}

// Connected reports the current connectivity state.
func (w *Watcher) Connected() bool {
	return w.connected.Load()
}

// SetConnected forces connectivity state directly. Used by the telemetry
// task when the identify handshake re-establishes connectivity.
func (w *Watcher) SetConnected(v bool) {
	w.setConnected(v)
}

// CheckTimeout clears the connected flag if now is more than the
// configured timeout past the last recorded command tick while connected.
// Returns true if a transition to offline occurred.
func (w *Watcher) CheckTimeout(now time.Time) bool {
	if !w.connected.Load() {
		return false
	}
	last := time.Unix(0, w.lastCommandTickNs.Load())
	if now.Sub(last) > w.timeout {
		w.setConnected(false)
		return true
	}
	return false
}

func (w *Watcher) setConnected(v bool) {
	old := w.connected.Swap(v)
	if old == v {
		return
	}
	w.mu.Lock()
	fn := w.onStateChange
	w.mu.Unlock()
	if fn != nil {
		fn(boolState(old), boolState(v))
	}
}

// OnStateChange registers a callback invoked whenever connectivity flips.
func (w *Watcher) OnStateChange(fn func(old, new State)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onStateChange = fn
}

func boolState(v bool) State {
	if v {
		return StateConnected
	}
	return StateOffline
}
