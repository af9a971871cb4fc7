// Package pausectl implements the pause/resume gate that the game task
// polls at its cooperative checkpoints.
package pausectl

import (
	"context"
	"sync"
)

// Gate tracks whether the game is paused and lets goroutines block until
// it resumes. It is the Go analogue of a condition variable guarding a
// single boolean, built on a replace-the-channel trick so Wait can select
// on it alongside context cancellation.
type Gate struct {
	mu        sync.Mutex
	paused    bool
	resumeCh  chan struct{}
}

// New returns a Gate that starts in the not-paused state.
func New() *Gate {
	ch := make(chan struct{})
	close(ch)
	return &Gate{resumeCh: ch}
}

// Pause puts the gate into the paused state. Callers already inside Wait
// block until the next Resume.
func (g *Gate) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused {
		return
	}
	g.paused = true
	g.resumeCh = make(chan struct{})
}

// Resume releases the gate, waking every goroutine blocked in Wait.
func (g *Gate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.paused {
		return
	}
	g.paused = false
	close(g.resumeCh)
}

// Toggle flips the current pause state.
func (g *Gate) Toggle() {
	g.mu.Lock()
	paused := g.paused
	g.mu.Unlock()
	if paused {
		g.Resume()
	} else {
		g.Pause()
	}
}

// Paused reports the current pause state.
func (g *Gate) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// Wait blocks until the gate is not paused or ctx is done. It returns
// immediately if the gate is already not paused.
func (g *Gate) Wait(ctx context.Context) error {
	g.mu.Lock()
	ch := g.resumeCh
	g.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
