package pausectl

import (
	"context"
	"time"

	"github.com/wham/wham-go/internal/notify"
	"github.com/wham/wham-go/pkg/log"
)

// Run is the pause-controller goroutine. It wakes on every notify.Signal
// fired by the dispatcher for a 'P' byte and toggles the gate, logging the
// resulting pause-state transition.
func Run(ctx context.Context, sig *notify.Signal, gate *Gate, linkID string, logger log.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sig.Chan():
			from, to := "RUNNING", "PAUSED"
			if gate.Paused() {
				from, to = "PAUSED", "RUNNING"
			}
			gate.Toggle()
			if logger != nil {
				logger.Log(log.Event{
					Timestamp: time.Now(),
					LinkID:    linkID,
					Layer:     log.LayerGame,
					Category:  log.CategoryStateChange,
					StateChange: &log.StateChangeEvent{
						Entity: log.StateEntityPause,
						From:   from,
						To:     to,
					},
				})
			}
		}
	}
}
