package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger.
// Useful for development when you want to see device internals on console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("link_id", event.LinkID),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.DeviceID != "" {
		attrs = append(attrs, slog.String("device_id", event.DeviceID))
	}

	switch {
	case event.CommandByte != nil:
		attrs = append(attrs,
			slog.String("byte", string(event.CommandByte.Byte)),
			slog.Bool("ignored", event.CommandByte.Ignored),
		)
		if event.CommandByte.Note != "" {
			attrs = append(attrs, slog.String("note", event.CommandByte.Note))
		}
	case event.GameEvent != nil:
		attrs = append(attrs, slog.String("kind", event.GameEvent.Kind))
		if event.GameEvent.Summary != "" {
			attrs = append(attrs, slog.String("summary", event.GameEvent.Summary))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("from", event.StateChange.From),
			slog.String("to", event.StateChange.To),
		)
	case event.QueueDrop != nil:
		attrs = append(attrs, slog.String("queue", event.QueueDrop.Queue.String()))
	case event.HardwareError != nil:
		attrs = append(attrs,
			slog.String("operation", event.HardwareError.Operation),
			slog.String("error", event.HardwareError.Message),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "trace", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
