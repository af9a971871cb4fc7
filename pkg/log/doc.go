// Package log provides structured trace logging for the game core.
//
// This package defines the Logger interface and Event types for capturing
// internal events at each of the three goroutines (dispatcher, game,
// telemetry). It is separate from the spec-mandated JSON telemetry wire
// format in pkg/wire - trace capture provides a complete machine-readable
// diagnostic record for debugging and bring-up, never transmitted to the
// host.
//
// # Basic Usage
//
// The supervisor configures logging through supervisor.Options.Logger:
//
//	// For development: log to console via slog
//	opts.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	opts.Logger, _ = log.NewFileLogger("/var/log/wham/device.mlog")
//
//	// Both: use MultiLogger
//	fileLogger, _ := log.NewFileLogger("/var/log/wham/device.mlog")
//	opts.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured per layer:
//   - Dispatcher: command bytes received (CommandByteEvent) and
//     command-queue drops
//   - Game: emitted game events, event-queue drops, LED/button I2C errors,
//     and pause transitions (logged by the pause controller)
//   - Telemetry: connectivity transitions, ring-buffer evictions, and
//     serial-number read errors
//
// # File Format
//
// Log files use CBOR encoding with a .mlog extension.
package log
