// Package connection provides connection lifecycle management for the
// wham-console serial client.
//
// This package handles:
//   - Exponential backoff for reconnection attempts
//   - Jitter to prevent thundering herd when several consoles share a host
//   - Connection state tracking
//   - Automatic reconnection on serial port loss
//
// # Reconnection Strategy
//
// When the serial connection is lost, the console uses exponential backoff:
//
//  1. Initial delay: 1 second
//  2. Exponential increase: 2s, 4s, 8s, 16s, 32s
//  3. Maximum delay: 60 seconds
//  4. Continue at 60s until successful
//  5. Reset to 1s on successful reconnection
//
// # Jitter
//
// To prevent thundering herd when multiple consoles reconnect:
//
//	actual_delay = base_delay + random(0, base_delay * 0.25)
//
// # Success Criteria
//
// A reconnection is successful once the ConnectFunc returns nil (for
// wham-console: the serial port reopens). The Manager does not wait for any
// frame from the device.
package connection
