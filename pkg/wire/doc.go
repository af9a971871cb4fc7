// Package wire defines the newline-delimited JSON telemetry frames sent
// from the device to the host, and the encoder that renders each
// gameevent.Event as one frame.
//
// # Frame shapes
//
// There are five frame types, one line each, always newline-terminated:
//
//	{"event_type":"identify","device_id":"<id>"}
//	{"event_type":"session_start"}
//	{"event_type":"pop_result","mole_id":<m>,"outcome":"hit|miss|late","reaction_ms":<r>,"lives":<l>,"lvl":<v>,"pop":<p>,"pops_total":<t>}
//	{"event_type":"lvl_complete","lvl":<v>}
//	{"event_type":"session_end","win":<true|false>}
//
// Field order is canonical: it follows struct declaration order, which Go's
// encoding/json preserves.
//
// # Relationship to pkg/log
//
// This is the host-facing wire format. It is unrelated to the CBOR trace
// log in pkg/log, which records internal dispatcher/game/telemetry
// diagnostics for offline debugging and is never sent to the host.
package wire
