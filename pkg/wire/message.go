package wire

import (
	"encoding/json"
	"fmt"

	"github.com/wham/wham-go/pkg/gameevent"
)

// IdentifyFrame announces the device's hardware-derived id. Sent once per
// identify handshake, before any buffered events are flushed.
type IdentifyFrame struct {
	EventType string `json:"event_type"`
	DeviceID  string `json:"device_id"`
}

// SessionStartFrame marks the beginning of a session.
type SessionStartFrame struct {
	EventType string `json:"event_type"`
}

// PopResultFrame reports the outcome of a single pop.
type PopResultFrame struct {
	EventType  string `json:"event_type"`
	MoleID     uint8  `json:"mole_id"`
	Outcome    string `json:"outcome"`
	ReactionMs uint16 `json:"reaction_ms"`
	Lives      uint8  `json:"lives"`
	Level      uint8  `json:"lvl"`
	PopIndex   uint8  `json:"pop"`
	PopsTotal  uint8  `json:"pops_total"`
}

// LevelCompleteFrame marks the completion of one level.
type LevelCompleteFrame struct {
	EventType string `json:"event_type"`
	Level     uint8  `json:"lvl"`
}

// SessionEndFrame marks the end of a session.
type SessionEndFrame struct {
	EventType string `json:"event_type"`
	Win       bool   `json:"win"`
}

// NewIdentifyFrame builds the identify frame for deviceID.
func NewIdentifyFrame(deviceID string) IdentifyFrame {
	return IdentifyFrame{EventType: "identify", DeviceID: deviceID}
}

// EncodeEvent renders e as its canonical newline-terminated JSON frame.
func EncodeEvent(e gameevent.Event) ([]byte, error) {
	var v any
	switch e.Kind {
	case gameevent.KindSessionStart:
		v = SessionStartFrame{EventType: "session_start"}
	case gameevent.KindPopResult:
		p := e.PopResult
		v = PopResultFrame{
			EventType:  "pop_result",
			MoleID:     p.Mole,
			Outcome:    p.Outcome.String(),
			ReactionMs: p.ReactionMs,
			Lives:      p.Lives,
			Level:      p.Level,
			PopIndex:   p.PopIndex,
			PopsTotal:  p.PopsTotal,
		}
	case gameevent.KindLevelComplete:
		v = LevelCompleteFrame{EventType: "lvl_complete", Level: e.LevelComplete.Level}
	case gameevent.KindSessionEnd:
		v = SessionEndFrame{EventType: "session_end", Win: e.SessionEnd.Won}
	default:
		return nil, fmt.Errorf("wire: unknown event kind %v", e.Kind)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// EncodeIdentify renders the identify frame as a newline-terminated line.
func EncodeIdentify(deviceID string) ([]byte, error) {
	data, err := json.Marshal(NewIdentifyFrame(deviceID))
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
