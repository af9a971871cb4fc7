package wire

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/wham/wham-go/pkg/gameevent"
)

func TestEncodeEventSessionStart(t *testing.T) {
	data, err := EncodeEvent(gameevent.NewSessionStart())
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("frame should end with a newline")
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["event_type"] != "session_start" {
		t.Errorf("event_type = %v, want session_start", decoded["event_type"])
	}
}

func TestEncodeEventPopResult(t *testing.T) {
	event := gameevent.NewPopResult(gameevent.PopResult{
		Mole:       3,
		Outcome:    gameevent.Hit,
		ReactionMs: 245,
		Lives:      5,
		Level:      1,
		PopIndex:   1,
		PopsTotal:  10,
	})

	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	want := `{"event_type":"pop_result","mole_id":3,"outcome":"hit","reaction_ms":245,"lives":5,"lvl":1,"pop":1,"pops_total":10}` + "\n"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}

func TestEncodeEventOutcomeNames(t *testing.T) {
	tests := []struct {
		outcome gameevent.Outcome
		want    string
	}{
		{gameevent.Hit, "hit"},
		{gameevent.Miss, "miss"},
		{gameevent.Late, "late"},
	}

	for _, tt := range tests {
		event := gameevent.NewPopResult(gameevent.PopResult{Outcome: tt.outcome})
		data, err := EncodeEvent(event)
		if err != nil {
			t.Fatalf("EncodeEvent failed: %v", err)
		}
		var decoded PopResultFrame
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Outcome != tt.want {
			t.Errorf("outcome = %q, want %q", decoded.Outcome, tt.want)
		}
	}
}

func TestEncodeEventLevelComplete(t *testing.T) {
	data, err := EncodeEvent(gameevent.NewLevelComplete(4))
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	want := `{"event_type":"lvl_complete","lvl":4}` + "\n"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}

func TestEncodeEventSessionEnd(t *testing.T) {
	tests := []struct {
		won  bool
		want string
	}{
		{true, `{"event_type":"session_end","win":true}` + "\n"},
		{false, `{"event_type":"session_end","win":false}` + "\n"},
	}
	for _, tt := range tests {
		data, err := EncodeEvent(gameevent.NewSessionEnd(tt.won))
		if err != nil {
			t.Fatalf("EncodeEvent failed: %v", err)
		}
		if string(data) != tt.want {
			t.Errorf("got %q, want %q", data, tt.want)
		}
	}
}

func TestEncodeIdentify(t *testing.T) {
	data, err := EncodeIdentify("a1b2c3d4e5")
	if err != nil {
		t.Fatalf("EncodeIdentify failed: %v", err)
	}
	want := `{"event_type":"identify","device_id":"a1b2c3d4e5"}` + "\n"
	if string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}

func TestEncodeEventFieldOrderIsCanonical(t *testing.T) {
	event := gameevent.NewPopResult(gameevent.PopResult{
		Mole: 2, Outcome: gameevent.Miss, ReactionMs: 100,
		Lives: 4, Level: 2, PopIndex: 3, PopsTotal: 10,
	})
	data, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	keys := []string{"event_type", "mole_id", "outcome", "reaction_ms", "lives", "lvl", "pop", "pops_total"}
	line := string(data)
	lastIdx := -1
	for _, k := range keys {
		idx := strings.Index(line, `"`+k+`"`)
		if idx == -1 {
			t.Fatalf("missing key %q in %s", k, line)
		}
		if idx < lastIdx {
			t.Errorf("key %q out of canonical order in %s", k, line)
		}
		lastIdx = idx
	}
}
