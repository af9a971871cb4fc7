package log

import "testing"

func TestLayerString(t *testing.T) {
	tests := []struct {
		layer Layer
		want  string
	}{
		{LayerDispatcher, "DISPATCHER"},
		{LayerGame, "GAME"},
		{LayerTelemetry, "TELEMETRY"},
		{Layer(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.layer.String()
		if got != tt.want {
			t.Errorf("Layer(%d).String() = %q, want %q", tt.layer, got, tt.want)
		}
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{CategoryCommandByte, "COMMAND_BYTE"},
		{CategoryGameEvent, "GAME_EVENT"},
		{CategoryStateChange, "STATE_CHANGE"},
		{CategoryQueueDrop, "QUEUE_DROP"},
		{CategoryHardwareError, "HARDWARE_ERROR"},
		{Category(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.cat.String()
		if got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestStateEntityString(t *testing.T) {
	tests := []struct {
		entity StateEntity
		want   string
	}{
		{StateEntityConnectivity, "CONNECTIVITY"},
		{StateEntityGameSession, "GAME_SESSION"},
		{StateEntityPause, "PAUSE"},
		{StateEntity(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.entity.String()
		if got != tt.want {
			t.Errorf("StateEntity(%d).String() = %q, want %q", tt.entity, got, tt.want)
		}
	}
}

func TestQueueNameString(t *testing.T) {
	tests := []struct {
		q    QueueName
		want string
	}{
		{QueueEvent, "EVENT_QUEUE"},
		{QueueCommand, "COMMAND_QUEUE"},
		{QueueRing, "RING_BUFFER"},
		{QueueName(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.q.String()
		if got != tt.want {
			t.Errorf("QueueName(%d).String() = %q, want %q", tt.q, got, tt.want)
		}
	}
}

func TestLayerValues(t *testing.T) {
	if LayerDispatcher != 0 {
		t.Errorf("LayerDispatcher = %d, want 0", LayerDispatcher)
	}
	if LayerGame != 1 {
		t.Errorf("LayerGame = %d, want 1", LayerGame)
	}
	if LayerTelemetry != 2 {
		t.Errorf("LayerTelemetry = %d, want 2", LayerTelemetry)
	}
}

func TestCategoryValues(t *testing.T) {
	if CategoryCommandByte != 0 {
		t.Errorf("CategoryCommandByte = %d, want 0", CategoryCommandByte)
	}
	if CategoryGameEvent != 1 {
		t.Errorf("CategoryGameEvent = %d, want 1", CategoryGameEvent)
	}
	if CategoryStateChange != 2 {
		t.Errorf("CategoryStateChange = %d, want 2", CategoryStateChange)
	}
	if CategoryQueueDrop != 3 {
		t.Errorf("CategoryQueueDrop = %d, want 3", CategoryQueueDrop)
	}
	if CategoryHardwareError != 4 {
		t.Errorf("CategoryHardwareError = %d, want 4", CategoryHardwareError)
	}
}
