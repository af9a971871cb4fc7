package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.mlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func TestReaderIteratesEvents(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), LinkID: "link-1", Layer: LayerDispatcher, Category: CategoryCommandByte},
		{Timestamp: time.Now(), LinkID: "link-2", Layer: LayerGame, Category: CategoryGameEvent},
		{Timestamp: time.Now(), LinkID: "link-3", Layer: LayerTelemetry, Category: CategoryStateChange},
	}

	path := createTestLogFile(t, events)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 3 {
		t.Fatalf("got %d events, want 3", len(read))
	}

	if read[0].LinkID != "link-1" {
		t.Errorf("first event LinkID = %q, want %q", read[0].LinkID, "link-1")
	}
	if read[2].LinkID != "link-3" {
		t.Errorf("last event LinkID = %q, want %q", read[2].LinkID, "link-3")
	}
}

func TestReaderHandlesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.mlog")

	logger, _ := NewFileLogger(path)
	logger.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	event, err := reader.Next()
	if err != io.EOF {
		t.Errorf("expected io.EOF, got err=%v, event=%+v", err, event)
	}
}

func TestReaderReturnsEOFAfterLastEvent(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), LinkID: "link-1", Layer: LayerDispatcher, Category: CategoryCommandByte},
	}

	path := createTestLogFile(t, events)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	_, err = reader.Next()
	if err != nil {
		t.Fatalf("first Next failed: %v", err)
	}

	_, err = reader.Next()
	if err != io.EOF {
		t.Errorf("expected io.EOF after all events, got %v", err)
	}
}

func TestReaderFilterByLinkID(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), LinkID: "link-A", Layer: LayerDispatcher, Category: CategoryCommandByte},
		{Timestamp: time.Now(), LinkID: "link-B", Layer: LayerGame, Category: CategoryGameEvent},
		{Timestamp: time.Now(), LinkID: "link-A", Layer: LayerTelemetry, Category: CategoryStateChange},
		{Timestamp: time.Now(), LinkID: "link-C", Layer: LayerDispatcher, Category: CategoryCommandByte},
	}

	path := createTestLogFile(t, events)

	filter := Filter{LinkID: "link-A"}
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 2 {
		t.Fatalf("got %d events, want 2", len(read))
	}

	for _, e := range read {
		if e.LinkID != "link-A" {
			t.Errorf("event has LinkID=%q, want %q", e.LinkID, "link-A")
		}
	}
}

func TestReaderFilterByLayer(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), LinkID: "link-1", Layer: LayerDispatcher, Category: CategoryCommandByte},
		{Timestamp: time.Now(), LinkID: "link-2", Layer: LayerGame, Category: CategoryGameEvent},
		{Timestamp: time.Now(), LinkID: "link-3", Layer: LayerGame, Category: CategoryGameEvent},
		{Timestamp: time.Now(), LinkID: "link-4", Layer: LayerTelemetry, Category: CategoryStateChange},
	}

	path := createTestLogFile(t, events)

	layer := LayerGame
	filter := Filter{Layer: &layer}
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 2 {
		t.Fatalf("got %d events, want 2", len(read))
	}

	for _, e := range read {
		if e.Layer != LayerGame {
			t.Errorf("event has Layer=%v, want %v", e.Layer, LayerGame)
		}
	}
}

func TestReaderFilterByTimeRange(t *testing.T) {
	baseTime := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)

	events := []Event{
		{Timestamp: baseTime.Add(-1 * time.Hour), LinkID: "link-1", Layer: LayerDispatcher, Category: CategoryCommandByte},
		{Timestamp: baseTime, LinkID: "link-2", Layer: LayerGame, Category: CategoryGameEvent},
		{Timestamp: baseTime.Add(30 * time.Minute), LinkID: "link-3", Layer: LayerTelemetry, Category: CategoryStateChange},
		{Timestamp: baseTime.Add(2 * time.Hour), LinkID: "link-4", Layer: LayerDispatcher, Category: CategoryCommandByte},
	}

	path := createTestLogFile(t, events)

	start := baseTime.Add(-5 * time.Minute)
	end := baseTime.Add(1 * time.Hour)
	filter := Filter{
		TimeStart: &start,
		TimeEnd:   &end,
	}
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 2 {
		t.Fatalf("got %d events, want 2 (events within time range)", len(read))
	}

	if read[0].LinkID != "link-2" {
		t.Errorf("first event LinkID = %q, want %q", read[0].LinkID, "link-2")
	}
	if read[1].LinkID != "link-3" {
		t.Errorf("second event LinkID = %q, want %q", read[1].LinkID, "link-3")
	}
}

func TestReaderFilterByDeviceID(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), LinkID: "link-1", Layer: LayerDispatcher, Category: CategoryCommandByte, DeviceID: "abc123"},
		{Timestamp: time.Now(), LinkID: "link-2", Layer: LayerTelemetry, Category: CategoryStateChange, DeviceID: "def456"},
		{Timestamp: time.Now(), LinkID: "link-3", Layer: LayerTelemetry, Category: CategoryStateChange, DeviceID: "abc123"},
	}

	path := createTestLogFile(t, events)

	filter := Filter{DeviceID: "abc123"}
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 2 {
		t.Fatalf("got %d events, want 2", len(read))
	}

	for _, e := range read {
		if e.DeviceID != "abc123" {
			t.Errorf("event has DeviceID=%q, want %q", e.DeviceID, "abc123")
		}
	}
}

func TestReaderCombinedFilters(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), LinkID: "link-A", Layer: LayerDispatcher, Category: CategoryCommandByte},
		{Timestamp: time.Now(), LinkID: "link-A", Layer: LayerGame, Category: CategoryGameEvent},
		{Timestamp: time.Now(), LinkID: "link-B", Layer: LayerGame, Category: CategoryGameEvent},
		{Timestamp: time.Now(), LinkID: "link-A", Layer: LayerGame, Category: CategoryGameEvent},
	}

	path := createTestLogFile(t, events)

	layer := LayerGame
	filter := Filter{
		LinkID: "link-A",
		Layer:  &layer,
	}
	reader, err := NewFilteredReader(path, filter)
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 2 {
		t.Fatalf("got %d events, want 2", len(read))
	}

	for _, e := range read {
		if e.LinkID != "link-A" || e.Layer != LayerGame {
			t.Error("event doesn't match all filter criteria")
		}
	}
}
