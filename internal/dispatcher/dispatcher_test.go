package dispatcher

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/wham/wham-go/internal/connwatch"
	"github.com/wham/wham-go/internal/notify"
	"github.com/wham/wham-go/internal/queue"
	"github.com/wham/wham-go/pkg/command"
)

func TestDispatcherRoutesResetAndStart(t *testing.T) {
	cmdQueue := queue.NewBounded[command.Command](8)
	pauseSig := notify.New()
	watcher := connwatch.New()

	d := New(strings.NewReader("RS"), cmdQueue, pauseSig, watcher, nil, "link-1")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	first, ok := cmdQueue.TryPop()
	if !ok || first.Kind != command.KindReset {
		t.Fatalf("expected Reset first, got %+v ok=%v", first, ok)
	}
	second, ok := cmdQueue.TryPop()
	if !ok || second.Kind != command.KindStart {
		t.Fatalf("expected Start second, got %+v ok=%v", second, ok)
	}
}

func TestDispatcherRoutesSetLevel(t *testing.T) {
	cmdQueue := queue.NewBounded[command.Command](8)
	pauseSig := notify.New()
	watcher := connwatch.New()

	d := New(strings.NewReader("5"), cmdQueue, pauseSig, watcher, nil, "link-1")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	cmd, ok := cmdQueue.TryPop()
	if !ok || cmd.Kind != command.KindSetLevel || cmd.Level != 5 {
		t.Fatalf("expected SetLevel(5), got %+v ok=%v", cmd, ok)
	}
}

func TestDispatcherPauseNotifiesSignal(t *testing.T) {
	cmdQueue := queue.NewBounded[command.Command](8)
	pauseSig := notify.New()
	watcher := connwatch.New()

	d := New(strings.NewReader("P"), cmdQueue, pauseSig, watcher, nil, "link-1")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	select {
	case <-pauseSig.Chan():
	default:
		t.Fatal("expected pause signal to be notified")
	}
}

func TestDispatcherIdentifyAndDisconnect(t *testing.T) {
	cmdQueue := queue.NewBounded[command.Command](8)
	pauseSig := notify.New()
	watcher := connwatch.New()
	watcher.SetConnected(true)

	d := New(strings.NewReader("ID"), cmdQueue, pauseSig, watcher, nil, "link-1")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !watcher.TakeIdentifyRequest() {
		t.Error("expected identify request to be set")
	}
	if watcher.Connected() {
		t.Error("expected D to force offline")
	}
}

func TestDispatcherIgnoresUnknownBytes(t *testing.T) {
	cmdQueue := queue.NewBounded[command.Command](8)
	pauseSig := notify.New()
	watcher := connwatch.New()

	d := New(strings.NewReader("9xZ"), cmdQueue, pauseSig, watcher, nil, "link-1")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, ok := cmdQueue.TryPop(); ok {
		t.Error("expected no commands enqueued from unknown bytes")
	}
}

func TestDispatcherTouchesWatcherExceptOnD(t *testing.T) {
	cmdQueue := queue.NewBounded[command.Command](8)
	pauseSig := notify.New()
	watcher := connwatch.New()
	watcher.SetConnected(true)
	watcher.Touch(time.Now().Add(-time.Hour))

	d := New(strings.NewReader("R"), cmdQueue, pauseSig, watcher, nil, "link-1")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if watcher.CheckTimeout(time.Now()) {
		t.Error("non-D byte should have refreshed the command tick")
	}
}

func TestNewLinkIDIsUnique(t *testing.T) {
	a := NewLinkID()
	b := NewLinkID()
	if a == b {
		t.Error("expected distinct link ids")
	}
}
