// Command wham-console is an interactive operator shell for a device's
// serial link: it sends raw command bytes (p, r, s, 1-8, i, d) or named
// aliases and prints telemetry frames as they arrive, reconnecting with
// backoff if the port drops.
//
// Usage:
//
//	wham-console --serial /dev/ttyUSB0
//
// Commands:
//
//	pause | p          toggle pause
//	reset | r          abort to idle
//	start | s          begin a session at the last selected level
//	level N | 1-8      select level N (1-8) for the next session
//	identify | i       request an identify handshake
//	disconnect | d     hint the device to mark the host offline
//	quit | exit        leave the console
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/chzyer/readline"

	"github.com/wham/wham-go/pkg/connection"
)

// portHolder guards the current serial port handle, which is replaced on
// every reconnect by a different goroutine than the one sending commands.
type portHolder struct {
	mu sync.Mutex
	f  *os.File
}

func (h *portHolder) set(f *os.File) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.f = f
}

func (h *portHolder) get() *os.File {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.f
}

func main() {
	serialPath := flag.String("serial", "/dev/ttyUSB0", "serial port device path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var port portHolder
	mgr := connection.NewManager(func(ctx context.Context) error {
		f, err := os.OpenFile(*serialPath, os.O_RDWR, 0)
		if err != nil {
			return err
		}
		port.set(f)
		return nil
	})
	mgr.OnStateChange(func(from, to connection.State) {
		fmt.Fprintf(os.Stderr, "[link] %s -> %s\n", from, to)
	})
	mgr.StartReconnectLoop()

	if err := mgr.Connect(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "initial connect failed, will retry: %v\n", err)
		mgr.Reconnect()
	} else {
		go streamTelemetry(ctx, port.get())
	}
	mgr.OnConnected(func() {
		go streamTelemetry(ctx, port.get())
	})

	rl, err := readline.NewEx(&readline.Config{Prompt: "wham> "})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init error: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			break
		}
		cmd := strings.TrimSpace(line)
		if cmd == "" {
			continue
		}
		if cmd == "quit" || cmd == "exit" {
			break
		}
		if ctx.Err() != nil {
			break
		}

		b, ok := resolveCommand(cmd)
		if !ok {
			fmt.Printf("unrecognized command: %q\n", cmd)
			continue
		}
		if !mgr.IsConnected() {
			fmt.Println("not connected, command dropped")
			continue
		}
		if _, err := port.get().Write([]byte{b}); err != nil {
			fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
			mgr.NotifyConnectionLost()
		}
	}

	mgr.Close()
}

// resolveCommand maps a typed line to the single command byte the device
// expects. Accepts both raw bytes and named aliases.
func resolveCommand(cmd string) (byte, bool) {
	switch cmd {
	case "p", "pause":
		return 'P', true
	case "r", "reset":
		return 'R', true
	case "s", "start":
		return 'S', true
	case "i", "identify":
		return 'I', true
	case "d", "disconnect":
		return 'D', true
	}
	if len(cmd) == 1 && cmd[0] >= '1' && cmd[0] <= '8' {
		return cmd[0], true
	}
	if strings.HasPrefix(cmd, "level ") {
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(cmd, "level ")))
		if err == nil && n >= 1 && n <= 8 {
			return byte('0' + n), true
		}
	}
	return 0, false
}

// streamTelemetry prints every newline-delimited JSON frame received from
// the device until ctx is cancelled or the port errors.
func streamTelemetry(ctx context.Context, r io.Reader) {
	reader := bufio.NewReader(r)
	for ctx.Err() == nil {
		line, err := reader.ReadString('\n')
		if line != "" {
			fmt.Print(line)
		}
		if err != nil {
			return
		}
	}
}
