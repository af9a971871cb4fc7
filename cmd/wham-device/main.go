// Command wham-device runs the Whac-A-Mole device-side control and
// telemetry subsystem: dispatcher, pause controller, game, and telemetry
// goroutines wired by internal/supervisor against a serial link.
//
// Usage:
//
//	wham-device [flags]
//
// Flags:
//
//	--config string     YAML configuration file path
//	--serial string     Serial port device path (overrides config)
//	--log-file string   CBOR trace log file path (overrides config)
//	--simulate          Use the in-memory simulated button/LED panel
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wham/wham-go/internal/clock"
	"github.com/wham/wham-go/internal/hal"
	"github.com/wham/wham-go/internal/supervisor"
	"github.com/wham/wham-go/pkg/config"
	"github.com/wham/wham-go/pkg/log"
)

var (
	configPath string
	serialPath string
	logFile    string
	simulate   bool
)

func main() {
	root := &cobra.Command{
		Use:   "wham-device",
		Short: "Run the Whac-A-Mole device control and telemetry subsystem",
		RunE:  run,
	}
	root.Flags().StringVar(&configPath, "config", "", "YAML configuration file path")
	root.Flags().StringVar(&serialPath, "serial", "", "Serial port device path (overrides config)")
	root.Flags().StringVar(&logFile, "log-file", "", "CBOR trace log file path (overrides config)")
	root.Flags().BoolVar(&simulate, "simulate", false, "Use the in-memory simulated button/LED panel")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath, viper.New())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if serialPath != "" {
		cfg.SerialPort = serialPath
	}
	if logFile != "" {
		cfg.TraceLogPath = logFile
	}

	logger, closeLogger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLogger()

	panel, err := buildPanel(simulate)
	if err != nil {
		return err
	}

	link, closeLink, err := openLink(cfg.SerialPort, simulate)
	if err != nil {
		return fmt.Errorf("opening serial link %s: %w", cfg.SerialPort, err)
	}
	defer closeLink()

	dev := supervisor.New(supervisor.Options{
		Panel:           panel,
		ButtonMap:       cfg.ButtonMap,
		LEDMap:          cfg.LEDMap,
		Link:            link,
		EventQueueCap:   cfg.EventQueueCap,
		CommandQueueCap: cfg.CommandQueueCap,
		Logger:          logger,
		Clock:           clock.System{},
		AgentTimeout:    time.Duration(cfg.AgentTimeoutSeconds) * time.Second,
		RingCapacity:    cfg.RingCapacity,
		RNGSeed:         cfg.RNGSeed,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("wham-device starting", "serial_port", cfg.SerialPort, "simulate", simulate)
	err = dev.Start(ctx)
	slog.Info("wham-device stopped", "error", err)
	return err
}

func buildLogger(cfg config.Config) (log.Logger, func(), error) {
	console := log.NewSlogAdapter(slog.Default())
	if cfg.TraceLogPath == "" {
		return console, func() {}, nil
	}
	fileLogger, err := log.NewFileLogger(cfg.TraceLogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening trace log: %w", err)
	}
	multi := log.NewMultiLogger(console, fileLogger)
	return multi, func() { _ = fileLogger.Close() }, nil
}

func buildPanel(simulate bool) (hal.Panel, error) {
	if simulate {
		return hal.NewSimulated([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01}), nil
	}
	// No real I2C backend ships with this build: every board bring-up in
	// this repository runs against hal.Simulated. See DESIGN.md.
	return nil, fmt.Errorf("wham-device: no hardware panel backend available; pass --simulate")
}

func openLink(path string, simulate bool) (linkReadWriter, func(), error) {
	if simulate || path == "" {
		rw := newLoopbackLink()
		return rw, func() { _ = rw.Close() }, nil
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
