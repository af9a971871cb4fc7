// Package config loads the device bootstrap configuration: serial port
// path, panel pin-map overrides, and the queue/timeout/seed constants an
// alternate board revision or test rig might need to change. An empty
// config file reproduces the spec's canonical defaults exactly.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/wham/wham-go/internal/connwatch"
	"github.com/wham/wham-go/internal/rng"
	"github.com/wham/wham-go/internal/telemetry"
	"github.com/wham/wham-go/pkg/hwmap"
)

// Config is the fully-resolved device configuration.
type Config struct {
	SerialPort string `mapstructure:"serial_port"`

	ButtonMap hwmap.Map `mapstructure:"-"`
	LEDMap    hwmap.Map `mapstructure:"-"`

	AgentTimeoutSeconds int `mapstructure:"agent_timeout_seconds"`
	RingCapacity        int `mapstructure:"ring_capacity"`
	EventQueueCap       int `mapstructure:"event_queue_cap"`
	CommandQueueCap     int `mapstructure:"command_queue_cap"`
	RNGSeed             uint32 `mapstructure:"rng_seed"`

	TraceLogPath string `mapstructure:"trace_log_path"`
}

// rawPinMap mirrors the YAML shape for an overridden pin map: eight
// physical bit positions indexed by logical position.
type rawPinMap [hwmap.PanelCount]byte

// Default returns the configuration that reproduces the spec's canonical
// constants exactly: identity pin maps, a 60s agent timeout, a 100-entry
// ring, a 32-deep event queue, an 8-deep command queue, and the fixed RNG
// seed.
func Default() Config {
	return Config{
		SerialPort:          "/dev/ttyUSB0",
		ButtonMap:           hwmap.Default,
		LEDMap:              hwmap.Default,
		AgentTimeoutSeconds: int(connwatch.AgentTimeout.Seconds()),
		RingCapacity:        telemetry.RingCapacity,
		EventQueueCap:       32,
		CommandQueueCap:     8,
		RNGSeed:             rng.Seed,
		TraceLogPath:        "",
	}
}

// Load reads path (if non-empty and present) as YAML, overlays environment
// variables prefixed WHAM_ and any flags already bound to v, and returns
// the resolved Config. A missing or empty path yields the defaults.
func Load(path string, v *viper.Viper) (Config, error) {
	cfg := Default()

	v.SetEnvPrefix("wham")
	v.AutomaticEnv()

	v.SetDefault("serial_port", cfg.SerialPort)
	v.SetDefault("agent_timeout_seconds", cfg.AgentTimeoutSeconds)
	v.SetDefault("ring_capacity", cfg.RingCapacity)
	v.SetDefault("event_queue_cap", cfg.EventQueueCap)
	v.SetDefault("command_queue_cap", cfg.CommandQueueCap)
	v.SetDefault("rng_seed", cfg.RNGSeed)
	v.SetDefault("trace_log_path", cfg.TraceLogPath)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	cfg.SerialPort = v.GetString("serial_port")
	cfg.AgentTimeoutSeconds = v.GetInt("agent_timeout_seconds")
	cfg.RingCapacity = v.GetInt("ring_capacity")
	cfg.EventQueueCap = v.GetInt("event_queue_cap")
	cfg.CommandQueueCap = v.GetInt("command_queue_cap")
	cfg.RNGSeed = uint32(v.GetUint("rng_seed"))
	cfg.TraceLogPath = v.GetString("trace_log_path")

	if v.IsSet("button_map") {
		var raw rawPinMap
		if err := v.UnmarshalKey("button_map", &raw); err != nil {
			return Config{}, fmt.Errorf("config: button_map: %w", err)
		}
		cfg.ButtonMap = hwmap.Map(raw)
	}
	if v.IsSet("led_map") {
		var raw rawPinMap
		if err := v.UnmarshalKey("led_map", &raw); err != nil {
			return Config{}, fmt.Errorf("config: led_map: %w", err)
		}
		cfg.LEDMap = hwmap.Map(raw)
	}

	return cfg, nil
}
