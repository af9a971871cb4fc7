// Package hal abstracts the I2C GPIO expander panel (buttons in, LEDs out)
// and the factory-programmed unique serial number behind a small interface,
// standing in for the vendor HAL primitives the design treats as external,
// named operations. Panel has one in-memory Simulated implementation used
// by every test and by cmd/wham-device's --simulate mode.
package hal

import (
	"errors"
	"sync"

	"github.com/wham/wham-go/pkg/errs"
	"github.com/wham/wham-go/pkg/hwmap"
)

// ErrNotSupported is returned by a Panel backend that cannot perform the
// requested operation on its platform (e.g. a simulated panel asked for a
// real bus transaction).
var ErrNotSupported = errors.New("hal: operation not supported on this backend")

// Panel is the hardware surface the game and telemetry tasks depend on.
// Implementations must treat I2C errors as transient: a single failed
// ReadButtons or WriteLEDs must not panic or block indefinitely.
type Panel interface {
	// Init configures the button-input and LED-output addresses. Returns
	// errs.ErrHardwareInit wrapped with context on failure.
	Init() error

	// ReadButtons returns the raw active-low button byte (0xFF = all
	// released) or errs.ErrI2CTransient on a bus failure.
	ReadButtons() (byte, error)

	// WriteLEDs writes the raw LED byte (0x00 = all off) or
	// errs.ErrI2CTransient on a bus failure.
	WriteLEDs(byte) error

	// SerialNumber returns the MCU's factory-programmed unique serial
	// number. Only the last 5 bytes are used by device id derivation.
	SerialNumber() ([]byte, error)
}

// I2C addresses used by the button-input and LED-output expanders.
const (
	InputAddr  = 0x68
	OutputAddr = 0x58
)

// Simulated is an in-memory Panel for tests and --simulate runs. Button
// state is injected by test code via Press/Release; LED writes are recorded
// for assertions.
type Simulated struct {
	mu       sync.Mutex
	buttons  byte // active-low
	leds     byte
	serial   []byte
	ledWrites int

	failReadsUntil  int // ReadButtons fails this many more times, then succeeds
	failWritesUntil int
}

// NewSimulated returns a Simulated panel with all buttons released, all
// LEDs off, and the given fake factory serial number.
func NewSimulated(serial []byte) *Simulated {
	return &Simulated{
		buttons: hwmap.AllReleased,
		leds:    hwmap.LEDsOff,
		serial:  serial,
	}
}

// Init is a no-op for the simulated backend; it never fails.
func (s *Simulated) Init() error {
	return nil
}

// ReadButtons returns the injected button state.
func (s *Simulated) ReadButtons() (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failReadsUntil > 0 {
		s.failReadsUntil--
		return 0, errs.ErrI2CTransient
	}
	return s.buttons, nil
}

// WriteLEDs records the LED byte.
func (s *Simulated) WriteLEDs(b byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWritesUntil > 0 {
		s.failWritesUntil--
		return errs.ErrI2CTransient
	}
	s.leds = b
	s.ledWrites++
	return nil
}

// SerialNumber returns the fake factory serial number.
func (s *Simulated) SerialNumber() ([]byte, error) {
	return s.serial, nil
}

// Press marks the button on the given physical bit as pressed by clearing
// that bit (active-low: 0 == pressed).
func (s *Simulated) Press(physicalBit byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buttons &^= 1 << physicalBit
}

// Release marks the button on the given physical bit as released by setting
// that bit (active-low: 1 == released).
func (s *Simulated) Release(physicalBit byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buttons |= 1 << physicalBit
}

// ReleaseAll restores the all-released byte.
func (s *Simulated) ReleaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buttons = hwmap.AllReleased
}

// LEDs returns the last-written LED byte, for test assertions.
func (s *Simulated) LEDs() byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leds
}

// FailNextReads makes the next n ReadButtons calls return ErrI2CTransient.
func (s *Simulated) FailNextReads(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReadsUntil = n
}

// FailNextWrites makes the next n WriteLEDs calls return ErrI2CTransient.
func (s *Simulated) FailNextWrites(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWritesUntil = n
}
