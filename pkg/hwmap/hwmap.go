// Package hwmap holds the logical-to-physical pin remaps for the button and
// LED panels as data, not code, loadable from YAML for board bring-up.
package hwmap

// AllReleased is the button byte value observed when no button is pressed.
// Buttons are active-low.
const AllReleased byte = 0xFF

// LEDsOff is the LED byte value with every LED hardware-off.
const LEDsOff byte = 0x00

// PanelCount is the number of logical buttons and the number of logical LEDs.
const PanelCount = 8

// Map is a logical-to-physical pin remap for one 8-wide panel (buttons or LEDs).
type Map [PanelCount]byte

// Default is the identity remap: logical index N sits on physical bit N.
// Boards that wire the panel differently load an override via pkg/config.
var Default = Map{0, 1, 2, 3, 4, 5, 6, 7}

// Physical returns the physical bit position for a logical index.
func (m Map) Physical(logical int) byte {
	return m[logical]
}
