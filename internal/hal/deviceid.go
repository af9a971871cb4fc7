package hal

import (
	"encoding/hex"
	"sync"
)

// DeviceIDLen is the length of the derived device id string.
const DeviceIDLen = 10

// DeviceID derives and memoises the stable 10-character lowercase hex
// device id from a Panel's factory serial number, per the last 5 bytes.
type DeviceID struct {
	panel Panel

	once sync.Once
	id   string
	err  error
}

// NewDeviceID builds a memoising derivation wrapper around panel.
func NewDeviceID(panel Panel) *DeviceID {
	return &DeviceID{panel: panel}
}

// Get returns the derived id, computing it on first call.
func (d *DeviceID) Get() (string, error) {
	d.once.Do(func() {
		serial, err := d.panel.SerialNumber()
		if err != nil {
			d.err = err
			return
		}
		d.id, d.err = Derive(serial)
	})
	return d.id, d.err
}

// Derive computes the 10-hex-character device id from the last 5 bytes of
// a factory serial number. Serial numbers shorter than 5 bytes are
// zero-padded on the left so the id is always DeviceIDLen characters.
func Derive(serial []byte) (string, error) {
	var tail [5]byte
	n := len(serial)
	if n >= 5 {
		copy(tail[:], serial[n-5:])
	} else {
		copy(tail[5-n:], serial)
	}
	return hex.EncodeToString(tail[:])[:DeviceIDLen], nil
}
