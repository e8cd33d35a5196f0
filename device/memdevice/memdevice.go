// Package memdevice implements blockfs.Device entirely in RAM. It
// exists for tests and for short-lived filesystems that never need to
// survive a process restart.
package memdevice

import "fmt"

// Device is an in-RAM block device of a fixed size. The zero value is
// not usable; construct one with New.
type Device struct {
	data []byte
}

// New returns a Device of size bytes, all zeroed.
func New(size uint32) *Device {
	return &Device{data: make([]byte, size)}
}

// ReadAt copies len(dst) bytes starting at addr into dst.
func (d *Device) ReadAt(addr uint32, dst []byte) error {
	end := uint64(addr) + uint64(len(dst))
	if end > uint64(len(d.data)) {
		return fmt.Errorf("memdevice: read [%d, %d) out of bounds (size %d)", addr, end, len(d.data))
	}
	copy(dst, d.data[addr:end])
	return nil
}

// WriteAt copies src into the device starting at addr.
func (d *Device) WriteAt(addr uint32, src []byte) error {
	end := uint64(addr) + uint64(len(src))
	if end > uint64(len(d.data)) {
		return fmt.Errorf("memdevice: write [%d, %d) out of bounds (size %d)", addr, end, len(d.data))
	}
	copy(d.data[addr:end], src)
	return nil
}

// Size returns the total size of the device in bytes.
func (d *Device) Size() uint32 { return uint32(len(d.data)) }

// Snapshot returns a copy of the device's current contents, for tests
// that want to assert on raw bytes.
func (d *Device) Snapshot() []byte {
	out := make([]byte, len(d.data))
	copy(out, d.data)
	return out
}
