// Package filedevice implements blockfs.Device over a host file,
// standing in for raw flash: Open memory-maps the file on platforms
// where that's available (see filedevice_mmap.go), and falls back to
// plain ReadAt/WriteAt syscalls elsewhere (filedevice_fallback.go).
package filedevice

import (
	"fmt"
	"os"
)

// Device is a blockfs.Device backed by a single host file of fixed
// size. The zero value is not usable; construct one with Open.
type Device struct {
	f    *os.File
	size uint32
	impl backing
}

// backing is the platform-specific I/O strategy: mmap where
// available, read/write syscalls otherwise.
type backing interface {
	readAt(addr uint32, dst []byte) error
	writeAt(addr uint32, src []byte) error
	close() error
}

// Open opens (creating if needed) the image file at path and resizes
// it to size bytes if it is smaller. It returns an error if the file
// is larger than size, since truncating an existing image would
// silently discard blocks.
func Open(path string, size uint32) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("filedevice: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("filedevice: stat %s: %w", path, err)
	}
	if uint32(info.Size()) > size {
		f.Close()
		return nil, fmt.Errorf("filedevice: %s is %d bytes, larger than requested size %d", path, info.Size(), size)
	}
	if uint32(info.Size()) < size {
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, fmt.Errorf("filedevice: growing %s to %d bytes: %w", path, size, err)
		}
	}

	impl, err := newBacking(f, size)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Device{f: f, size: size, impl: impl}, nil
}

func (d *Device) ReadAt(addr uint32, dst []byte) error {
	if uint64(addr)+uint64(len(dst)) > uint64(d.size) {
		return fmt.Errorf("filedevice: read [%d, %d) out of bounds (size %d)", addr, uint64(addr)+uint64(len(dst)), d.size)
	}
	return d.impl.readAt(addr, dst)
}

func (d *Device) WriteAt(addr uint32, src []byte) error {
	if uint64(addr)+uint64(len(src)) > uint64(d.size) {
		return fmt.Errorf("filedevice: write [%d, %d) out of bounds (size %d)", addr, uint64(addr)+uint64(len(src)), d.size)
	}
	return d.impl.writeAt(addr, src)
}

// Close unmaps (if mapped) and closes the backing file.
func (d *Device) Close() error {
	if err := d.impl.close(); err != nil {
		d.f.Close()
		return err
	}
	return d.f.Close()
}

// Size returns the device's total size in bytes.
func (d *Device) Size() uint32 { return d.size }
