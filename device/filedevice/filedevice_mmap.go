//go:build linux || darwin

package filedevice

import (
	"os"

	"golang.org/x/sys/unix"
)

type mmapBacking struct {
	data []byte
}

func newBacking(f *os.File, size uint32) (backing, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &mmapBacking{data: data}, nil
}

func (b *mmapBacking) readAt(addr uint32, dst []byte) error {
	start := int(addr)
	copy(dst, b.data[start:start+len(dst)])
	return nil
}

func (b *mmapBacking) writeAt(addr uint32, src []byte) error {
	start := int(addr)
	copy(b.data[start:start+len(src)], src)
	return nil
}

func (b *mmapBacking) close() error {
	return unix.Munmap(b.data)
}
