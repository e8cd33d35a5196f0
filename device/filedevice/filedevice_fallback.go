//go:build !linux && !darwin

package filedevice

import "os"

type fileBacking struct {
	f *os.File
}

func newBacking(f *os.File, size uint32) (backing, error) {
	return &fileBacking{f: f}, nil
}

func (b *fileBacking) readAt(addr uint32, dst []byte) error {
	_, err := b.f.ReadAt(dst, int64(addr))
	return err
}

func (b *fileBacking) writeAt(addr uint32, src []byte) error {
	_, err := b.f.WriteAt(src, int64(addr))
	return err
}

func (b *fileBacking) close() error {
	return nil
}
