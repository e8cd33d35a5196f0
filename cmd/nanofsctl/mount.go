package main

import (
	"fmt"
	"os"

	"github.com/nanofs/nanofs/blockfs"
	"github.com/nanofs/nanofs/device/filedevice"
)

// openExisting mounts the image at path, sizing the device to the
// file's current length.
func openExisting(path string) (*blockfs.FS, *filedevice.Device, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, fmt.Errorf("statting %s: %w", path, err)
	}
	dev, err := filedevice.Open(path, uint32(info.Size()))
	if err != nil {
		return nil, nil, err
	}
	fs, err := blockfs.Mount(dev, blockfs.Config{Start: 0, End: dev.Size(), BlockSize: blockSize})
	if err != nil {
		dev.Close()
		return nil, nil, err
	}
	return fs, dev, nil
}

func closeAll(fs *blockfs.FS, dev *filedevice.Device) {
	fs.Unmount()
	dev.Close()
}
