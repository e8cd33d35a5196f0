package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nanofs/nanofs/blockfs"
	"github.com/nanofs/nanofs/device/filedevice"
)

func mkfsCmd() *cobra.Command {
	var size uint32
	cmd := &cobra.Command{
		Use:   "mkfs <image>",
		Short: "Create and zero-fill a new nanofs image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image := args[0]
			if size == 0 {
				return fmt.Errorf("--size must be greater than 0")
			}
			dev, err := filedevice.Open(image, size)
			if err != nil {
				return err
			}
			defer dev.Close()

			cfg := blockfs.Config{Start: 0, End: size, BlockSize: blockSize}
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Printf("created %s: %d bytes, %d blocks of %d bytes\n", image, size, size/blockSize, blockSize)
			return nil
		},
	}
	cmd.Flags().Uint32Var(&size, "size", 0, "total image size in bytes (must be a multiple of --block-size)")
	return cmd
}
