package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nanofs/nanofs/blockfs"
)

func catCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <image> <name>",
		Short: "Print a file's contents to stdout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, name := args[0], args[1]
			fs, dev, err := openExisting(image)
			if err != nil {
				return err
			}
			defer closeAll(fs, dev)

			h, err := fs.Open(name, blockfs.ModeRead)
			if err != nil {
				return err
			}
			defer h.Close()

			buf := make([]byte, blockfs.BlockSize)
			for {
				n, err := h.Read(buf)
				if err != nil {
					return err
				}
				if n == 0 {
					return nil
				}
				if _, err := os.Stdout.Write(buf[:n]); err != nil {
					return err
				}
			}
		},
	}
}
