package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nanofs/nanofs/blockfs"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <image> <host-dir>",
		Short: "Import every regular file in host-dir into a nanofs image",
		Long: `Import copies every regular file directly under host-dir into the
image as a nanofs file of the same name. It is not recursive: the
volume has no subdirectories to copy into.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, hostDir := args[0], args[1]
			fs, dev, err := openExisting(image)
			if err != nil {
				return err
			}
			defer closeAll(fs, dev)

			entries, err := os.ReadDir(hostDir)
			if err != nil {
				return fmt.Errorf("reading %s: %w", hostDir, err)
			}

			for _, entry := range entries {
				if !entry.Type().IsRegular() {
					continue
				}
				if err := importFile(fs, filepath.Join(hostDir, entry.Name()), entry.Name()); err != nil {
					return fmt.Errorf("importing %s: %w", entry.Name(), err)
				}
				fmt.Println(entry.Name())
			}
			return nil
		},
	}
}

func importFile(fs *blockfs.FS, hostPath, name string) error {
	data, err := os.ReadFile(hostPath)
	if err != nil {
		return err
	}
	h, err := fs.Open(name, blockfs.ModeWrite)
	if err != nil {
		return err
	}
	if _, err := h.Write(data); err != nil {
		h.Close()
		return err
	}
	return h.Close()
}
