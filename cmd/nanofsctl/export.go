package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nanofs/nanofs/blockfs"
)

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <image> <host-dir>",
		Short: "Write every file in a nanofs image out to host-dir",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, hostDir := args[0], args[1]
			fs, dev, err := openExisting(image)
			if err != nil {
				return err
			}
			defer closeAll(fs, dev)

			if err := os.MkdirAll(hostDir, 0755); err != nil {
				return fmt.Errorf("creating %s: %w", hostDir, err)
			}

			for {
				name, ok, err := fs.NextFile()
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				if err := exportFile(fs, hostDir, name); err != nil {
					return fmt.Errorf("exporting %s: %w", name, err)
				}
				fmt.Println(name)
			}
		},
	}
}

func exportFile(fs *blockfs.FS, hostDir, name string) error {
	dest := filepath.Join(hostDir, name)
	// namedata has no path separators by construction (open writes it
	// verbatim, but a hand-crafted or corrupt image could), so refuse
	// to write outside hostDir rather than trust it blindly.
	if !strings.HasPrefix(dest, filepath.Clean(hostDir)+string(filepath.Separator)) {
		return fmt.Errorf("refusing to export %q: escapes %s", name, hostDir)
	}

	h, err := fs.Open(name, blockfs.ModeRead)
	if err != nil {
		return err
	}
	defer h.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	buf := make([]byte, blockfs.BlockSize)
	for {
		n, err := h.Read(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if _, err := out.Write(buf[:n]); err != nil {
			return err
		}
	}
}
