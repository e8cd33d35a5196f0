// Command nanofsctl creates, inspects and manipulates nanofs image
// files from the host, without mounting them.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nanofs/nanofs/cmd/internal/cmdhelper"
)

var blockSize uint32

func main() {
	root := &cobra.Command{
		Use:   "nanofsctl",
		Short: "Inspect and manipulate nanofs image files",
	}
	root.PersistentFlags().Uint32Var(&blockSize, "block-size", 256, "on-disk block size in bytes (only 256 is supported)")

	root.AddCommand(
		mkfsCmd(),
		importCmd(),
		exportCmd(),
		lsCmd(),
		catCmd(),
		rmCmd(),
		watchCmd(),
	)

	if err := root.Execute(); err != nil {
		cmdhelper.FatalFmt("%v", err)
		os.Exit(1)
	}
}
