package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func lsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <image>",
		Short: "List the files in a nanofs image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, dev, err := openExisting(args[0])
			if err != nil {
				return err
			}
			defer closeAll(fs, dev)

			for {
				name, ok, err := fs.NextFile()
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				fmt.Println(name)
			}
		},
	}
}
