package main

import "github.com/spf13/cobra"

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <image> <name>",
		Short: "Delete a file from a nanofs image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, name := args[0], args[1]
			fs, dev, err := openExisting(image)
			if err != nil {
				return err
			}
			defer closeAll(fs, dev)

			return fs.Delete(name)
		},
	}
}
