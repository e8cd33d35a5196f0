package main

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchCmd is a diagnostic aid: it reports external modifications to
// the image file while it is open elsewhere. blockfs itself has no
// notion of concurrent external writers (see Non-goals); this just
// surfaces host-level file events for interactive use.
func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <image>",
		Short: "Watch a nanofs image file for external modification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image := args[0]
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			defer watcher.Close()

			if err := watcher.Add(image); err != nil {
				return err
			}

			fmt.Printf("watching %s (ctrl-c to stop)\n", image)
			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					fmt.Printf("%s: %s\n", event.Name, event.Op)
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					fmt.Printf("watch error: %v\n", err)
				}
			}
		},
	}
}
