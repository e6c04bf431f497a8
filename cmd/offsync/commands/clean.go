package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/offsync/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete the cache partitions and the pending-write queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			queue, _ := cmd.Flags().GetBool("queue")
			all, _ := cmd.Flags().GetBool("all")

			opts := app.CleanOptions{}

			switch {
			case all:
				opts.Cache = true
				opts.Queue = true
			case queue:
				opts.Queue = true
			default:
				// Default: keep unsynced writes.
				opts.Cache = true
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolP("queue", "q", false, "Delete the pending-write queue, discarding unsynced writes")
	cmd.Flags().BoolP("all", "a", false, "Delete the cache partitions and the pending-write queue")

	return cmd
}
