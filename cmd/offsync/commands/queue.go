package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect the pending-write queue",
	}
	cmd.AddCommand(c.newQueueListCmd())
	cmd.AddCommand(c.newQueueRemoveCmd())
	return cmd
}

func (c *CLI) newQueueListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the writes waiting for replay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dead, _ := cmd.Flags().GetBool("dead")
			writes, err := c.app.QueueList(cmd.Context(), dead)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(writes) == 0 {
				_, _ = fmt.Fprintln(out, dimStyle.Render("queue is empty"))
				return nil
			}
			_, _ = fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("%-6s %-7s %-8s %-20s %s", "ID", "METHOD", "ATTEMPTS", "CREATED", "URL")))
			for _, w := range writes {
				_, _ = fmt.Fprintln(out, formatWrite(w))
			}
			return nil
		},
	}
	cmd.Flags().Bool("dead", false, "List writes that exhausted their replay attempts")
	return cmd
}

func formatWrite(w domain.PendingWrite) string {
	line := fmt.Sprintf("%-6d %-7s %-8d %-20s %s",
		w.ID, w.Method, w.Attempts, w.CreatedAt.UTC().Format(time.DateTime), w.URL)
	if w.LastError != "" {
		line += " " + failStyle.Render(w.LastError)
	}
	return line
}

func (c *CLI) newQueueRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Drop a write without replaying it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "invalid id"), "id", args[0])
			}
			return c.app.QueueRemove(cmd.Context(), id)
		},
	}
}
