package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/offsync/internal/core/domain"
)

func (c *CLI) newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Deliver a sync signal and replay the pending writes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tag, _ := cmd.Flags().GetString("tag")
			return c.app.Sync(cmd.Context(), tag)
		},
	}
	cmd.Flags().StringP("tag", "t", "", "Sync tag (defaults to the transaction sync tag)")
	return cmd
}

func (c *CLI) newPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push [json|-]",
		Short: "Deliver a push message and show its notification",
		Long:  "Deliver a push message. The payload is read from the argument, or from stdin when it is \"-\".",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload []byte
			if len(args) == 1 {
				payload = []byte(args[0])
				if args[0] == "-" {
					data, err := io.ReadAll(cmd.InOrStdin())
					if err != nil {
						return err
					}
					payload = data
				}
			}

			n, err := c.app.Push(cmd.Context(), payload)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(n)
		},
	}
}

func (c *CLI) newClickCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "click [action]",
		Short:     "Deliver a notification click",
		Long:      fmt.Sprintf("Deliver a notification click. %q opens the application; any other action only closes the notification.", domain.ActionExplore),
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{domain.ActionExplore, domain.ActionClose},
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, _ := cmd.Flags().GetString("tag")
			action := ""
			if len(args) == 1 {
				action = args[0]
			}
			return c.app.Click(cmd.Context(), tag, action)
		},
	}
	cmd.Flags().StringP("tag", "t", "", "Tag of the clicked notification")
	return cmd
}
