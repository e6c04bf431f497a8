package commands

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.trai.ch/offsync/internal/ui/style"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(style.Green)
	failStyle = lipgloss.NewStyle().Foreground(style.Red)
	dimStyle  = lipgloss.NewStyle().Foreground(style.Slate)
)

func (c *CLI) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Install, activate and intercept requests until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Serve(cmd.Context())
		},
	}
}

func (c *CLI) newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Precache the asset manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.app.Install(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, url := range report.Stored {
				_, _ = fmt.Fprintf(out, "%s %s\n", okStyle.Render(style.Check), url)
			}
			failed := make([]string, 0, len(report.Failed))
			for url := range report.Failed {
				failed = append(failed, url)
			}
			slices.Sort(failed)
			for _, url := range failed {
				_, _ = fmt.Fprintf(out, "%s %s %s\n", failStyle.Render(style.Cross), url,
					dimStyle.Render(report.Failed[url].Error()))
			}
			return nil
		},
	}
}

func (c *CLI) newActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate",
		Short: "Delete cache partitions of older versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			purged, err := c.app.Activate(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(purged) == 0 {
				_, _ = fmt.Fprintln(out, dimStyle.Render("no stale partitions"))
				return nil
			}
			for _, name := range purged {
				_, _ = fmt.Fprintf(out, "%s deleted %s\n", okStyle.Render(style.Check), name)
			}
			return nil
		},
	}
}
