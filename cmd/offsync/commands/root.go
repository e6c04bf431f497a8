// Package commands implements the CLI commands for the offsync agent.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/offsync/internal/app"
	"go.trai.ch/offsync/internal/build"
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/engine/lifecycle"
)

// CLI represents the command line interface for offsync.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Serve(ctx context.Context) error
	Install(ctx context.Context) (*lifecycle.Report, error)
	Activate(ctx context.Context) ([]string, error)
	Sync(ctx context.Context, tag string) error
	Push(ctx context.Context, payload []byte) (*domain.Notification, error)
	Click(ctx context.Context, tag, action string) error
	QueueList(ctx context.Context, dead bool) ([]domain.PendingWrite, error)
	QueueRemove(ctx context.Context, id int64) error
	Clean(ctx context.Context, opts app.CleanOptions) error
	SetJSONLogs(on bool)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "offsync",
		Short:         "Offline cache and sync agent for the Cashflow web app",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if on, _ := cmd.Flags().GetBool("json-logs"); on {
			a.SetJSONLogs(true)
		}
	}

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newActivateCmd())
	rootCmd.AddCommand(c.newSyncCmd())
	rootCmd.AddCommand(c.newPushCmd())
	rootCmd.AddCommand(c.newClickCmd())
	rootCmd.AddCommand(c.newQueueCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// SetInput sets the input stream for the root command. Used for testing.
func (c *CLI) SetInput(in io.Reader) {
	c.rootCmd.SetIn(in)
}
