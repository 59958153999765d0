package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/five82/quoted/internal/app"
	"github.com/five82/quoted/internal/session"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath  string
	PrefsPath   string
	DBPath      string
	SessionID   string
	SessionDir  string
	RemoteURL   string
	Verbose     bool
	Ephemeral   bool
	NoPush      bool
	MetricsAddr string
}

// appOptions maps the global flags onto app options. --verbose always raises
// the file log to debug level; only subcommands also tee to stderr because the
// TUI owns the terminal.
func (o *RootOptions) appOptions(tui bool) app.Options {
	return app.Options{
		ConfigPath:  o.ConfigPath,
		PrefsPath:   o.PrefsPath,
		DBPath:      o.DBPath,
		SessionID:   o.SessionID,
		SessionDir:  o.SessionDir,
		RemoteURL:   o.RemoteURL,
		Ephemeral:   o.Ephemeral,
		Verbose:     o.Verbose && !tui,
		Debug:       o.Verbose,
		NoPush:      o.NoPush,
		MetricsAddr: o.MetricsAddr,
	}
}

// open builds the application for a subcommand. The caller must Close it.
func (o *RootOptions) open(ctx context.Context) (*app.App, error) {
	return app.New(ctx, o.appOptions(false))
}

// NewRootCommand creates the root command for the quoted CLI. Without a
// subcommand it starts the TUI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "quoted",
		Short: "quoted - a terminal quote viewer",
		Long: `Browse quotes by category, add your own, and pull new ones from a
remote source in the background.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), opts.appOptions(true))
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/quoted/config.toml)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "UI preferences file (default ~/.config/quoted/prefs.toml)")
	flags.StringVar(&opts.DBPath, "db", "", "quote database path (overrides config)")
	flags.StringVar(&opts.SessionID, "session", os.Getenv(session.EnvSessionID), "session id to resume (default $"+session.EnvSessionID+")")
	flags.StringVar(&opts.SessionDir, "session-dir", "", "directory for session files (overrides config)")
	flags.StringVar(&opts.RemoteURL, "remote", "", "remote quote source URL (overrides config)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "also log to stderr")
	flags.BoolVar(&opts.Ephemeral, "ephemeral", false, "keep quotes in memory only")
	flags.BoolVar(&opts.NoPush, "no-push", false, "do not push added quotes to the remote")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while the TUI runs")

	// Add subcommands
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewCategoriesCommand(opts))
	cmd.AddCommand(NewFilterCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewServeRemoteCommand(opts))

	return cmd
}

// withApp opens the application, runs fn and closes it, keeping the first
// error.
func withApp(cmd *cobra.Command, opts *RootOptions, fn func(a *app.App) error) (err error) {
	a, err := opts.open(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(a)
}
