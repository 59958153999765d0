package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/quoted/internal/app"
	"github.com/five82/quoted/internal/logging"
	"github.com/five82/quoted/internal/remoteserver"
)

// NewServeRemoteCommand creates the serve-remote command.
func NewServeRemoteCommand(rootOpts *RootOptions) *cobra.Command {
	var addr, seed string

	cmd := &cobra.Command{
		Use:   "serve-remote",
		Short: "Run a local stand-in for the remote quote source",
		Long: `Serve GET /posts and POST /posts on --addr so quoted can sync and push
without network access. Point remote_url (or --remote) at
http://<addr>/posts.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			posts := remoteserver.DefaultPosts()
			if seed != "" {
				loaded, err := remoteserver.LoadPosts(seed)
				if err != nil {
					return err
				}
				posts = loaded
			}

			logger, closeLog, err := logging.New(logging.Options{Verbose: true, Debug: rootOpts.Verbose})
			if err != nil {
				return err
			}
			defer closeLog()
			defer func() { _ = logger.Sync() }()

			srv := remoteserver.New(posts, logger.Named("remote"))
			fmt.Fprintf(cmd.OutOrStdout(), "serving %d post(s) on http://%s/posts\n", len(posts), addr)
			return app.Serve(cmd.Context(), addr, srv.Handler(), logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8089", "listen address")
	cmd.Flags().StringVar(&seed, "seed", "", "JSON file of posts to serve (default: built-in set)")

	return cmd
}
