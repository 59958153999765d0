package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/quoted/internal/app"
	"github.com/five82/quoted/internal/category"
	"github.com/five82/quoted/internal/quote"
	"github.com/five82/quoted/internal/selector"
	"github.com/five82/quoted/internal/syncer"
)

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	var text, cat string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a quote",
		Long: `Add a quote to the collection.

The quote is saved locally and, unless --no-push is set, also sent to the
remote source.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(a *app.App) error {
				q, err := a.Add(cmd.Context(), text, cat)
				if q == (quote.Quote{}) {
					return err
				}
				printQuote(cmd.OutOrStdout(), q)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "warning: quote kept for this run only, saving failed:", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "quote text")
	cmd.Flags().StringVarP(&cat, "category", "c", "", "quote category")
	_ = cmd.MarkFlagRequired("text")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	var cat string

	cmd := &cobra.Command{
		Use:           "show",
		Short:         "Print a random quote",
		Long:          "Print a random quote from the active category filter, or from --category.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(a *app.App) error {
				filter := strings.TrimSpace(cat)
				if filter == "" {
					filter = a.Filter(cmd.Context())
				}
				q, ok := a.Pick(cmd.Context(), filter)
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), selector.NoQuotesMessage)
					return nil
				}
				printQuote(cmd.OutOrStdout(), q)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&cat, "category", "c", "", "category to pick from (default: active filter)")

	return cmd
}

// NewCategoriesCommand creates the categories command.
func NewCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "categories",
		Short:         "List categories",
		Long:          "List the distinct categories. The active filter is marked with *.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(a *app.App) error {
				active := a.Filter(cmd.Context())
				out := cmd.OutOrStdout()
				for _, c := range append([]string{category.All}, a.Categories()...) {
					marker := " "
					if c == active {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %s\n", marker, c)
				}
				return nil
			})
		},
	}
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "filter [category]",
		Short: "Show or set the category filter",
		Long: `Without an argument, print the active category filter.

With an argument, persist it as the filter. Use "all" to clear it.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(a *app.App) error {
				if len(args) == 1 {
					if err := a.SetFilter(cmd.Context(), args[0]); err != nil {
						return err
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), a.Filter(cmd.Context()))
				return nil
			})
		},
	}
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "sync",
		Short:         "Fetch new quotes from the remote once",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(a *app.App) error {
				res, err := a.SyncNow(cmd.Context())
				if err != nil {
					return fmt.Errorf("sync: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(res.Merged) == 0 {
					fmt.Fprintln(out, "Already up to date")
					return nil
				}
				fmt.Fprintln(out, syncer.MergedMessage(len(res.Merged)))
				return nil
			})
		},
	}
}

func printQuote(w io.Writer, q quote.Quote) {
	fmt.Fprintf(w, "\"%s\"\n  [%s]\n", q.Text, q.Category)
}
