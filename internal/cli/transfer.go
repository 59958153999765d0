package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/five82/quoted/internal/app"
	"github.com/five82/quoted/internal/transfer"
)

// resolveFormat prefers an explicit --format and falls back to the file
// extension.
func resolveFormat(flag, path string) (transfer.Format, error) {
	if flag != "" {
		return transfer.ParseFormat(flag)
	}
	if path == "" || path == "-" {
		return transfer.FormatJSON, nil
	}
	return transfer.FormatFromPath(path), nil
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Append quotes from a JSON or YAML file",
		Long: `Append every quote in a JSON or YAML list to the collection.

The file must be a list of {text, category} records. A malformed file is
rejected as a whole. Use "-" to read standard input.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := resolveFormat(format, path)
			if err != nil {
				return err
			}

			var r io.Reader = cmd.InOrStdin()
			if path != "-" {
				file, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open import file: %w", err)
				}
				defer file.Close()
				r = file
			}

			return withApp(cmd, rootOpts, func(a *app.App) error {
				n, err := a.Import(cmd.Context(), r, f)
				if n > 0 {
					fmt.Fprintln(cmd.OutOrStdout(), app.ImportedMessage(n))
				}
				if err != nil {
					return fmt.Errorf("import %s: %w", path, err)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "input format (json|yaml); default from extension")

	return cmd
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write every quote as JSON or YAML",
		Long: `Write the whole collection as a JSON or YAML list.

Without a file, or with "-", the list goes to standard output.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			f, err := resolveFormat(format, path)
			if err != nil {
				return err
			}

			return withApp(cmd, rootOpts, func(a *app.App) error {
				if path == "" || path == "-" {
					return a.Export(cmd.OutOrStdout(), f)
				}
				file, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				if err := a.Export(file, f); err != nil {
					_ = file.Close()
					return err
				}
				if err := file.Close(); err != nil {
					return fmt.Errorf("close export file: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d quote(s) exported to %s\n", a.Count(), path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format (json|yaml); default from extension")

	return cmd
}
