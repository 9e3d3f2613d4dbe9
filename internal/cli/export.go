package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"viewsync/internal/export"
	"viewsync/internal/preference"
	"viewsync/internal/repository"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		output string
		format string
		prefix string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored views or create a backup",
		Long: `Export stored preferences in various formats.

Supported formats:
  - json: backup format, restorable with 'viewsync import' (default)
  - csv: one row per preference, for spreadsheets
  - markdown: stored views per namespace, human readable

By default only the view preferences of the configured namespace are
exported; use --all or --prefix to widen that.

Examples:
  viewsync export --output backup.json
  viewsync export --all --format csv --output prefs.csv
  viewsync export --format markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, ok := export.ParseFormat(format)
			if !ok {
				return fmt.Errorf("unsupported format: %s (use json, csv, or markdown)", format)
			}

			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			filter := repository.PreferenceFilter{Prefix: prefix}
			if filter.Prefix == "" && !all {
				filter.Prefix = preference.Prefix(a.cfg.Namespace)
			}

			ctx := cmd.Context()
			count, err := a.repo.Count(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to count preferences: %w", err)
			}

			status := cmd.ErrOrStderr()
			if count == 0 {
				fmt.Fprintln(status, a.styles.Info.Render("No preferences match, exporting an empty set."))
			} else {
				fmt.Fprintln(status, a.styles.Info.Render(fmt.Sprintf("Exporting %d preference(s)...", count)))
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				if dir := filepath.Dir(output); dir != "." {
					if err := os.MkdirAll(dir, 0755); err != nil {
						return fmt.Errorf("failed to create directory: %w", err)
					}
				}
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			switch exportFormat {
			case export.FormatJSON:
				err = export.NewJSONExporter(a.repo).CreateBackupToWriter(ctx, w, filter)
			case export.FormatCSV:
				err = export.NewCSVExporter(a.repo).ExportPreferencesToCSV(ctx, w, filter)
			case export.FormatMarkdown:
				err = export.NewMarkdownExporter(a.repo).ExportViewsToMarkdown(ctx, w, filter)
			}
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			if output != "" {
				fmt.Fprintln(status, a.styles.Success.Render(fmt.Sprintf("✓ Exported to %s", output)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatJSON), "export format (json, csv, markdown)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "only preferences whose name starts with this prefix")
	cmd.Flags().BoolVar(&all, "all", false, "export every preference, not only this namespace's views")
	return cmd
}
