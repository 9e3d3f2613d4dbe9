package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"viewsync/internal/export"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var conflictMode string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore preferences from a backup",
		Long: `Restore preferences from a JSON backup created by 'viewsync export'.

View preferences are validated before they are written; invalid entries are
reported and left out.

Conflict strategies:
  - skip: keep preferences that already exist (default)
  - overwrite: replace existing preferences with the backup's

Examples:
  viewsync import backup.json
  viewsync import backup.json --conflict-strategy overwrite`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, ok := export.ParseConflictStrategy(conflictMode)
			if !ok {
				return fmt.Errorf("invalid conflict strategy: %s (use skip or overwrite)", conflictMode)
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer file.Close()

			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, a.styles.Info.Render(fmt.Sprintf("Restoring from %s...", args[0])))

			result, err := export.NewImporter(a.repo, a.logger).RestoreBackup(cmd.Context(), file, strategy)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			fmt.Fprintln(out, a.styles.Success.Render(fmt.Sprintf("✓ Imported %d preference(s)", len(result.Imported))))
			if len(result.Skipped) > 0 {
				fmt.Fprintln(out, a.styles.Warning.Render(fmt.Sprintf("  Skipped %d existing preference(s)", len(result.Skipped))))
			}
			if len(result.Invalid) > 0 {
				fmt.Fprintln(out, a.styles.Error.Render(fmt.Sprintf("  %d invalid preference(s) not imported:", len(result.Invalid))))
				names := make([]string, 0, len(result.Invalid))
				for name := range result.Invalid {
					names = append(names, name)
				}
				slices.Sort(names)
				for _, name := range names {
					fmt.Fprintf(out, "    %s: %v\n", name, result.Invalid[name])
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&conflictMode, "conflict-strategy", string(export.ConflictStrategySkip), "conflict strategy (skip, overwrite)")
	return cmd
}
