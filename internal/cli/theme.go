package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"viewsync/internal/config"
	"viewsync/internal/theme"
	"viewsync/internal/tui"
)

func newThemeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Manage application theme",
		Long: `Manage application theme settings.

Run without arguments to launch the interactive theme selector TUI.
Use subcommands for direct theme management.

Examples:
  viewsync theme              # Launch interactive TUI
  viewsync theme set dracula  # Set theme directly
  viewsync theme list         # List available themes
  viewsync theme show         # Show current theme`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(tui.NewThemePicker(), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("failed to run theme TUI: %w", err)
			}

			// read config to see which theme was selected
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			fmt.Fprintf(out, "✓ Theme set to '%s'\n", cfg.ThemeName)
			return nil
		},
	}

	cmd.AddCommand(newThemeSetCmd(), newThemeListCmd(), newThemeShowCmd())
	return cmd
}

func newThemeSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <theme-name>",
		Short: "Set application theme",
		Long: `Set the application theme.

Examples:
  viewsync theme set dracula
  viewsync theme set nord`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			themeName := theme.Resolve(args[0])
			if themeName == "" {
				_, err := theme.GetTheme(args[0])
				return fmt.Errorf("%w. Run 'viewsync theme list' to see available themes", err)
			}

			if err := config.UpdateTheme(themeName); err != nil {
				return fmt.Errorf("failed to update theme: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Theme set to '%s'\n", themeName)
			return nil
		},
	}
}

func newThemeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			themeName := currentThemeName()
			styles := theme.Load(themeName)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out)
			fmt.Fprintln(out, styles.Header.Render(" Available Themes "))
			fmt.Fprintln(out)

			for _, name := range theme.ListThemes() {
				prefix := "  "
				if name == themeName {
					prefix = "▶ "
					name = styles.Success.Render(name + " (current)")
				}
				fmt.Fprintf(out, "%s%s\n", prefix, name)
			}

			fmt.Fprintln(out)
			return nil
		},
	}
}

func newThemeShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current theme",
		Long:  `Display the currently selected theme and its color palette.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			themeName := currentThemeName()

			themeObj, err := theme.GetTheme(themeName)
			if err != nil {
				return fmt.Errorf("failed to load theme: %w", err)
			}

			styles := theme.NewStyles(themeObj)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out)
			fmt.Fprintln(out, styles.Header.Render(fmt.Sprintf(" Current Theme: %s ", themeName)))
			fmt.Fprintln(out)
			fmt.Fprintln(out, styles.Info.Render("Color Palette:"))
			fmt.Fprintln(out)

			colors := []struct{ name, color string }{
				{"Primary", themeObj.Primary},
				{"Success", themeObj.Success},
				{"Error", themeObj.Error},
				{"Warning", themeObj.Warning},
				{"Info", themeObj.Info},
				{"Table", themeObj.TypeTable},
				{"Grid", themeObj.TypeGrid},
				{"List", themeObj.TypeList},
				{"Stored", themeObj.SourceStored},
				{"URL", themeObj.SourceURL},
				{"Default", themeObj.SourceDefault},
				{"Text", themeObj.TextPrimary},
				{"Border", themeObj.BorderColor},
			}

			for _, c := range colors {
				sample := styles.Cell.
					Background(lipgloss.Color(c.color)).
					Foreground(lipgloss.Color(c.color)).
					Render("  ████  ")
				fmt.Fprintf(out, "  %-12s %s %s\n", c.name+":", sample, c.color)
			}

			fmt.Fprintln(out)
			return nil
		},
	}
}

func currentThemeName() string {
	cfg, err := config.LoadConfig()
	if err != nil || cfg.ThemeName == "" {
		return "default"
	}
	return cfg.ThemeName
}
