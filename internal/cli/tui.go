package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"viewsync/internal/query"
	"viewsync/internal/tui"
)

func newTUICmd(opts *rootOptions) *cobra.Command {
	var rawURL string

	cmd := &cobra.Command{
		Use:   "tui <slug>",
		Short: "Launch the interactive view editor",
		Long: `Launch an interactive editor for the view of one screen.

Layout changes are stored as you make them. Page and search only change the
in-memory URL, which is shown at the bottom; b steps back through it.

Keyboard shortcuts:
  t       Cycle layout type
  d       Cycle density
  s       Cycle sort field
  o       Toggle sort direction
  ]/[     Next/previous page
  /       Search (enter to apply, esc to cancel)
  F       Clear search
  r       Reset to the default view
  b       Go back in URL history
  R       Reload from the preference store
  q       Quit
  ?       Toggle help

Examples:
  viewsync tui sites
  viewsync tui domains --url "/domains?page=2&status=active"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]
			if rawURL == "" {
				rawURL = "/" + slug
			}
			router, err := query.ParseRouter(rawURL)
			if err != nil {
				return fmt.Errorf("invalid --url: %w", err)
			}

			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			pv, entry, err := a.bindView(slug, router)
			if err != nil {
				return err
			}

			model := tui.NewModel(cmd.Context(), pv, router, entry, a.styles)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), router.URL())
			return nil
		},
	}

	cmd.Flags().StringVar(&rawURL, "url", "", "starting URL (default /<slug>)")
	return cmd
}
