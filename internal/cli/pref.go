package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"viewsync/internal/display"
	"viewsync/internal/domain"
	"viewsync/internal/fuzzy"
	"viewsync/internal/preference"
	"viewsync/internal/repository"
)

// searchThreshold is the lowest fuzzy score a name needs to show up in
// `pref list --search`.
const searchThreshold = 40

func newPrefCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pref",
		Short: "Inspect raw stored preferences",
		Long: `Inspect and edit raw preferences in the configured backend.

View preferences are named "<namespace>-dataviews-view-<slug>"; setting one
validates the value as a stored view.`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	cmd.AddCommand(
		newPrefListCmd(opts),
		newPrefGetCmd(opts),
		newPrefSetCmd(opts),
		newPrefDeleteCmd(opts),
	)
	return cmd
}

func newPrefListCmd(opts *rootOptions) *cobra.Command {
	var (
		prefix string
		search string
		limit  int
		all    bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored preferences",
		Long: `List stored preferences. By default only the view preferences of the
configured namespace are listed; use --all or --prefix to widen that.

--search ranks names by fuzzy match, so "stes" finds "...-view-sites".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			filter := repository.PreferenceFilter{Prefix: prefix}
			if filter.Prefix == "" && !all {
				filter.Prefix = preference.Prefix(a.cfg.Namespace)
			}
			if search == "" {
				filter.Limit = limit
			}

			prefs, err := a.repo.List(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("failed to list preferences: %w", err)
			}

			if search != "" {
				prefs = rankPreferences(prefs, search)
				if limit > 0 && len(prefs) > limit {
					prefs = prefs[:limit]
				}
			}

			out := cmd.OutOrStdout()
			if len(prefs) == 0 {
				fmt.Fprintln(out, a.styles.Info.Render("No preferences found."))
				return nil
			}

			headers := []string{
				a.styles.Header.Render("Name"),
				a.styles.Header.Render("Updated"),
				a.styles.Header.Render("Value"),
			}
			fmt.Fprintln(out, strings.Join(headers, " | "))
			fmt.Fprintln(out, a.styles.Separator.Render(strings.Repeat("─", 80)))

			now := time.Now()
			for _, p := range prefs {
				row := []string{
					p.Name,
					display.FormatAge(p.UpdatedAt, now),
					display.Truncate(summarizeValue(p), 60),
				}
				fmt.Fprintln(out, strings.Join(row, " | "))
			}

			fmt.Fprintln(out)
			fmt.Fprintf(out, "Total: %d preference(s)\n", len(prefs))
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "only names starting with this prefix")
	cmd.Flags().StringVarP(&search, "search", "s", "", "fuzzy search on names")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results")
	cmd.Flags().BoolVar(&all, "all", false, "list every preference, not only this namespace's views")
	return cmd
}

// rankPreferences keeps the preferences whose name fuzzy-matches search,
// best match first.
func rankPreferences(prefs []*domain.Preference, search string) []*domain.Preference {
	byName := make(map[string]*domain.Preference, len(prefs))
	names := make([]string, 0, len(prefs))
	for _, p := range prefs {
		byName[p.Name] = p
		names = append(names, p.Name)
	}

	matches := fuzzy.Rank(search, names, searchThreshold)
	out := make([]*domain.Preference, 0, len(matches))
	for _, m := range matches {
		out = append(out, byName[m.Text])
	}
	return out
}

// summarizeValue renders view preferences as a one-line summary and
// anything else as compact JSON.
func summarizeValue(p *domain.Preference) string {
	if _, _, ok := preference.ParseName(p.Name); ok {
		if pv, err := domain.DecodePersistedView(p.Value); err == nil {
			return pv.WithTransient(domain.DefaultPage, "").Summary()
		}
	}
	return string(p.Value)
}

func newPrefGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Print a stored preference as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.repo.Get(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("preference %q is not set", args[0])
				}
				return err
			}

			var value any
			if err := json.Unmarshal(p.Value, &value); err != nil {
				return fmt.Errorf("stored value is not valid JSON: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), value)
		},
	}
}

func newPrefSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <json>",
		Short: "Store a preference",
		Long: `Store a raw JSON preference. "null" clears it.

Examples:
  viewsync pref set dashboard-dataviews-view-sites '{"type":"grid"}'
  viewsync pref set dashboard-dataviews-view-sites null`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, raw := args[0], json.RawMessage(args[1])

			if err := domain.ValidatePreferenceName(name); err != nil {
				return err
			}
			if !json.Valid(raw) {
				return fmt.Errorf("value is not valid JSON")
			}
			if _, _, ok := preference.ParseName(name); ok && string(raw) != "null" {
				if _, err := domain.DecodePersistedView(raw); err != nil {
					return err
				}
			}

			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if string(raw) == "null" {
				raw = nil
			}
			if err := a.prefs.Store(cmd.Context(), name, raw); err != nil {
				return fmt.Errorf("failed to store preference: %w", err)
			}

			msg := fmt.Sprintf("✓ Preference '%s' saved", name)
			if raw == nil {
				msg = fmt.Sprintf("✓ Preference '%s' cleared", name)
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.styles.Success.Render(msg))
			return nil
		},
	}
}

func newPrefDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a stored preference",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.repo.Delete(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("preference %q is not set", args[0])
				}
				return err
			}
			a.prefs.Invalidate(args[0])

			fmt.Fprintln(cmd.OutOrStdout(), a.styles.Success.Render(fmt.Sprintf("✓ Preference '%s' deleted", args[0])))
			return nil
		},
	}
}
