package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"viewsync/internal/catalog"
	"viewsync/internal/display"
	"viewsync/internal/domain"
	"viewsync/internal/persistentview"
	"viewsync/internal/query"
	"viewsync/internal/theme"
)

func newViewCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Show, change and reset persistent views",
		Long: `Show, change and reset the persistent view of a collection screen.

A view is computed from the stored preference (or the screen's default view)
and, when --url is given, the page, search and filter params of that URL.`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	cmd.AddCommand(
		newViewListCmd(opts),
		newViewShowCmd(opts),
		newViewUpdateCmd(opts),
		newViewResetCmd(opts),
		newViewCatalogCmd(opts),
	)
	return cmd
}

// routerFromFlag parses --url. An empty flag means the view is not URL-bound.
func routerFromFlag(rawURL string) (*query.Router, error) {
	if rawURL == "" {
		return nil, nil
	}
	router, err := query.ParseRouter(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid --url: %w", err)
	}
	return router, nil
}

func newViewListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known views and whether each is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			fmt.Fprintln(out, a.styles.Title.Render("Views"))

			headers := []string{
				a.styles.Header.Render("Slug"),
				a.styles.Header.Render("Title"),
				a.styles.Header.Render("Source"),
				a.styles.Header.Render("View"),
			}
			fmt.Fprintln(out, strings.Join(headers, " | "))
			fmt.Fprintln(out, a.styles.Separator.Render(strings.Repeat("─", 80)))

			for _, slug := range a.catalog.Slugs() {
				pv, entry, err := a.bindView(slug, nil)
				if err != nil {
					return err
				}
				state, err := pv.State(ctx)
				if err != nil {
					return fmt.Errorf("failed to load view %s: %w", slug, err)
				}

				source := theme.SourceDefault
				if state.Reset != nil {
					source = theme.SourceStored
				}

				row := []string{
					slug,
					entry.Title,
					a.styles.GetSourceStyle(source).Render(source.String()),
					state.View.Summary(),
				}
				fmt.Fprintln(out, strings.Join(row, " | "))
			}

			fmt.Fprintln(out)
			fmt.Fprintf(out, "Total: %d view(s)\n", len(a.catalog.Slugs()))
			return nil
		},
	}
}

func newViewShowCmd(opts *rootOptions) *cobra.Command {
	var (
		rawURL string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Show the computed view of a screen",
		Long: `Show the view a screen renders from: the stored view (or default), with the
page, search and filter params of --url applied.

Examples:
  viewsync view show sites
  viewsync view show sites --url "/sites?page=2&search=blog&status=active"
  viewsync view show plugins --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			router, err := routerFromFlag(rawURL)
			if err != nil {
				return err
			}

			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			pv, entry, err := a.bindView(args[0], router)
			if err != nil {
				return err
			}

			state, err := pv.State(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load view: %w", err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), state.View)
			}
			printView(cmd.OutOrStdout(), a.styles, entry, pv.PreferenceName(), state, router)
			return nil
		},
	}

	cmd.Flags().StringVar(&rawURL, "url", "", "bind the view to this URL, e.g. /sites?page=2")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the view as JSON")
	return cmd
}

type viewUpdateFlags struct {
	url          string
	viewType     string
	sort         string
	page         int
	search       string
	filters      []string
	clearFilters bool
	perPage      int
	density      string
	fields       []string
	asJSON       bool
}

func newViewUpdateCmd(opts *rootOptions) *cobra.Command {
	f := &viewUpdateFlags{}

	cmd := &cobra.Command{
		Use:   "update <slug>",
		Short: "Change a view",
		Long: `Change a view. Only the flags you pass change; everything else is kept.

Layout changes are stored. Page and search are written to --url only and are
never stored. A view changed back to the default clears the stored preference.

Filters use field=value[,value...] (isAny) or field!=value[,value...] (isNone);
field= removes the filter on field.

Examples:
  viewsync view update sites --type grid --sort name:asc
  viewsync view update sites --url "/sites?tab=mine" --page 3 --search blog
  viewsync view update domains --filter status=active,expiring --density compact`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			router, err := routerFromFlag(f.url)
			if err != nil {
				return err
			}

			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			pv, entry, err := a.bindView(args[0], router)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			current, err := pv.View(ctx)
			if err != nil {
				return fmt.Errorf("failed to load view: %w", err)
			}

			next, err := applyViewFlags(cmd, f, current)
			if err != nil {
				return err
			}

			if err := pv.UpdateView(ctx, next); err != nil {
				if errors.Is(err, domain.ErrInvalidView) {
					fmt.Fprintln(cmd.OutOrStdout(), a.styles.Error.Render(fmt.Sprintf("✗ %v", err)))
					return nil
				}
				return err
			}
			if err := a.prefs.Flush(ctx); err != nil {
				return fmt.Errorf("failed to save view: %w", err)
			}

			state, err := pv.State(ctx)
			if err != nil {
				return fmt.Errorf("failed to load view: %w", err)
			}

			if f.asJSON {
				return writeJSON(cmd.OutOrStdout(), state.View)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, a.styles.Success.Render(fmt.Sprintf("✓ View '%s' updated", args[0])))
			printView(out, a.styles, entry, pv.PreferenceName(), state, router)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.url, "url", "", "URL the view is bound to")
	flags.StringVar(&f.viewType, "type", "", "layout type: table, grid, list")
	flags.StringVar(&f.sort, "sort", "", "sort as field[:asc|desc]; empty removes sorting")
	flags.IntVar(&f.page, "page", 0, "page number (URL only)")
	flags.StringVar(&f.search, "search", "", "search text (URL only)")
	flags.StringArrayVar(&f.filters, "filter", nil, "filter as field=v1,v2 or field!=v1 (repeatable)")
	flags.BoolVar(&f.clearFilters, "clear-filters", false, "remove all filters before applying --filter")
	flags.IntVar(&f.perPage, "per-page", 0, "items per page")
	flags.StringVar(&f.density, "density", "", "layout density: compact, balanced, comfortable")
	flags.StringSliceVar(&f.fields, "fields", nil, "visible fields, comma separated")
	flags.BoolVar(&f.asJSON, "json", false, "print the resulting view as JSON")
	return cmd
}

// applyViewFlags returns current with every flag the user set applied.
func applyViewFlags(cmd *cobra.Command, f *viewUpdateFlags, current domain.View) (domain.View, error) {
	next := current.Clone()
	changed := cmd.Flags().Changed

	if changed("type") {
		next.Type = domain.ViewType(f.viewType)
	}
	if changed("sort") {
		sort, err := parseSort(f.sort)
		if err != nil {
			return next, err
		}
		next.Sort = sort
	}
	if changed("page") {
		next.Page = f.page
	}
	if changed("search") {
		next.Search = f.search
	}
	if f.clearFilters {
		next.Filters = nil
	}
	for _, raw := range f.filters {
		field, filter, err := parseFilter(raw)
		if err != nil {
			return next, err
		}
		next.Filters = setFilter(next.Filters, field, filter)
	}
	if changed("per-page") {
		next.PerPage = f.perPage
	}
	if changed("density") {
		if next.Layout == nil {
			next.Layout = &domain.Layout{}
		}
		next.Layout.Density = f.density
	}
	if changed("fields") {
		next.Fields = f.fields
	}

	return next, nil
}

// parseSort reads "field", "field:asc" or "field:desc". An empty string
// removes sorting.
func parseSort(raw string) (*domain.Sort, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	field, dir, hasDir := strings.Cut(raw, ":")
	field = strings.TrimSpace(field)
	if field == "" {
		return nil, fmt.Errorf("invalid --sort %q: missing field", raw)
	}

	direction := domain.SortAsc
	if hasDir {
		switch domain.SortDirection(strings.ToLower(strings.TrimSpace(dir))) {
		case domain.SortAsc:
		case domain.SortDesc:
			direction = domain.SortDesc
		default:
			return nil, fmt.Errorf("invalid --sort %q: direction must be asc or desc", raw)
		}
	}

	return &domain.Sort{Field: field, Direction: direction}, nil
}

// parseFilter reads "field=v1,v2" (isAny) or "field!=v1,v2" (isNone). A nil
// filter means the field's filter is removed.
func parseFilter(raw string) (string, *domain.Filter, error) {
	op := domain.OperatorIsAny
	field, values, ok := strings.Cut(raw, "!=")
	if ok {
		op = domain.OperatorIsNone
	} else if field, values, ok = strings.Cut(raw, "="); !ok {
		return "", nil, fmt.Errorf("invalid --filter %q: want field=value", raw)
	}

	field = strings.TrimSpace(field)
	if field == "" {
		return "", nil, fmt.Errorf("invalid --filter %q: missing field", raw)
	}

	var value domain.FilterValue
	for _, v := range strings.Split(values, ",") {
		if v = strings.TrimSpace(v); v != "" {
			value = append(value, v)
		}
	}
	if len(value) == 0 {
		return field, nil, nil
	}

	return field, &domain.Filter{Field: field, Operator: op, Value: value}, nil
}

// setFilter replaces the filter on field, keeping the position of an
// existing one. A nil filter removes it.
func setFilter(filters []domain.Filter, field string, filter *domain.Filter) []domain.Filter {
	out := make([]domain.Filter, 0, len(filters)+1)
	replaced := false
	for _, f := range filters {
		if f.Field != field {
			out = append(out, f)
			continue
		}
		if filter != nil && !replaced {
			out = append(out, *filter)
			replaced = true
		}
	}
	if filter != nil && !replaced {
		out = append(out, *filter)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func newViewResetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <slug>",
		Short: "Reset a view to its default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			pv, _, err := a.bindView(args[0], nil)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			if err := pv.ResetView(ctx); err != nil {
				if errors.Is(err, persistentview.ErrNothingToReset) {
					fmt.Fprintln(out, a.styles.Info.Render(fmt.Sprintf("View '%s' already uses its default.", args[0])))
					return nil
				}
				return err
			}
			if err := a.prefs.Flush(ctx); err != nil {
				return fmt.Errorf("failed to reset view: %w", err)
			}

			fmt.Fprintln(out, a.styles.Success.Render(fmt.Sprintf("✓ View '%s' reset to default", args[0])))
			return nil
		},
	}
}

func newViewCatalogCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the views file in use",
		Long: `Print the catalog of views (default view and URL filter fields per slug) as
YAML. Save the output and point views_file at it to customize defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			data, err := a.catalog.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func printView(out io.Writer, styles *theme.Styles, entry catalog.Entry, prefName string, state *persistentview.State, router *query.Router) {
	v := state.View

	source := theme.SourceDefault
	if state.Reset != nil {
		source = theme.SourceStored
	}

	title := entry.Title
	if title == "" {
		title = entry.Slug
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, styles.Title.Render(fmt.Sprintf("View: %s (%s)", title, entry.Slug)))
	fmt.Fprintf(out, "  Preference:  %s %s\n", prefName, styles.GetSourceStyle(source).Render("["+source.String()+"]"))
	fmt.Fprintf(out, "  Layout:      %s %s\n", display.GetTypeIcon(v.Type), styles.GetTypeStyle(v.Type).Render(string(v.Type)))
	fmt.Fprintf(out, "  Sort:        %s\n", display.FormatSort(v.Sort))
	fmt.Fprintf(out, "  Filters:     %s\n", display.FormatFilters(v.Filters))
	fmt.Fprintf(out, "  Search:      %s\n", display.FormatSearch(v.Search))
	fmt.Fprintf(out, "  Page:        %d\n", v.Page)
	if v.PerPage > 0 {
		fmt.Fprintf(out, "  Per page:    %d\n", v.PerPage)
	}
	if v.Layout != nil && v.Layout.Density != "" {
		fmt.Fprintf(out, "  Density:     %s\n", v.Layout.Density)
	}
	if v.Layout != nil && v.Layout.PreviewSize > 0 {
		fmt.Fprintf(out, "  Preview:     %dpx\n", v.Layout.PreviewSize)
	}
	if len(v.Fields) > 0 {
		fmt.Fprintf(out, "  Fields:      %s\n", strings.Join(v.Fields, ", "))
	}
	if router != nil {
		fmt.Fprintf(out, "  URL:         %s\n", router.URL())
	}
	fmt.Fprintln(out)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
