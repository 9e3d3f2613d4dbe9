package reconcile

import (
	"slices"
	"strconv"
	"strings"

	"viewsync/internal/domain"
	"viewsync/internal/query"
)

const (
	ParamPage   = "page"
	ParamSearch = "search"
)

// Input is everything a view is derived from.
type Input struct {
	DefaultView domain.View
	// Persisted is nil until the user first changes the view.
	Persisted *domain.PersistedView
	// Params is nil when the view is not bound to a URL. An empty, non-nil map
	// means bound to a URL that has no query.
	Params query.Params
	// FilterFields may appear in the URL as single-value isAny filters.
	FilterFields []string
}

func (in Input) HasParams() bool {
	return in.Params != nil
}

// Base is the persisted view when there is one, the default view otherwise.
// A persisted view carries no page or search.
func (in Input) Base() domain.View {
	if in.Persisted != nil {
		return in.Persisted.WithTransient(0, "")
	}
	return in.DefaultView.Clone()
}

// ComputeView derives the view to render. The result shares no memory with in.
func ComputeView(in Input) domain.View {
	view := in.Base()

	page := ParsePage(in.Params[ParamPage])
	if page == 0 {
		page = view.Page
	}
	if page < domain.DefaultPage {
		page = domain.DefaultPage
	}
	view.Page = page

	if search := in.Params[ParamSearch]; search != "" {
		view.Search = search
	}

	view.Filters = mergeURLFilters(view.Filters, in.Params, in.FilterFields)

	return view
}

// ParsePage reads a page number from the URL. Anything other than a positive
// integer reads as 0 so the caller falls back.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 0
	}
	return page
}

// mergeURLFilters appends one isAny filter per declared field present in the
// URL and drops any other filter on that field.
func mergeURLFilters(filters []domain.Filter, params query.Params, fields []string) []domain.Filter {
	var fromURL []domain.Filter
	for _, field := range fields {
		value := params[field]
		if value == "" || slices.ContainsFunc(fromURL, func(f domain.Filter) bool { return f.Field == field }) {
			continue
		}
		fromURL = append(fromURL, domain.Filter{
			Field:    field,
			Operator: domain.OperatorIsAny,
			Value:    domain.FilterValue{value},
		})
	}
	if len(fromURL) == 0 {
		return filters
	}

	merged := make([]domain.Filter, 0, len(filters)+len(fromURL))
	for _, f := range filters {
		if !slices.ContainsFunc(fromURL, func(u domain.Filter) bool { return u.Field == f.Field }) {
			merged = append(merged, f)
		}
	}
	return append(merged, fromURL...)
}
