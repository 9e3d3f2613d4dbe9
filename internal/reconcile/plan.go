package reconcile

import (
	"strconv"

	"viewsync/internal/domain"
	"viewsync/internal/query"
)

type PersistAction int

const (
	// PersistNone: the stored preference already holds this view.
	PersistNone PersistAction = iota
	// PersistWrite: store Plan.Persist under the view's preference name.
	PersistWrite
	// PersistClear: the view is back to its default, remove the preference.
	PersistClear
)

func (a PersistAction) String() string {
	switch a {
	case PersistWrite:
		return "write"
	case PersistClear:
		return "clear"
	default:
		return "none"
	}
}

// Plan is the set of side effects an updated view requires.
type Plan struct {
	Navigate   bool
	NextParams query.Params

	Action  PersistAction
	Persist domain.PersistedView
}

// OwnedParams projects a view onto the URL keys a view owns. Keys at their
// empty value are left out. A URL key reads back as a single-value isAny
// filter, so only such filters are mirrored; any other filter on a declared
// field stays out of the URL and keeps its stored form.
func OwnedParams(view domain.View, filterFields []string) query.Params {
	owned := query.Params{}

	if view.Page > domain.DefaultPage {
		owned[ParamPage] = strconv.Itoa(view.Page)
	}
	if view.Search != "" {
		owned[ParamSearch] = view.Search
	}
	for _, field := range filterFields {
		if value, ok := urlFilterValue(view, field); ok {
			owned[field] = value
		}
	}

	return owned
}

func urlFilterValue(view domain.View, field string) (string, bool) {
	f, ok := view.FilterFor(field)
	if !ok || f.Operator != domain.OperatorIsAny || len(f.Value) != 1 || f.Value[0] == "" {
		return "", false
	}
	return f.Value[0], true
}

// ownedKeys lists every key a view may write to the URL.
func ownedKeys(filterFields []string) []string {
	keys := make([]string, 0, len(filterFields)+2)
	keys = append(keys, ParamPage, ParamSearch)
	return append(keys, filterFields...)
}

// PlanUpdate works out what changing the view to newView requires.
func PlanUpdate(in Input, newView domain.View) Plan {
	var plan Plan

	if in.HasParams() {
		owned := OwnedParams(newView, in.FilterFields)
		next := in.Params.Merge(owned, ownedKeys(in.FilterFields))
		if !next.Equal(in.Params) {
			plan.Navigate = true
			plan.NextParams = next
		}
	}

	toPersist := newView.Persistable()
	defaults := in.DefaultView.Persistable()
	base := defaults
	if in.Persisted != nil {
		base = *in.Persisted
	}

	switch {
	case toPersist.Equal(base):
		plan.Action = PersistNone
	case toPersist.Equal(defaults):
		plan.Action = PersistClear
	default:
		plan.Action = PersistWrite
		plan.Persist = toPersist
	}

	return plan
}

// CanReset reports whether there is a persisted view that differs from the default.
func CanReset(in Input) bool {
	return in.Persisted != nil && !in.Persisted.Equal(in.DefaultView.PersistedView)
}
