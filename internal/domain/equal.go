package domain

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// nil and empty collections compare equal: a view decoded from storage omits
// empty fields that a freshly built view may carry as empty slices or maps.
var equalOpts = cmp.Options{
	cmpopts.EquateEmpty(),
}

// persistedFields has the fields of PersistedView without its methods, so
// cmp compares field by field instead of calling back into Equal.
type persistedFields PersistedView

func (p PersistedView) Equal(other PersistedView) bool {
	return cmp.Equal(persistedFields(p.normalized()), persistedFields(other.normalized()), equalOpts)
}

func (v View) Equal(other View) bool {
	return v.Page == other.Page &&
		v.Search == other.Search &&
		v.PersistedView.Equal(other.PersistedView)
}

// Diff reports the differences between two persisted views, for logs.
func (p PersistedView) Diff(other PersistedView) string {
	return cmp.Diff(persistedFields(p.normalized()), persistedFields(other.normalized()), equalOpts)
}

// an empty layout carries nothing and is the same as no layout
func (p PersistedView) normalized() PersistedView {
	if p.Layout != nil && p.Layout.Density == "" && p.Layout.PreviewSize == 0 && len(p.Layout.ColumnWidths) == 0 {
		p.Layout = nil
	}
	return p
}
