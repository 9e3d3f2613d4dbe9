package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viewsync/internal/domain"
	"viewsync/internal/query"
)

func defaultView() domain.View {
	return domain.View{
		PersistedView: domain.PersistedView{
			Type:   domain.ViewTypeTable,
			Layout: &domain.Layout{Density: "balanced"},
			Sort:   &domain.Sort{Field: "name", Direction: domain.SortAsc},
		},
		Page:   1,
		Search: "",
	}
}

func persisted() *domain.PersistedView {
	return &domain.PersistedView{
		Type:   domain.ViewTypeGrid,
		Layout: &domain.Layout{PreviewSize: 120},
		Sort:   &domain.Sort{Field: "updated", Direction: domain.SortDesc},
		Filters: []domain.Filter{
			{Field: "status", Operator: domain.OperatorIsAny, Value: domain.FilterValue{"active"}},
		},
	}
}

func TestComputeView_DefaultFallback(t *testing.T) {
	got := ComputeView(Input{DefaultView: defaultView()})

	want := defaultView()
	want.Page = 1
	want.Search = ""
	assert.True(t, want.Equal(got), "got %+v", got)
}

func TestComputeView_DefaultPageAndSearchCarryOver(t *testing.T) {
	def := defaultView()
	def.Page = 2
	def.Search = "blog"

	got := ComputeView(Input{DefaultView: def})

	assert.Equal(t, 2, got.Page)
	assert.Equal(t, "blog", got.Search)
}

func TestComputeView_PersistedOverride(t *testing.T) {
	p := persisted()

	got := ComputeView(Input{DefaultView: defaultView(), Persisted: p})

	assert.True(t, p.WithTransient(1, "").Equal(got), "got %+v", got)
}

func TestComputeView_PersistedIgnoresDefaultTransients(t *testing.T) {
	def := defaultView()
	def.Page = 4
	def.Search = "x"

	got := ComputeView(Input{DefaultView: def, Persisted: persisted()})

	assert.Equal(t, 1, got.Page)
	assert.Equal(t, "", got.Search)
}

func TestComputeView_TransientSync(t *testing.T) {
	p := persisted()

	got := ComputeView(Input{
		DefaultView: defaultView(),
		Persisted:   p,
		Params:      query.Params{"page": "2", "search": "test"},
	})

	assert.True(t, p.WithTransient(2, "test").Equal(got), "got %+v", got)
}

func TestComputeView_PageFallbacks(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "missing", raw: "", want: 1},
		{name: "not a number", raw: "abc", want: 1},
		{name: "zero", raw: "0", want: 1},
		{name: "negative", raw: "-3", want: 1},
		{name: "valid", raw: "7", want: 7},
		{name: "padded", raw: " 5 ", want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeView(Input{DefaultView: defaultView(), Params: query.Params{"page": tt.raw}})
			assert.Equal(t, tt.want, got.Page)
		})
	}
}

func TestComputeView_FilterMerge(t *testing.T) {
	got := ComputeView(Input{
		DefaultView:  defaultView(),
		Persisted:    persisted(),
		Params:       query.Params{"domainName": "example.com"},
		FilterFields: []string{"domainName"},
	})

	require.Len(t, got.Filters, 2)
	assert.Equal(t, domain.Filter{Field: "status", Operator: domain.OperatorIsAny, Value: domain.FilterValue{"active"}}, got.Filters[0])
	assert.Equal(t, domain.Filter{Field: "domainName", Operator: domain.OperatorIsAny, Value: domain.FilterValue{"example.com"}}, got.Filters[1])
}

func TestComputeView_URLFilterSupersedesPersisted(t *testing.T) {
	got := ComputeView(Input{
		DefaultView:  defaultView(),
		Persisted:    persisted(),
		Params:       query.Params{"status": "deleted"},
		FilterFields: []string{"status", "status"},
	})

	require.Len(t, got.Filters, 1)
	assert.Equal(t, domain.FilterValue{"deleted"}, got.Filters[0].Value)
}

func TestComputeView_UndeclaredAndEmptyFieldsIgnored(t *testing.T) {
	got := ComputeView(Input{
		DefaultView:  defaultView(),
		Params:       query.Params{"plan": "pro", "domainName": ""},
		FilterFields: []string{"domainName"},
	})

	assert.Empty(t, got.Filters)
}

func TestComputeView_IsDeterministicAndDoesNotAlias(t *testing.T) {
	in := Input{
		DefaultView:  defaultView(),
		Persisted:    persisted(),
		Params:       query.Params{"page": "3", "domainName": "a.com"},
		FilterFields: []string{"domainName"},
	}

	first := ComputeView(in)
	second := ComputeView(in)
	assert.True(t, first.Equal(second))

	first.Filters[0].Value[0] = "mutated"
	first.Sort.Field = "mutated"
	assert.Equal(t, "active", in.Persisted.Filters[0].Value[0])
	assert.Equal(t, "updated", in.Persisted.Sort.Field)
}

func TestPlanUpdate_PersistStripsTransients(t *testing.T) {
	newView := domain.View{
		PersistedView: domain.PersistedView{
			Type:   domain.ViewTypeGrid,
			Layout: &domain.Layout{PreviewSize: 120},
			Sort:   &domain.Sort{Field: "name", Direction: domain.SortAsc},
		},
		Page:   1,
		Search: "",
	}

	plan := PlanUpdate(Input{DefaultView: defaultView()}, newView)

	assert.False(t, plan.Navigate)
	assert.Equal(t, PersistWrite, plan.Action)

	data, err := domain.EncodePersistedView(plan.Persist)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"grid","layout":{"previewSize":120},"sort":{"field":"name","direction":"asc"}}`, string(data))
}

func TestPlanUpdate_BackToDefaultClears(t *testing.T) {
	plan := PlanUpdate(Input{DefaultView: defaultView(), Persisted: persisted()}, defaultView())

	assert.Equal(t, PersistClear, plan.Action)
}

func TestPlanUpdate_NoChangeSkipsWrite(t *testing.T) {
	p := persisted()

	plan := PlanUpdate(Input{DefaultView: defaultView(), Persisted: p}, p.WithTransient(4, "x"))
	assert.Equal(t, PersistNone, plan.Action)

	plan = PlanUpdate(Input{DefaultView: defaultView()}, defaultView())
	assert.Equal(t, PersistNone, plan.Action, "default with nothing stored is a no-op, not a clear")
}

func TestPlanUpdate_URLKeyPruning(t *testing.T) {
	in := Input{
		DefaultView: defaultView(),
		Params:      query.Params{"page": "2", "search": "test", "tab": "all"},
	}

	newView := defaultView()
	newView.Page = 1
	newView.Search = ""

	plan := PlanUpdate(in, newView)

	require.True(t, plan.Navigate)
	assert.Equal(t, query.Params{"tab": "all"}, plan.NextParams)
	assert.Equal(t, "page=2&search=test&tab=all", in.Params.Encode(), "input params must not change")
}

func TestPlanUpdate_WritesOwnedKeys(t *testing.T) {
	in := Input{
		DefaultView:  defaultView(),
		Params:       query.Params{"tab": "all"},
		FilterFields: []string{"domainName"},
	}

	newView := defaultView()
	newView.Page = 3
	newView.Search = "shop"
	newView.Filters = []domain.Filter{
		{Field: "domainName", Operator: domain.OperatorIsAny, Value: domain.FilterValue{"example.com"}},
	}

	plan := PlanUpdate(in, newView)

	require.True(t, plan.Navigate)
	assert.Equal(t, query.Params{"tab": "all", "page": "3", "search": "shop", "domainName": "example.com"}, plan.NextParams)
}

func TestPlanUpdate_RemovedFilterDropsKey(t *testing.T) {
	in := Input{
		DefaultView:  defaultView(),
		Params:       query.Params{"domainName": "example.com"},
		FilterFields: []string{"domainName"},
	}

	plan := PlanUpdate(in, defaultView())

	require.True(t, plan.Navigate)
	assert.Empty(t, plan.NextParams)
}

func TestPlanUpdate_OnlySingleIsAnyFiltersReachTheURL(t *testing.T) {
	tests := []struct {
		name   string
		filter domain.Filter
	}{
		{
			name:   "several values",
			filter: domain.Filter{Field: "domainName", Operator: domain.OperatorIsAny, Value: domain.FilterValue{"a.com", "b.com"}},
		},
		{
			name:   "exclusion",
			filter: domain.Filter{Field: "domainName", Operator: domain.OperatorIsNone, Value: domain.FilterValue{"a.com"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{
				DefaultView:  defaultView(),
				Params:       query.Params{"domainName": "a.com", "tab": "all"},
				FilterFields: []string{"domainName"},
			}

			newView := defaultView()
			newView.Filters = []domain.Filter{tt.filter}

			assert.Empty(t, OwnedParams(newView, in.FilterFields))

			plan := PlanUpdate(in, newView)
			require.True(t, plan.Navigate)
			assert.Equal(t, query.Params{"tab": "all"}, plan.NextParams, "the stale URL filter is removed")
			require.Equal(t, PersistWrite, plan.Action)

			stored := plan.Persist
			got := ComputeView(Input{
				DefaultView:  defaultView(),
				Persisted:    &stored,
				Params:       plan.NextParams,
				FilterFields: in.FilterFields,
			})
			require.Len(t, got.Filters, 1)
			assert.Equal(t, tt.filter, got.Filters[0], "the stored filter renders unchanged")
		})
	}
}

func TestPlanUpdate_NoNavigationWhenURLAlreadyMatches(t *testing.T) {
	in := Input{
		DefaultView: defaultView(),
		Params:      query.Params{"page": "2", "tab": "all"},
	}

	newView := defaultView()
	newView.Page = 2

	plan := PlanUpdate(in, newView)

	assert.False(t, plan.Navigate)
	assert.Nil(t, plan.NextParams)
}

func TestPlanUpdate_NoParamsNeverNavigates(t *testing.T) {
	newView := defaultView()
	newView.Page = 5

	plan := PlanUpdate(Input{DefaultView: defaultView()}, newView)

	assert.False(t, plan.Navigate)
}

func TestPlanUpdate_Idempotent(t *testing.T) {
	newView := persisted().WithTransient(1, "")

	first := PlanUpdate(Input{DefaultView: defaultView()}, newView)
	require.Equal(t, PersistWrite, first.Action)

	stored := first.Persist
	second := PlanUpdate(Input{DefaultView: defaultView(), Persisted: &stored}, newView)
	assert.Equal(t, PersistNone, second.Action)
}

func TestOwnedParams(t *testing.T) {
	view := defaultView()
	view.Page = 1
	view.Filters = []domain.Filter{{Field: "plan", Operator: domain.OperatorIsAny, Value: domain.FilterValue{""}}}

	assert.Empty(t, OwnedParams(view, []string{"plan"}))
}

func TestCanReset(t *testing.T) {
	assert.False(t, CanReset(Input{DefaultView: defaultView()}))

	same := defaultView().Persistable()
	assert.False(t, CanReset(Input{DefaultView: defaultView(), Persisted: &same}))

	assert.True(t, CanReset(Input{DefaultView: defaultView(), Persisted: persisted()}))
}

func TestPersistActionString(t *testing.T) {
	assert.Equal(t, "none", PersistNone.String())
	assert.Equal(t, "write", PersistWrite.String())
	assert.Equal(t, "clear", PersistClear.String())
}
