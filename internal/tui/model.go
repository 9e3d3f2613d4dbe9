package tui

import (
	"context"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"viewsync/internal/catalog"
	"viewsync/internal/domain"
	"viewsync/internal/persistentview"
	"viewsync/internal/query"
	"viewsync/internal/theme"
)

var (
	viewTypes = []domain.ViewType{domain.ViewTypeTable, domain.ViewTypeGrid, domain.ViewTypeList}
	densities = []string{"compact", "balanced", "comfortable"}
)

// Model edits one persistent view. Every change goes through UpdateView, so
// the screen behaves like a collection page bound to the router's URL.
type Model struct {
	ctx    context.Context
	pv     *persistentview.PersistentView
	router *query.Router
	entry  catalog.Entry

	view     domain.View
	canReset bool
	loaded   bool

	searching   bool
	searchInput textinput.Model

	keys   keyMap
	help   help.Model
	styles *theme.Styles

	status   string
	err      error
	width    int
	height   int
	quitting bool
}

func NewModel(ctx context.Context, pv *persistentview.PersistentView, router *query.Router, entry catalog.Entry, styles *theme.Styles) Model {
	if styles == nil {
		styles = theme.Load("")
	}

	ti := textinput.New()
	ti.Placeholder = "search..."
	ti.CharLimit = 100
	ti.Width = 40

	return Model{
		ctx:         ctx,
		pv:          pv,
		router:      router,
		entry:       entry,
		searchInput: ti,
		keys:        defaultKeyMap(),
		help:        help.New(),
		styles:      styles,
		width:       100,
		height:      30,
	}
}

func (m Model) Init() tea.Cmd {
	return loadViewCmd(m.ctx, m.pv, "")
}

// CurrentView returns the view currently on screen.
func (m Model) CurrentView() domain.View {
	return m.view.Clone()
}

func nextViewType(t domain.ViewType) domain.ViewType {
	i := slices.Index(viewTypes, t)
	return viewTypes[(i+1)%len(viewTypes)]
}

func nextDensity(layout *domain.Layout) string {
	current := ""
	if layout != nil {
		current = layout.Density
	}
	i := slices.Index(densities, current)
	return densities[(i+1)%len(densities)]
}

// nextSort moves to the following sort field, keeping the direction.
func nextSort(sort *domain.Sort, fields []string) *domain.Sort {
	if len(fields) == 0 {
		return sort
	}
	if sort == nil {
		return &domain.Sort{Field: fields[0], Direction: domain.SortAsc}
	}
	i := slices.Index(fields, sort.Field)
	return &domain.Sort{Field: fields[(i+1)%len(fields)], Direction: sort.Direction}
}

func toggleDirection(sort *domain.Sort) *domain.Sort {
	if sort == nil {
		return nil
	}
	next := *sort
	if next.Direction == domain.SortAsc {
		next.Direction = domain.SortDesc
	} else {
		next.Direction = domain.SortAsc
	}
	return &next
}
