package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	CycleType key.Binding
	Density   key.Binding

	Sort      key.Binding
	SortOrder key.Binding

	NextPage key.Binding
	PrevPage key.Binding

	Search      key.Binding
	ClearSearch key.Binding
	Confirm     key.Binding
	Cancel      key.Binding

	Reset   key.Binding
	Back    key.Binding
	Refresh key.Binding

	Quit key.Binding
	Help key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		CycleType: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle layout type"),
		),
		Density: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "cycle density"),
		),

		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle sort field"),
		),
		SortOrder: key.NewBinding(
			key.WithKeys("S", "o"),
			key.WithHelp("S/o", "toggle sort order"),
		),

		NextPage: key.NewBinding(
			key.WithKeys("]", "n", "pgdown"),
			key.WithHelp("]/n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("[", "p", "pgup"),
			key.WithHelp("[/p", "previous page"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		ClearSearch: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "clear search"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),

		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset to default"),
		),
		Back: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "url back"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R", "ctrl+r"),
			key.WithHelp("R", "reload"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.CycleType, k.Sort, k.SortOrder, k.NextPage, k.Search, k.Reset, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.CycleType, k.Density, k.Sort, k.SortOrder},
		{k.NextPage, k.PrevPage, k.Back},
		{k.Search, k.ClearSearch, k.Confirm, k.Cancel},
		{k.Reset, k.Refresh, k.Quit, k.Help},
	}
}
