package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"viewsync/internal/domain"
	"viewsync/internal/persistentview"
)

// viewLoadedMsg carries a freshly computed view
type viewLoadedMsg struct {
	view     domain.View
	canReset bool
	status   string
}

// errMsg wraps errors from async operations
type errMsg struct {
	err error
}

func (e errMsg) Error() string {
	return e.err.Error()
}

func loadViewCmd(ctx context.Context, pv *persistentview.PersistentView, status string) tea.Cmd {
	return func() tea.Msg {
		state, err := pv.State(ctx)
		if err != nil {
			return errMsg{err}
		}
		return viewLoadedMsg{view: state.View, canReset: state.Reset != nil, status: status}
	}
}

// updateViewCmd applies newView, then reloads so the screen shows what the
// next render of the view would compute.
func updateViewCmd(ctx context.Context, pv *persistentview.PersistentView, newView domain.View, status string) tea.Cmd {
	return func() tea.Msg {
		if err := pv.UpdateView(ctx, newView); err != nil {
			return errMsg{err}
		}
		return loadViewCmd(ctx, pv, status)()
	}
}

func resetViewCmd(ctx context.Context, pv *persistentview.PersistentView) tea.Cmd {
	return func() tea.Msg {
		if err := pv.ResetView(ctx); err != nil {
			return errMsg{err}
		}
		return loadViewCmd(ctx, pv, "reset to default")()
	}
}
