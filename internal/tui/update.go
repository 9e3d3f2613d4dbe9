package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"viewsync/internal/domain"
	"viewsync/internal/persistentview"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case viewLoadedMsg:
		m.view = msg.view
		m.canReset = msg.canReset
		m.loaded = true
		m.status = msg.status
		m.err = nil
		return m, nil

	case errMsg:
		m.err = msg.err
		if errors.Is(msg.err, persistentview.ErrNothingToReset) {
			m.err = nil
			m.status = "nothing to reset"
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateNormal(msg)
	}

	if m.searching {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.searchInput.Blur()

		next := m.view.Clone()
		next.Search = m.searchInput.Value()
		next.Page = domain.DefaultPage
		return m, updateViewCmd(m.ctx, m.pv, next, "search updated")

	case key.Matches(msg, m.keys.Cancel):
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, loadViewCmd(m.ctx, m.pv, "reloaded")
	}

	if !m.loaded {
		return m, nil
	}

	next := m.view.Clone()

	switch {
	case key.Matches(msg, m.keys.CycleType):
		next.Type = nextViewType(next.Type)
		return m, updateViewCmd(m.ctx, m.pv, next, fmt.Sprintf("layout: %s", next.Type))

	case key.Matches(msg, m.keys.Density):
		if next.Layout == nil {
			next.Layout = &domain.Layout{}
		}
		next.Layout.Density = nextDensity(m.view.Layout)
		return m, updateViewCmd(m.ctx, m.pv, next, fmt.Sprintf("density: %s", next.Layout.Density))

	case key.Matches(msg, m.keys.Sort):
		if len(m.entry.SortFields) == 0 {
			m.status = "no sortable fields"
			return m, nil
		}
		next.Sort = nextSort(next.Sort, m.entry.SortFields)
		next.Page = domain.DefaultPage
		return m, updateViewCmd(m.ctx, m.pv, next, fmt.Sprintf("sort: %s %s", next.Sort.Field, next.Sort.Direction))

	case key.Matches(msg, m.keys.SortOrder):
		if next.Sort == nil {
			m.status = "not sorted"
			return m, nil
		}
		next.Sort = toggleDirection(next.Sort)
		return m, updateViewCmd(m.ctx, m.pv, next, fmt.Sprintf("sort: %s %s", next.Sort.Field, next.Sort.Direction))

	case key.Matches(msg, m.keys.NextPage):
		next.Page++
		return m, updateViewCmd(m.ctx, m.pv, next, fmt.Sprintf("page %d", next.Page))

	case key.Matches(msg, m.keys.PrevPage):
		if next.Page <= domain.DefaultPage {
			m.status = "already on the first page"
			return m, nil
		}
		next.Page--
		return m, updateViewCmd(m.ctx, m.pv, next, fmt.Sprintf("page %d", next.Page))

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.SetValue(m.view.Search)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.ClearSearch):
		if next.Search == "" {
			return m, nil
		}
		next.Search = ""
		next.Page = domain.DefaultPage
		return m, updateViewCmd(m.ctx, m.pv, next, "search cleared")

	case key.Matches(msg, m.keys.Reset):
		if !m.canReset {
			m.status = "nothing to reset"
			return m, nil
		}
		return m, resetViewCmd(m.ctx, m.pv)

	case key.Matches(msg, m.keys.Back):
		if m.router == nil || !m.router.Back() {
			m.status = "no url history"
			return m, nil
		}
		return m, loadViewCmd(m.ctx, m.pv, "went back")
	}

	return m, nil
}
