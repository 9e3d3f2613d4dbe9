package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"viewsync/internal/display"
	"viewsync/internal/domain"
	"viewsync/internal/theme"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := m.entry.Title
	if title == "" {
		title = m.entry.Slug
	}
	b.WriteString(m.styles.TUITitle.Render(fmt.Sprintf("viewsync · %s", title)))
	b.WriteString("\n")

	url := "(not bound to a url)"
	if m.router != nil {
		url = m.router.URL()
	}
	b.WriteString(m.styles.TUISubtitle.Render(url))
	b.WriteString("\n\n")

	if !m.loaded {
		if m.err != nil {
			b.WriteString(m.styles.Error.Render(fmt.Sprintf("✗ %v", m.err)))
			b.WriteString("\n\n")
		} else {
			b.WriteString("Loading view...\n\n")
		}
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	b.WriteString(m.renderDetails())
	b.WriteString("\n")

	if m.searching {
		b.WriteString(m.styles.DetailLabel.Render("Search: "))
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("✗ %v", m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.styles.Success.Render("✓ " + m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) renderDetails() string {
	v := m.view
	labelWidth := 12

	row := func(label, value string) string {
		l := m.styles.DetailLabel.Render(fmt.Sprintf("%-*s", labelWidth, label))
		return l + " " + value
	}

	source := theme.SourceDefault
	if m.canReset {
		source = theme.SourceStored
	}

	lines := []string{
		row("Layout", fmt.Sprintf("%s %s", display.GetTypeIcon(v.Type), m.styles.GetTypeStyle(v.Type).Render(string(v.Type)))),
		row("Sort", m.styles.DetailValue.Render(display.FormatSort(v.Sort))),
		row("Filters", m.styles.DetailValue.Render(display.FormatFilters(v.Filters))),
		row("Search", m.valueWithSource(display.FormatSearch(v.Search), v.Search != "")),
		row("Page", m.valueWithSource(fmt.Sprintf("%d", v.Page), v.Page > domain.DefaultPage)),
	}

	if v.PerPage > 0 {
		lines = append(lines, row("Per page", m.styles.DetailValue.Render(fmt.Sprintf("%d", v.PerPage))))
	}
	if v.Layout != nil {
		if v.Layout.Density != "" {
			lines = append(lines, row("Density", m.styles.DetailValue.Render(v.Layout.Density)))
		}
		if v.Layout.PreviewSize > 0 {
			lines = append(lines, row("Preview", m.styles.DetailValue.Render(fmt.Sprintf("%dpx", v.Layout.PreviewSize))))
		}
	}
	if len(v.Fields) > 0 {
		lines = append(lines, row("Fields", m.styles.DetailValue.Render(strings.Join(v.Fields, ", "))))
	}

	lines = append(lines, "", row("Source", m.styles.GetSourceStyle(source).Render(source.String())))

	width := m.width - 4
	if width < 40 {
		width = 40
	}
	return m.styles.DetailContainer.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// valueWithSource marks values that live in the url.
func (m Model) valueWithSource(value string, fromURL bool) string {
	if !fromURL {
		return m.styles.DetailValue.Render(value)
	}
	return m.styles.GetSourceStyle(theme.SourceURL).Render(value + " (url)")
}
