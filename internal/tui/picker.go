package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"viewsync/internal/config"
	"viewsync/internal/display"
	"viewsync/internal/domain"
	"viewsync/internal/theme"
)

var pickerKeys = struct {
	Next, Prev, Sample, Save, Cancel key.Binding
}{
	Next:   key.NewBinding(key.WithKeys("right", "l", "down", "j")),
	Prev:   key.NewBinding(key.WithKeys("left", "h", "up", "k")),
	Sample: key.NewBinding(key.WithKeys("tab")),
	Save:   key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("esc", "q", "ctrl+c")),
}

// sampleResolution is one resolved view as `view show` reports it: every
// field next to the source that won.
type sampleResolution struct {
	slug    string
	url     string
	view    domain.View
	sources map[string]theme.Source
}

var pickerSamples = []sampleResolution{
	{
		slug: "sites",
		url:  "/sites?page=2",
		view: domain.View{
			PersistedView: domain.PersistedView{
				Type: domain.ViewTypeTable,
				Sort: &domain.Sort{Field: "last-publish", Direction: domain.SortDesc},
				Filters: []domain.Filter{
					{Field: "status", Operator: domain.OperatorIsAny, Value: domain.FilterValue{"active"}},
				},
			},
			Page: 2,
		},
		sources: map[string]theme.Source{
			"type": theme.SourceStored, "sort": theme.SourceStored,
			"filters": theme.SourceStored, "page": theme.SourceURL, "search": theme.SourceDefault,
		},
	},
	{
		slug: "plugins",
		url:  "/plugins?search=seo&type=grid",
		view: domain.View{
			PersistedView: domain.PersistedView{
				Type: domain.ViewTypeGrid,
				Sort: &domain.Sort{Field: "name", Direction: domain.SortAsc},
			},
			Page:   1,
			Search: "seo",
		},
		sources: map[string]theme.Source{
			"type": theme.SourceURL, "sort": theme.SourceDefault,
			"filters": theme.SourceDefault, "page": theme.SourceDefault, "search": theme.SourceURL,
		},
	},
}

// ThemePicker lets the user cycle built-in themes against a sample view
// resolution and saves the chosen one to the config file.
type ThemePicker struct {
	names  []string
	index  int
	sample int
	active *theme.Theme

	width, height int
	done, saved   bool

	save func(themeName string) error
	err  error
}

func NewThemePicker() ThemePicker {
	names := theme.ListThemes()
	active, _ := theme.GetTheme(names[0])
	return ThemePicker{
		names:  names,
		active: active,
		width:  100,
		height: 30,
		save:   config.UpdateTheme,
	}
}

func (p ThemePicker) Init() tea.Cmd {
	return nil
}

func (p ThemePicker) move(delta int) ThemePicker {
	p.index = (p.index + delta + len(p.names)) % len(p.names)
	if t, err := theme.GetTheme(p.names[p.index]); err == nil {
		p.active = t
	}
	return p
}

func (p ThemePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, pickerKeys.Cancel):
			p.done = true
			return p, tea.Quit
		case key.Matches(msg, pickerKeys.Next):
			return p.move(1), nil
		case key.Matches(msg, pickerKeys.Prev):
			return p.move(-1), nil
		case key.Matches(msg, pickerKeys.Sample):
			p.sample = (p.sample + 1) % len(pickerSamples)
		case key.Matches(msg, pickerKeys.Save):
			p.err = p.save(p.names[p.index])
			p.saved = p.err == nil
			p.done = true
			return p, tea.Quit
		}
	}
	return p, nil
}

func (p ThemePicker) View() string {
	if p.done {
		switch {
		case p.err != nil:
			return fmt.Sprintf("Theme not saved: %v\n", p.err)
		case p.saved:
			return ""
		default:
			return "Theme unchanged.\n"
		}
	}
	if p.width < 60 || p.height < 12 {
		return "Window too small for the theme picker.\n"
	}

	styles := theme.NewStyles(p.active)
	card := lipgloss.NewStyle().
		Width(p.width-4).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(p.active.BorderColor)).
		Padding(0, 1).
		Render(p.renderResolution(styles, pickerSamples[p.sample]))

	return strings.Join([]string{
		styles.TUITitle.Render("viewsync › theme"),
		p.renderTabs(),
		"",
		card,
		p.renderLegend(styles),
		"",
		styles.TUIHelp.Render("←/→ theme · tab sample view · enter save · esc cancel"),
	}, "\n")
}

func (p ThemePicker) renderTabs() string {
	tabs := make([]string, len(p.names))
	for i, name := range p.names {
		style := lipgloss.NewStyle().Padding(0, 1).
			Foreground(lipgloss.Color(p.active.TextSecondary))
		if i == p.index {
			style = style.Bold(true).
				Foreground(lipgloss.Color(p.active.SelectedFg)).
				Background(lipgloss.Color(p.active.SelectedBg))
		}
		tabs[i] = style.Render(name)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (p ThemePicker) renderResolution(styles *theme.Styles, s sampleResolution) string {
	var b strings.Builder

	heading := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.active.TextPrimary))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(p.active.TextMuted))

	b.WriteString(heading.Render(fmt.Sprintf("%s %s", display.GetTypeIcon(s.view.Type), s.slug)))
	b.WriteString("  ")
	b.WriteString(muted.Render(s.url))
	b.WriteString("\n\n")

	rows := []struct{ field, value string }{
		{"type", styles.GetTypeStyle(s.view.Type).Render(string(s.view.Type))},
		{"sort", display.FormatSort(s.view.Sort)},
		{"filters", display.FormatFilters(s.view.Filters)},
		{"page", fmt.Sprintf("%d", s.view.Page)},
		{"search", display.FormatSearch(s.view.Search)},
	}
	for _, r := range rows {
		src := s.sources[r.field]
		fmt.Fprintf(&b, "%-9s %-24s %s\n",
			muted.Render(r.field),
			r.value,
			styles.GetSourceStyle(src).Render("("+src.String()+")"),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (p ThemePicker) renderLegend(styles *theme.Styles) string {
	parts := make([]string, 0, 3)
	for _, src := range []theme.Source{theme.SourceStored, theme.SourceURL, theme.SourceDefault} {
		parts = append(parts, styles.GetSourceStyle(src).Render("● "+src.String()))
	}
	return styles.TUISubtitle.Render("value source: ") + strings.Join(parts, "  ")
}
