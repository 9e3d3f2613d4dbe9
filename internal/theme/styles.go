package theme

import (
	"github.com/charmbracelet/lipgloss"

	"viewsync/internal/domain"
)

// Source tells where the value a screen shows came from.
type Source int

const (
	SourceDefault Source = iota
	SourceStored
	SourceURL
)

func (s Source) String() string {
	switch s {
	case SourceStored:
		return "stored"
	case SourceURL:
		return "url"
	default:
		return "default"
	}
}

type Styles struct {
	// cli
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Info      lipgloss.Style
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Header    lipgloss.Style
	Cell      lipgloss.Style
	Separator lipgloss.Style

	// view type
	TableText lipgloss.Style
	GridText  lipgloss.Style
	ListText  lipgloss.Style

	// tui
	TUITitle        lipgloss.Style
	TUISubtitle     lipgloss.Style
	TUIHelp         lipgloss.Style
	DetailContainer lipgloss.Style
	DetailLabel     lipgloss.Style
	DetailValue     lipgloss.Style
	StoredText      lipgloss.Style
	URLText         lipgloss.Style
	DefaultText     lipgloss.Style
}

// creates all styles based on the given theme
func NewStyles(t *Theme) *Styles {
	return &Styles{
		// cli
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Error)).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Primary)),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Secondary)).
			PaddingTop(1).
			PaddingBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.SubtitleText)).
			Italic(true),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.HeaderFg)).
			Background(lipgloss.Color(t.HeaderBg)).
			PaddingLeft(1).
			PaddingRight(1),

		Cell: lipgloss.NewStyle().
			PaddingLeft(1).
			PaddingRight(1),

		Separator: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Separator)),

		// view type
		TableText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.TypeTable)).
			Bold(true),

		GridText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.TypeGrid)).
			Bold(true),

		ListText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.TypeList)).
			Bold(true),

		// tui
		TUITitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.TextPrimary)).
			Background(lipgloss.Color(t.HeaderBg)).
			Padding(0, 1),

		TUISubtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.TextSecondary)),

		TUIHelp: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.HelpText)),

		DetailContainer: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderColor)).
			Padding(1, 2),

		DetailLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Primary)).
			Bold(true),

		DetailValue: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.TextPrimary)),

		StoredText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.SourceStored)),

		URLText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.SourceURL)),

		DefaultText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.SourceDefault)).
			Italic(true),
	}
}

func (s *Styles) GetTypeStyle(viewType domain.ViewType) lipgloss.Style {
	switch viewType {
	case domain.ViewTypeTable:
		return s.TableText
	case domain.ViewTypeGrid:
		return s.GridText
	case domain.ViewTypeList:
		return s.ListText
	default:
		return s.DetailValue
	}
}

func (s *Styles) GetSourceStyle(source Source) lipgloss.Style {
	switch source {
	case SourceStored:
		return s.StoredText
	case SourceURL:
		return s.URLText
	default:
		return s.DefaultText
	}
}

// Load returns the styles for a theme name, falling back to the default theme.
func Load(name string) *Styles {
	if name == "" {
		name = "default"
	}
	t, err := GetTheme(name)
	if err != nil {
		t = GetDefaultTheme()
	}
	return NewStyles(t)
}
