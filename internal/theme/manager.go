package theme

import (
	"errors"
	"fmt"
	"strings"

	"viewsync/internal/fuzzy"
)

var (
	ErrThemeNotFound = errors.New("theme not found")
)

// Manager resolves theme names as typed on the command line or found in the
// config file. Lookups ignore case and surrounding space.
type Manager struct {
	themes map[string]*Theme
	names  []string
}

func NewManager() *Manager {
	themes, names := builtinThemes()
	return &Manager{themes: themes, names: names}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// GetTheme returns the named theme. An unknown name suggests the closest one.
func (m *Manager) GetTheme(name string) (*Theme, error) {
	theme, exists := m.themes[normalizeName(name)]
	if !exists {
		if suggestion, ok := fuzzy.Closest(name, m.names); ok {
			return nil, fmt.Errorf("%w: %s (did you mean %s?)", ErrThemeNotFound, name, suggestion)
		}
		return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, name)
	}
	return theme, nil
}

// ListThemes returns theme names in display order, default first.
func (m *Manager) ListThemes() []string {
	return append([]string(nil), m.names...)
}

func (m *Manager) ThemeExists(name string) bool {
	_, exists := m.themes[normalizeName(name)]
	return exists
}

// Resolve returns the canonical name for name, or "" when no theme matches.
func (m *Manager) Resolve(name string) string {
	if t, ok := m.themes[normalizeName(name)]; ok {
		return t.Name
	}
	return ""
}

func (m *Manager) GetDefaultTheme() *Theme {
	return DefaultTheme()
}

var globalManager = NewManager()

func GetTheme(name string) (*Theme, error) {
	return globalManager.GetTheme(name)
}

func ListThemes() []string {
	return globalManager.ListThemes()
}

func ThemeExists(name string) bool {
	return globalManager.ThemeExists(name)
}

func Resolve(name string) string {
	return globalManager.Resolve(name)
}

func GetDefaultTheme() *Theme {
	return globalManager.GetDefaultTheme()
}
