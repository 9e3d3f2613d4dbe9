package theme

// palette is the handful of colors a built-in theme is derived from. View
// types and value sources reuse the semantic colors so every theme tells
// stored, URL and default values apart the same way.
type palette struct {
	name string

	accent, accentAlt string
	ok, bad, warn, note string

	fg, fgDim, fgFaint string
	bg, bgRaised       string

	rule string
	// 256-color index for the highlighted table row
	rowANSI string
}

// builtin lists the shipped palettes in display order, default first.
var builtin = []palette{
	{
		name: "default", accent: "#7D56F4", accentAlt: "#8AA4EB",
		ok: "#04B575", bad: "#FF0000", warn: "#FF8800", note: "#0088FF",
		fg: "#FAFAFA", fgDim: "#888888", fgFaint: "#6C6C6C",
		bg: "#000000", bgRaised: "#1A1A1A",
		rule: "#444444", rowANSI: "57",
	},
	{
		name: "dark", accent: "#BB9AF7", accentAlt: "#7AA2F7",
		ok: "#9ECE6A", bad: "#F7768E", warn: "#E0AF68", note: "#7DCFFF",
		fg: "#C0CAF5", fgDim: "#9AA5CE", fgFaint: "#565F89",
		bg: "#1A1B26", bgRaised: "#24283B",
		rule: "#3B4261", rowANSI: "55",
	},
	{
		name: "light", accent: "#5B3CC4", accentAlt: "#2563EB",
		ok: "#059669", bad: "#DC2626", warn: "#D97706", note: "#0284C7",
		fg: "#1F2937", fgDim: "#6B7280", fgFaint: "#9CA3AF",
		bg: "#FFFFFF", bgRaised: "#F3F4F6",
		rule: "#D1D5DB", rowANSI: "57",
	},
	{
		name: "dracula", accent: "#BD93F9", accentAlt: "#8BE9FD",
		ok: "#50FA7B", bad: "#FF5555", warn: "#FFB86C", note: "#F1FA8C",
		fg: "#F8F8F2", fgDim: "#6272A4", fgFaint: "#44475A",
		bg: "#282A36", bgRaised: "#44475A",
		rule: "#44475A", rowANSI: "141",
	},
	{
		name: "nord", accent: "#88C0D0", accentAlt: "#81A1C1",
		ok: "#A3BE8C", bad: "#BF616A", warn: "#EBCB8B", note: "#5E81AC",
		fg: "#ECEFF4", fgDim: "#D8DEE9", fgFaint: "#4C566A",
		bg: "#2E3440", bgRaised: "#3B4252",
		rule: "#434C5E", rowANSI: "73",
	},
	{
		name: "gruvbox", accent: "#D3869B", accentAlt: "#83A598",
		ok: "#B8BB26", bad: "#FB4934", warn: "#FABD2F", note: "#FE8019",
		fg: "#EBDBB2", fgDim: "#A89984", fgFaint: "#665C54",
		bg: "#282828", bgRaised: "#3C3836",
		rule: "#504945", rowANSI: "175",
	},
}

func (p palette) theme() *Theme {
	return &Theme{
		Name: p.name,

		Primary:   p.accent,
		Secondary: p.accentAlt,
		Success:   p.ok,
		Error:     p.bad,
		Warning:   p.warn,
		Info:      p.note,

		TextPrimary:   p.fg,
		TextSecondary: p.fgDim,
		TextMuted:     p.fgFaint,

		BgPrimary:   p.bg,
		BgSecondary: p.bgRaised,

		// tables stand out, lists recede
		TypeTable: p.note,
		TypeGrid:  p.accentAlt,
		TypeList:  p.fgDim,

		// a stored value is settled, a URL value is transient
		SourceStored:  p.ok,
		SourceURL:     p.warn,
		SourceDefault: p.fgFaint,

		BorderColor:   p.accent,
		SelectedBg:    p.accent,
		SelectedFg:    p.bg,
		HeaderBg:      p.accent,
		HeaderFg:      p.bg,
		Separator:     p.rule,
		HelpText:      p.fgDim,
		SubtitleText:  p.fgFaint,
		TableSelected: p.rowANSI,
	}
}

func builtinThemes() (map[string]*Theme, []string) {
	themes := make(map[string]*Theme, len(builtin))
	names := make([]string, 0, len(builtin))
	for _, p := range builtin {
		themes[p.name] = p.theme()
		names = append(names, p.name)
	}
	return themes, names
}

// DefaultTheme returns a fresh copy of the first built-in theme.
func DefaultTheme() *Theme {
	return builtin[0].theme()
}
