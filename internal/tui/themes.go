package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Name    string
	Lit     lipgloss.Color
	Unlit   lipgloss.Color
	Cursor  lipgloss.Color
	Hint    lipgloss.Color
	Title   lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeClassic = Theme{
		Name:    "classic",
		Lit:     lipgloss.Color("220"),
		Unlit:   lipgloss.Color("238"),
		Cursor:  lipgloss.Color("240"),
		Hint:    lipgloss.Color("51"),
		Title:   lipgloss.Color("86"),
		Text:    lipgloss.Color("255"),
		Muted:   lipgloss.Color("242"),
		Success: lipgloss.Color("82"),
		Error:   lipgloss.Color("203"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Lit:     lipgloss.Color("#00ff00"), // green phosphor
		Unlit:   lipgloss.Color("#005500"),
		Cursor:  lipgloss.Color("#003300"),
		Hint:    lipgloss.Color("#88ff88"),
		Title:   lipgloss.Color("#00ff00"),
		Text:    lipgloss.Color("#00cc00"),
		Muted:   lipgloss.Color("#005500"),
		Success: lipgloss.Color("#88ff88"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Lit:     lipgloss.Color("#ffd700"),
		Unlit:   lipgloss.Color("#0077be"),
		Cursor:  lipgloss.Color("#001a33"),
		Hint:    lipgloss.Color("#00ff88"),
		Title:   lipgloss.Color("#00a8cc"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Success: lipgloss.Color("#00ff88"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Lit:     lipgloss.Color("#feca57"),
		Unlit:   lipgloss.Color("#8b6b8c"),
		Cursor:  lipgloss.Color("#2d1b2e"),
		Hint:    lipgloss.Color("#ff9ff3"),
		Title:   lipgloss.Color("#ff6b6b"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Success: lipgloss.Color("#5fd068"),
		Error:   lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{
		ThemeClassic,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// themeIndex returns the position of the named theme, or 0 when unknown.
func themeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	title, text, muted, success, errText lipgloss.Style
	lit, unlit, hint, cursorLit, cursor  lipgloss.Style
}

func (t Theme) styles() styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	return styles{
		title:     fg(t.Title).Bold(true),
		text:      fg(t.Text),
		muted:     fg(t.Muted),
		success:   fg(t.Success).Bold(true),
		errText:   fg(t.Error),
		lit:       fg(t.Lit),
		unlit:     fg(t.Unlit),
		hint:      fg(t.Hint),
		cursorLit: fg(t.Lit).Background(t.Cursor),
		cursor:    fg(t.Unlit).Background(t.Cursor),
	}
}
