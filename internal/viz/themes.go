package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the board and panel colours.
type Theme struct {
	Name        string
	Alive       lipgloss.Color
	AliveCursor lipgloss.Color
	Dead        lipgloss.Color
	DeadCursor  lipgloss.Color
	Accent      lipgloss.Color
	Text        lipgloss.Color
	Muted       lipgloss.Color
	Running     lipgloss.Color
	Paused      lipgloss.Color
}

var (
	ThemeClassic = Theme{
		Name:        "classic",
		Alive:       lipgloss.Color("#008000"),
		AliveCursor: lipgloss.Color("#009200"),
		Dead:        lipgloss.Color("#a2a2a2"),
		DeadCursor:  lipgloss.Color("#c2c2c2"),
		Accent:      lipgloss.Color("#00cc66"),
		Text:        lipgloss.Color("#ffffff"),
		Muted:       lipgloss.Color("#888899"),
		Running:     lipgloss.Color("#00ff88"),
		Paused:      lipgloss.Color("#ffaa00"),
	}

	ThemeCyberpunk = Theme{
		Name:        "cyberpunk",
		Alive:       lipgloss.Color("#ff00ff"),
		AliveCursor: lipgloss.Color("#ff77ff"),
		Dead:        lipgloss.Color("#1a001a"),
		DeadCursor:  lipgloss.Color("#440044"),
		Accent:      lipgloss.Color("#00ffff"),
		Text:        lipgloss.Color("#ffffff"),
		Muted:       lipgloss.Color("#666666"),
		Running:     lipgloss.Color("#00ff00"),
		Paused:      lipgloss.Color("#ffff00"),
	}

	ThemeRetroGreen = Theme{
		Name:        "retro",
		Alive:       lipgloss.Color("#00ff00"), // green phosphor
		AliveCursor: lipgloss.Color("#88ff88"),
		Dead:        lipgloss.Color("#001100"),
		DeadCursor:  lipgloss.Color("#005500"),
		Accent:      lipgloss.Color("#88ff88"),
		Text:        lipgloss.Color("#00ff00"),
		Muted:       lipgloss.Color("#005500"),
		Running:     lipgloss.Color("#88ff88"),
		Paused:      lipgloss.Color("#ffff00"),
	}

	ThemeOcean = Theme{
		Name:        "ocean",
		Alive:       lipgloss.Color("#00a8cc"),
		AliveCursor: lipgloss.Color("#66d9ef"),
		Dead:        lipgloss.Color("#001a33"),
		DeadCursor:  lipgloss.Color("#003366"),
		Accent:      lipgloss.Color("#ffd700"),
		Text:        lipgloss.Color("#e0f0ff"),
		Muted:       lipgloss.Color("#4488aa"),
		Running:     lipgloss.Color("#00ff88"),
		Paused:      lipgloss.Color("#ffcc00"),
	}

	ThemeSunset = Theme{
		Name:        "sunset",
		Alive:       lipgloss.Color("#ff6b6b"), // coral
		AliveCursor: lipgloss.Color("#ff9ff3"),
		Dead:        lipgloss.Color("#2d1b2e"),
		DeadCursor:  lipgloss.Color("#5a3a5c"),
		Accent:      lipgloss.Color("#feca57"),
		Text:        lipgloss.Color("#fff5f5"),
		Muted:       lipgloss.Color("#8b6b8c"),
		Running:     lipgloss.Color("#5fd068"),
		Paused:      lipgloss.Color("#ffc048"),
	}

	CurrentTheme = ThemeClassic

	Themes = []Theme{
		ThemeClassic,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to classic.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
	SetTheme(names[0])
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
