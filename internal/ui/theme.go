package ui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for the UI.
type Theme struct {
	Name string

	Background string
	Surface    string

	Text    string
	Muted   string
	Accent  string
	Success string
	Warning string
	Danger  string
}

// Styles holds the lipgloss styles derived from a theme.
type Styles struct {
	Header     lipgloss.Style
	Logo       lipgloss.Style
	Marquee    lipgloss.Style
	Badge      lipgloss.Style
	Offline    lipgloss.Style
	Text       lipgloss.Style
	MutedText  lipgloss.Style
	Accent     lipgloss.Style
	Success    lipgloss.Style
	Danger     lipgloss.Style
	Selected   lipgloss.Style
	CardBorder lipgloss.Style
	Footer     lipgloss.Style
	Alert      lipgloss.Style
	Help       lipgloss.Style
}

// Styles returns the lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)),
		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		Marquee: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Background)).
			Background(lipgloss.Color(t.Danger)).
			Padding(0, 1),
		Offline: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),
		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Background)).
			Background(lipgloss.Color(t.Accent)),
		CardBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Muted)).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),
		Alert: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),
		Help: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Accent)).
			Padding(1, 2),
	}
}

var themes = map[string]Theme{
	"Amber": {
		Name:       "Amber",
		Background: "#1a1208",
		Surface:    "#2b1f0e",
		Text:       "#f5deb3",
		Muted:      "#9c8a5e",
		Accent:     "#ffb000",
		Success:    "#7fbf5f",
		Warning:    "#ffcc55",
		Danger:     "#e06c5f",
	},
	"Mono": {
		Name:       "Mono",
		Background: "#101010",
		Surface:    "#1c1c1c",
		Text:       "#d8d8d8",
		Muted:      "#777777",
		Accent:     "#ffffff",
		Success:    "#bbbbbb",
		Warning:    "#dddddd",
		Danger:     "#ff6666",
	},
}

// themeByName looks up a theme, falling back to Amber.
func themeByName(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["Amber"]
}

// themeNames returns the available theme names in stable order.
func themeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// nextThemeName returns the theme after current in cycle order.
func nextThemeName(current string) string {
	names := themeNames()
	for i, name := range names {
		if name == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
