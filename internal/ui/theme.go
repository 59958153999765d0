package ui

import (
	"hash/fnv"
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Header and footer bars
	SurfaceAlt string // Quote card

	// Border colors
	Border      string
	BorderFocus string

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// CategoryColors tint category chips; picked by a stable hash of the name.
	CategoryColors []string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	bar := func(color string) lipgloss.Style {
		return fg(color).Background(lipgloss.Color(t.Surface)).Padding(0, 1)
	}

	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header: bar(t.Text),
		Footer: bar(t.Muted),
		Logo:   fg(t.Warning).Bold(true),

		Card: fg(t.Text).
			Background(lipgloss.Color(t.SurfaceAlt)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(1, 3),
		QuoteText: fg(t.Text).Italic(true),
		Banner: fg(t.Background).
			Background(lipgloss.Color(t.Info)).
			Bold(true).
			Padding(0, 1),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderFocus)).
			Padding(1, 2),

		categoryColors: t.CategoryColors,
		background:     t.Background,
		muted:          t.Muted,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	// Text
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	// Components
	Header    lipgloss.Style
	Footer    lipgloss.Style
	Logo      lipgloss.Style
	Card      lipgloss.Style
	QuoteText lipgloss.Style
	Banner    lipgloss.Style
	Modal     lipgloss.Style

	categoryColors []string
	background     string
	muted          string
}

// CategoryStyle returns a chip style for category. The same name always gets
// the same color.
func (s Styles) CategoryStyle(category string) lipgloss.Style {
	color := s.muted
	if len(s.categoryColors) > 0 && category != "" {
		h := fnv.New32a()
		_, _ = h.Write([]byte(category))
		color = s.categoryColors[int(h.Sum32()%uint32(len(s.categoryColors)))]
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// Theme definitions

var themes = map[string]Theme{
	"Dracula": draculaTheme(),
	"Nord":    nordTheme(),
}

var themeOrder = []string{"Dracula", "Nord"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return draculaTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	i := slices.Index(themeOrder, current)
	return themeOrder[(i+1)%len(themeOrder)]
}

// ThemeNames returns available theme names in cycle order.
func ThemeNames() []string {
	return slices.Clone(themeOrder)
}

func draculaTheme() Theme {
	// Official Dracula palette: https://draculatheme.com/spec
	return Theme{
		Name: "Dracula",

		Background: "#191A21", // BGDarker
		Surface:    "#282A36", // Background
		SurfaceAlt: "#21222C", // BGDark

		Border:      "#44475A", // Selection
		BorderFocus: "#BD93F9", // Purple

		Text:    "#F8F8F2", // Foreground
		Muted:   "#6272A4", // Comment
		Faint:   "#44475A", // Selection
		Accent:  "#BD93F9", // Purple
		Success: "#50FA7B", // Green
		Warning: "#FFB86C", // Orange
		Danger:  "#FF5555", // Red
		Info:    "#8BE9FD", // Cyan

		CategoryColors: []string{
			"#BD93F9", // Purple
			"#FF79C6", // Pink
			"#8BE9FD", // Cyan
			"#50FA7B", // Green
			"#FFB86C", // Orange
			"#F1FA8C", // Yellow
		},
	}
}

func nordTheme() Theme {
	// Nord palette: https://www.nordtheme.com/docs/colors-and-palettes
	return Theme{
		Name: "Nord",

		Background: "#242933",
		Surface:    "#2E3440", // nord0
		SurfaceAlt: "#3B4252", // nord1

		Border:      "#4C566A", // nord3
		BorderFocus: "#88C0D0", // nord8

		Text:    "#ECEFF4", // nord6
		Muted:   "#D8DEE9", // nord4
		Faint:   "#4C566A", // nord3
		Accent:  "#88C0D0", // nord8
		Success: "#A3BE8C", // nord14
		Warning: "#EBCB8B", // nord13
		Danger:  "#BF616A", // nord11
		Info:    "#81A1C1", // nord9

		CategoryColors: []string{
			"#8FBCBB", // nord7
			"#88C0D0", // nord8
			"#81A1C1", // nord9
			"#B48EAD", // nord15
			"#D08770", // nord12
			"#A3BE8C", // nord14
		},
	}
}
