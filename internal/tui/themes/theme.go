// Package themes holds the color schemes of the feed browser.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Normal      lipgloss.Style
	Bold        lipgloss.Style
	DayHeader   lipgloss.Style
	Selected    lipgloss.Style
	Active      lipgloss.Style
	Income      lipgloss.Style
	Expense     lipgloss.Style
	Muted       lipgloss.Style
	StatusError lipgloss.Style
	StatusInfo  lipgloss.Style
	RoundedBox  lipgloss.Style
	Primary     lipgloss.Color
	Border      lipgloss.Color
	Foreground  lipgloss.Color
	Palette     map[string]lipgloss.Color
}

// tailwind500 maps category color names to their 500 shade.
var tailwind500 = map[string]lipgloss.Color{
	"slate":   lipgloss.Color("#64748b"),
	"gray":    lipgloss.Color("#6b7280"),
	"neutral": lipgloss.Color("#737373"),
	"red":     lipgloss.Color("#ef4444"),
	"orange":  lipgloss.Color("#f97316"),
	"amber":   lipgloss.Color("#f59e0b"),
	"yellow":  lipgloss.Color("#eab308"),
	"lime":    lipgloss.Color("#84cc16"),
	"green":   lipgloss.Color("#22c55e"),
	"emerald": lipgloss.Color("#10b981"),
	"teal":    lipgloss.Color("#14b8a6"),
	"cyan":    lipgloss.Color("#06b6d4"),
	"sky":     lipgloss.Color("#0ea5e9"),
	"blue":    lipgloss.Color("#3b82f6"),
	"indigo":  lipgloss.Color("#6366f1"),
	"violet":  lipgloss.Color("#8b5cf6"),
	"purple":  lipgloss.Color("#a855f7"),
	"fuchsia": lipgloss.Color("#d946ef"),
	"pink":    lipgloss.Color("#ec4899"),
	"rose":    lipgloss.Color("#f43f5e"),
}

// Default is the default theme.
var Default = Theme{
	Primary:    lipgloss.Color("#7c3aed"),
	Border:     lipgloss.Color("#404040"),
	Foreground: lipgloss.Color("#fafafa"),
	Palette:    tailwind500,

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	DayHeader: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#a78bfa")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#7c3aed")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),
	Active: lipgloss.NewStyle().
		Bold(true).
		Underline(true),
	Income: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")),
	Expense: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3b82f6")).
		Bold(true),
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),
}

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = Theme{
	Primary:    lipgloss.Color("#cba6f7"),
	Border:     lipgloss.Color("#45475a"),
	Foreground: lipgloss.Color("#cdd6f4"),
	Palette:    tailwind500,

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#cdd6f4")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6adc8")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#cdd6f4")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#cdd6f4")),
	DayHeader: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#f5c2e7")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#cba6f7")).
		Foreground(lipgloss.Color("#1e1e2e")).
		Bold(true),
	Active: lipgloss.NewStyle().
		Bold(true).
		Underline(true),
	Income: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6e3a1")),
	Expense: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f38ba8")),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6c7086")),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f38ba8")).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#89dceb")).
		Bold(true),
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#45475a")).
		Padding(0, 1),
}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// CategoryColor resolves a category color name. Unknown names fall back to
// the neutral shade.
func (t Theme) CategoryColor(name string) lipgloss.Color {
	if c, ok := t.Palette[name]; ok {
		return c
	}
	return tailwind500["neutral"]
}

// CategoryIcons maps category icon names to terminal glyphs.
var CategoryIcons = map[string]string{
	"utensils":       "🍴",
	"shopping-cart":  "🛒",
	"shopping-bag":   "🛍️",
	"house":          "🏠",
	"home":           "🏠",
	"car":            "🚗",
	"bus":            "🚌",
	"plane":          "✈️",
	"film":           "🎬",
	"heart-pulse":    "💊",
	"lightbulb":      "💡",
	"graduation-cap": "📚",
	"dumbbell":       "💪",
	"gift":           "🎁",
	"smartphone":     "📱",
	"shield":         "🛡️",
	"receipt":        "📋",
	"trending-up":    "📈",
	"briefcase":      "💼",
	"wallet":         "👛",
	"coffee":         "☕",
	"circle-help":    "❔",
}

// GetCategoryIcon returns a glyph for an icon name.
func GetCategoryIcon(name string) string {
	if icon, ok := CategoryIcons[name]; ok {
		return icon
	}
	return "•"
}
