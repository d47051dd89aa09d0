package plotpage

import (
	"github.com/Sumatoshi-tech/codefolio/pkg/site"
)

// Theme represents a color scheme for pages and charts.
type Theme string

const (
	// ThemeAuto follows the reader's system preference.
	ThemeAuto Theme = site.ThemeAuto
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// ParseTheme maps a configured value onto a Theme, defaulting to ThemeAuto.
func ParseTheme(v string) Theme {
	switch Theme(v) {
	case ThemeLight, ThemeDark:
		return Theme(v)
	default:
		return ThemeAuto
	}
}

// ThemeConfig holds the theme-specific styling values.
type ThemeConfig struct {
	// Base colors.
	Background string
	Surface    string
	Border     string

	// Text colors.
	TextPrimary string
	TextMuted   string

	// Accent colors.
	Accent      string
	AccentHover string

	// Chart-specific.
	ChartGrid      string
	ChartAxis      string
	ChartText      string
	ChartTextMuted string
	ChartMark      string
	ChartSelected  string
}

// GetThemeConfig returns the configuration for a given theme.
// ThemeAuto charts use the light palette.
func GetThemeConfig(theme Theme) ThemeConfig {
	if theme == ThemeDark {
		return darkTheme
	}

	return lightTheme
}

var lightTheme = ThemeConfig{
	Background: "#fafaf9", // stone-50.
	Surface:    "#ffffff",
	Border:     "#e7e5e4", // stone-200.

	TextPrimary: "#1c1917", // stone-900.
	TextMuted:   "#78716c", // stone-500.

	Accent:      "#c026d3", // fuchsia-600.
	AccentHover: "#a21caf", // fuchsia-700.

	ChartGrid:      "#e7e5e4",
	ChartAxis:      "#a8a29e", // stone-400.
	ChartText:      "#44403c", // stone-700.
	ChartTextMuted: "#78716c",
	ChartMark:      "steelblue",
	ChartSelected:  "#ff6b6b",
}

var darkTheme = ThemeConfig{
	Background: "#0c0a09", // stone-950.
	Surface:    "#1c1917", // stone-900.
	Border:     "#44403c", // stone-700.

	TextPrimary: "#fafaf9",
	TextMuted:   "#a8a29e", // stone-400.

	Accent:      "#e879f9", // fuchsia-400.
	AccentHover: "#f0abfc", // fuchsia-300.

	ChartGrid:      "#44403c",
	ChartAxis:      "#57534e", // stone-600.
	ChartText:      "#d6d3d1", // stone-300.
	ChartTextMuted: "#a8a29e",
	ChartMark:      "#60a5fa", // blue-400.
	ChartSelected:  "#ff6b6b",
}
