package plotpage

import "strings"

// Theme is a page and chart color scheme.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// ParseTheme maps a config value to a Theme. Unknown names yield false.
func ParseTheme(name string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(name))) {
	case ThemeDark, "":
		return ThemeDark, true
	case ThemeLight:
		return ThemeLight, true
	default:
		return "", false
	}
}

// ThemeConfig holds the page and chart colors of a theme.
type ThemeConfig struct {
	Background   string
	Surface      string
	SurfaceHover string
	Border       string

	TextPrimary   string
	TextSecondary string
	TextMuted     string

	Accent       string
	AccentSubtle string

	ChartBackground string
	ChartGrid       string
	ChartAxis       string
	ChartText       string
	ChartTextMuted  string

	// HeatScale runs from an empty cell to the busiest one.
	HeatScale []string
}

// ChartPalette is the series color cycle of a theme.
type ChartPalette struct {
	Primary []string
}

// Color returns the i-th palette color, wrapping around.
func (p ChartPalette) Color(i int) string {
	if len(p.Primary) == 0 {
		return ""
	}

	return p.Primary[i%len(p.Primary)]
}

// GetThemeConfig returns the configuration for a given theme.
func GetThemeConfig(theme Theme) ThemeConfig {
	if theme == ThemeLight {
		return lightTheme
	}

	return darkTheme
}

// GetChartPalette returns the chart color palette for a given theme.
func GetChartPalette(theme Theme) ChartPalette {
	if theme == ThemeLight {
		return lightChartPalette
	}

	return darkChartPalette
}

var lightTheme = ThemeConfig{
	Background:   "#f8fafc", // slate-50.
	Surface:      "#ffffff",
	SurfaceHover: "#f1f5f9", // slate-100.
	Border:       "#e2e8f0", // slate-200.

	TextPrimary:   "#0f172a", // slate-900.
	TextSecondary: "#334155", // slate-700.
	TextMuted:     "#64748b", // slate-500.

	Accent:       "#059669", // emerald-600.
	AccentSubtle: "#d1fae5", // emerald-100.

	ChartBackground: "transparent",
	ChartGrid:       "#e2e8f0",
	ChartAxis:       "#94a3b8", // slate-400.
	ChartText:       "#334155",
	ChartTextMuted:  "#64748b",

	HeatScale: []string{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"},
}

var darkTheme = ThemeConfig{
	Background:   "#0d1117",
	Surface:      "#161b22",
	SurfaceHover: "#21262d",
	Border:       "#30363d",

	TextPrimary:   "#f0f6fc",
	TextSecondary: "#c9d1d9",
	TextMuted:     "#8b949e",

	Accent:       "#39d353",
	AccentSubtle: "#0e4429",

	ChartBackground: "transparent",
	ChartGrid:       "#30363d",
	ChartAxis:       "#484f58",
	ChartText:       "#c9d1d9",
	ChartTextMuted:  "#8b949e",

	HeatScale: []string{"#161b22", "#0e4429", "#006d32", "#26a641", "#39d353"},
}

var lightChartPalette = ChartPalette{
	Primary: []string{
		"#059669", // emerald-600.
		"#0369a1", // sky-700.
		"#7c3aed", // violet-600.
		"#be185d", // pink-700.
		"#c2410c", // orange-700.
		"#0891b2", // cyan-600.
		"#4338ca", // indigo-700.
		"#a16207", // amber-700.
		"#4d7c0f", // lime-700.
		"#b91c1c", // red-700.
	},
}

var darkChartPalette = ChartPalette{
	Primary: []string{
		"#39d353",
		"#38bdf8", // sky-400.
		"#a78bfa", // violet-400.
		"#f472b6", // pink-400.
		"#fb923c", // orange-400.
		"#22d3ee", // cyan-400.
		"#818cf8", // indigo-400.
		"#fbbf24", // amber-400.
		"#a3e635", // lime-400.
		"#f87171", // red-400.
	},
}
