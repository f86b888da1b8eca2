// Package report renders analysis results as echarts HTML pages and
// terminal tables.
package report

import (
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Theme represents a color theme for charts.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// dataZoomEndPercent keeps the full range visible initially.
const dataZoomEndPercent = 100

type themeConfig struct {
	Background string
	Grid       string
	Axis       string
	Text       string
	TextMuted  string
	// Series colors: breaking changes, API extensions, fit, cutoff.
	Breaking  string
	Extension string
	Fit       string
	Cutoff    string
}

var lightTheme = themeConfig{
	Background: "#ffffff",
	Grid:       "#e7e5e4", // stone-200.
	Axis:       "#a8a29e", // stone-400.
	Text:       "#44403c", // stone-700.
	TextMuted:  "#78716c", // stone-500.
	Breaking:   "#0097e6",
	Extension:  "#7f8fa6",
	Fit:        "#a16207", // amber-700.
	Cutoff:     "#dc2626", // red-600.
}

var darkTheme = themeConfig{
	Background: "#1c1917", // stone-900.
	Grid:       "#44403c", // stone-700.
	Axis:       "#57534e", // stone-600.
	Text:       "#d6d3d1", // stone-300.
	TextMuted:  "#a8a29e", // stone-400.
	Breaking:   "#38bdf8", // sky-400.
	Extension:  "#a8a29e",
	Fit:        "#fbbf24", // amber-400.
	Cutoff:     "#f87171", // red-400.
}

func themeFor(theme Theme) themeConfig {
	if theme == ThemeDark {
		return darkTheme
	}

	return lightTheme
}

// ChartOpts provides themed chart options.
type ChartOpts struct {
	theme themeConfig
}

// NewChartOpts creates ChartOpts for the given theme.
func NewChartOpts(theme Theme) *ChartOpts {
	return &ChartOpts{theme: themeFor(theme)}
}

// DefaultChartOpts returns chart options for the light theme.
func DefaultChartOpts() *ChartOpts {
	return NewChartOpts(ThemeLight)
}

// Init returns initialization options with themed background.
func (c *ChartOpts) Init(width, height string) opts.Initialization {
	return opts.Initialization{
		Width:           width,
		Height:          height,
		BackgroundColor: c.theme.Background,
	}
}

// Title returns title options with themed text colors.
func (c *ChartOpts) Title(title, subtitle string) opts.Title {
	return opts.Title{
		Title:         title,
		Subtitle:      subtitle,
		Left:          "center",
		TitleStyle:    &opts.TextStyle{Color: c.theme.Text},
		SubtitleStyle: &opts.TextStyle{Color: c.theme.TextMuted},
	}
}

// Legend returns legend options with themed text color.
func (c *ChartOpts) Legend() opts.Legend {
	return opts.Legend{
		Show:      opts.Bool(true),
		Top:       "8%",
		Left:      "center",
		TextStyle: &opts.TextStyle{Color: c.theme.TextMuted},
	}
}

// XAxis returns x-axis options of the given axis type ("category", "value", "log").
func (c *ChartOpts) XAxis(name, axisType string) opts.XAxis {
	return opts.XAxis{
		Name:      name,
		Type:      axisType,
		AxisLabel: &opts.AxisLabel{Color: c.theme.TextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.theme.Axis}},
	}
}

// YAxis returns y-axis options of the given axis type.
func (c *ChartOpts) YAxis(name, axisType string) opts.YAxis {
	return opts.YAxis{
		Name:      name,
		Type:      axisType,
		AxisLabel: &opts.AxisLabel{Color: c.theme.TextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.theme.Axis}},
		SplitLine: &opts.SplitLine{
			Show:      opts.Bool(true),
			LineStyle: &opts.LineStyle{Color: c.theme.Grid},
		},
	}
}

// Grid returns grid options with standard margins.
func (c *ChartOpts) Grid() opts.Grid {
	return opts.Grid{
		Top:          "20%",
		Bottom:       "15%",
		Left:         "5%",
		Right:        "5%",
		ContainLabel: opts.Bool(true),
	}
}

// DataZoom returns standard data zoom options.
func (c *ChartOpts) DataZoom() []opts.DataZoom {
	return []opts.DataZoom{
		{Type: "slider", Start: 0, End: dataZoomEndPercent},
		{Type: "inside"},
	}
}

// Tooltip returns tooltip options.
func (c *ChartOpts) Tooltip(trigger string) opts.Tooltip {
	return opts.Tooltip{Show: opts.Bool(true), Trigger: trigger}
}
