package plotpage

import (
	"strconv"

	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartOpts provides themed chart options based on the current theme.
type ChartOpts struct {
	theme ThemeConfig
}

// NewChartOpts creates a new ChartOpts with the given theme.
func NewChartOpts(theme Theme) *ChartOpts {
	return &ChartOpts{theme: GetThemeConfig(theme)}
}

// DefaultChartOpts returns chart options for the automatic theme.
func DefaultChartOpts() *ChartOpts {
	return NewChartOpts(ThemeAuto)
}

// Init returns initialization options with a transparent background.
func (c *ChartOpts) Init(width, height string) opts.Initialization {
	return opts.Initialization{
		Width:           width,
		Height:          height,
		BackgroundColor: "transparent",
	}
}

// Title returns title options with themed text colors.
func (c *ChartOpts) Title(title, subtitle string) opts.Title {
	return opts.Title{
		Title:         title,
		Subtitle:      subtitle,
		Left:          "center",
		TitleStyle:    &opts.TextStyle{Color: c.theme.ChartText},
		SubtitleStyle: &opts.TextStyle{Color: c.theme.ChartTextMuted},
	}
}

// Legend returns legend options with themed text color.
func (c *ChartOpts) Legend() opts.Legend {
	return opts.Legend{
		Show:      opts.Bool(true),
		Top:       "bottom",
		TextStyle: &opts.TextStyle{Color: c.theme.ChartTextMuted},
	}
}

// TimeAxis returns a time x-axis bounded to [minMillis, maxMillis].
func (c *ChartOpts) TimeAxis(name string, minMillis, maxMillis int64) opts.XAxis {
	return opts.XAxis{
		Name:      name,
		Type:      "time",
		Min:       minMillis,
		Max:       maxMillis,
		AxisLabel: &opts.AxisLabel{Color: c.theme.ChartTextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.theme.ChartAxis}},
	}
}

// HourAxis returns a 0..24 y-axis labelled "HH:00" with gridlines.
func (c *ChartOpts) HourAxis() opts.YAxis {
	return opts.YAxis{
		Type:        "value",
		Min:         0,
		Max:         24,
		SplitNumber: 12,
		AxisLabel: &opts.AxisLabel{
			Color:     c.theme.ChartTextMuted,
			Formatter: opts.FuncOpts(hourFormatterJS),
		},
		AxisLine: &opts.AxisLine{LineStyle: &opts.LineStyle{Color: c.theme.ChartAxis}},
		SplitLine: &opts.SplitLine{
			Show:      opts.Bool(true),
			LineStyle: &opts.LineStyle{Color: c.theme.ChartGrid},
		},
	}
}

const hourFormatterJS = `function (v) { return String(v % 24).padStart(2, '0') + ':00'; }`

// Grid returns grid options with standard margins.
func (c *ChartOpts) Grid() opts.Grid {
	return opts.Grid{
		Top:          "20",
		Bottom:       "40",
		Left:         "20",
		Right:        "20",
		ContainLabel: opts.Bool(true),
	}
}

// PixelGrid returns a grid with fixed pixel offsets that does not grow to
// fit axis labels, so plot pixels line up with an external layout.
func (c *ChartOpts) PixelGrid(top, right, bottom, left float64) opts.Grid {
	return opts.Grid{
		Top:          px(top),
		Right:        px(right),
		Bottom:       px(bottom),
		Left:         px(left),
		ContainLabel: opts.Bool(false),
	}
}

// Px formats v as a CSS pixel length.
func Px(v float64) string {
	return px(v) + "px"
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Tooltip returns tooltip options.
func (c *ChartOpts) Tooltip(trigger string) opts.Tooltip {
	return opts.Tooltip{Show: opts.Bool(true), Trigger: trigger}
}

// MarkColor returns the resting mark color.
func (c *ChartOpts) MarkColor() string {
	return c.theme.ChartMark
}

// SelectedColor returns the color of brushed marks.
func (c *ChartOpts) SelectedColor() string {
	return c.theme.ChartSelected
}

// TextMutedColor returns the muted chart text color.
func (c *ChartOpts) TextMutedColor() string {
	return c.theme.ChartTextMuted
}
