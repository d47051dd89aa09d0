package plotpage

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/event"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartWidth      = "100%"
	chartHeight     = "600px"
	pieSize         = "360px"
	pieRadius       = "70%"
	outOfBrushAlpha = 0.3
	rectFields      = 4
)

// ScatterPoint is one mark of a scatter series. Extra values travel with the
// point and are available to the tooltip formatter as value[2:].
type ScatterPoint struct {
	X     any
	Y     float64
	Size  int
	Extra []any
}

// ScatterSeries is a named group of points sharing a color.
type ScatterSeries struct {
	Name    string
	Color   string
	Opacity float32
	Points  []ScatterPoint
}

// ScatterConfig carries the size, axes and interaction of a scatter chart.
// A nil Grid uses the label-containing default grid.
type ScatterConfig struct {
	Width     string
	Height    string
	Grid      *opts.Grid
	XAxis     opts.XAxis
	YAxis     opts.YAxis
	TooltipJS string
	Brush     *ScatterBrush
}

// ScatterBrush turns on the rectangle brush. OnEnd is a JS handler for the
// brushEnd event. Initial, when it holds x0,y0,x1,y1 in chart pixels, is
// redrawn once the chart loads.
type ScatterBrush struct {
	OnEnd   string
	Initial []float64
}

// BuildScatter constructs a configured go-echarts scatter chart.
// If cOpts is nil, DefaultChartOpts() is used.
func BuildScatter(cOpts *ChartOpts, cfg ScatterConfig, series []ScatterSeries) *charts.Scatter {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	width := cfg.Width
	if width == "" {
		width = chartWidth
	}

	height := cfg.Height
	if height == "" {
		height = chartHeight
	}

	grid := cOpts.Grid()
	if cfg.Grid != nil {
		grid = *cfg.Grid
	}

	tooltip := cOpts.Tooltip("item")
	if cfg.TooltipJS != "" {
		tooltip.Formatter = opts.FuncOpts(cfg.TooltipJS)
	}

	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(cOpts.Init(width, height)),
		charts.WithTooltipOpts(tooltip),
		charts.WithXAxisOpts(cfg.XAxis),
		charts.WithYAxisOpts(cfg.YAxis),
		charts.WithGridOpts(grid),
		charts.WithLegendOpts(cOpts.Legend()),
	}

	if cfg.Brush != nil {
		global = append(global, brushOpts(*cfg.Brush)...)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(global...)

	if cfg.Brush != nil && len(cfg.Brush.Initial) == rectFields {
		scatter.AddJSFuncStrs(opts.FuncOpts(initialBrushJS(cfg.Brush.Initial)))
	}

	for _, s := range series {
		data := make([]opts.ScatterData, len(s.Points))

		for i, p := range s.Points {
			value := append([]any{p.X, p.Y}, p.Extra...)
			data[i] = opts.ScatterData{Value: value, SymbolSize: p.Size}
		}

		style := opts.ItemStyle{Color: s.Color}
		if s.Opacity > 0 {
			style.Opacity = opts.Float(s.Opacity)
		}

		scatter.AddSeries(s.Name, data, charts.WithItemStyleOpts(style))
	}

	return scatter
}

func brushOpts(b ScatterBrush) []charts.GlobalOpts {
	out := []charts.GlobalOpts{
		charts.WithBrush(opts.Brush{
			OutOfBrush: &opts.BrushOutOfBrush{ColorAlpha: outOfBrushAlpha},
		}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show:    opts.Bool(true),
			Feature: &opts.ToolBoxFeature{Brush: &opts.ToolBoxFeatureBrush{Type: []string{"rect", "clear"}}},
		}),
	}

	if b.OnEnd != "" {
		out = append(out, charts.WithEventListeners(event.Listener{
			EventName: "brushEnd",
			Handler:   opts.FuncOpts(b.OnEnd),
		}))
	}

	return out
}

// initialBrushJS redraws r (x0,y0,x1,y1) as a rect brush in pixel space.
func initialBrushJS(r []float64) string {
	return fmt.Sprintf(
		"%%MY_ECHARTS%%.dispatchAction({type: 'brush', areas: [{brushType: 'rect', range: [[%g, %g], [%g, %g]]}]});",
		r[0], r[2], r[1], r[3])
}

// PieSlice is one wedge of a pie chart.
type PieSlice struct {
	Name  string
	Value int
	Color string
}

// BuildPie constructs a configured go-echarts pie chart.
func BuildPie(cOpts *ChartOpts, name string, slices []PieSlice) *charts.Pie {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTooltipOpts(cOpts.Tooltip("item")),
		charts.WithInitializationOpts(cOpts.Init(pieSize, pieSize)),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	data := make([]opts.PieData, len(slices))
	for i, s := range slices {
		data[i] = opts.PieData{Name: s.Name, Value: s.Value}
		if s.Color != "" {
			data[i].ItemStyle = &opts.ItemStyle{Color: s.Color}
		}
	}

	pie.AddSeries(name, data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c}",
				Color:     cOpts.TextMutedColor(),
			}),
			charts.WithPieChartOpts(opts.PieChart{
				Radius: pieRadius,
			}),
		)

	return pie
}
