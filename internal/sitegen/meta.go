package sitegen

import (
	"fmt"
	"html"
	"net/url"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/codefolio/internal/plotpage"
	"github.com/Sumatoshi-tech/codefolio/pkg/commits"
	"github.com/Sumatoshi-tech/codefolio/pkg/meta"
)

const (
	metaTitle       = "Meta"
	metaDescription = "Stats and history of the code behind this site."
	noCommitData    = "No commit data available."
	progressStep    = 1
	markDiameter    = 2

	// value = [x, y, id, author, date, lines, url].
	commitTooltipJS = `function (p) {
  var v = p.value;
  return '<strong>' + v[2] + '</strong><br>' + v[4] + '<br>' + v[3] + '<br>' + v[5] + ' lines edited';
}`

	// Rect range is [[x0, x1], [y0, y1]] in chart pixels, which the fixed
	// grid keeps equal to plot pixels.
	brushEndJS = `function (params) {
  var area = params.areas && params.areas[0];
  var form = document.querySelector('form.slider');
  if (!area || !form || !form.elements.brush) return;
  var r = area.range;
  var value = [r[0][0], r[1][0], r[0][1], r[1][1]].map(Math.round).join(',');
  if (value === form.elements.brush.value) return;
  form.elements.brush.value = value;
  form.submit();
}`
)

// Meta builds the commit-history page from the engine's current state.
func (s Site) Meta(eng *meta.Engine) *plotpage.Page {
	model := eng.Model()
	page := s.page(metaTitle, metaDescription, MetaPath)

	page.Add(plotpage.Section{
		ID:    "stats",
		Title: "Summary",
		Chart: statsBlock(model.Stats),
	})

	if len(eng.Scene().All()) == 0 {
		page.Add(plotpage.Section{ID: "commits", Title: "Commits by time of day", Chart: plotpage.NewText(noCommitData)})

		return page
	}

	page.Add(plotpage.Section{
		ID:       "commits",
		Title:    "Commits by time of day",
		Subtitle: model.Selection.Text,
		Chart: s.commitsGroup(eng, model),
	})

	if len(model.Files) > 0 {
		page.Add(plotpage.Section{
			ID:       "files",
			Title:    "Files",
			Subtitle: humanize.Comma(int64(len(model.Files))) + " files, one dot per line",
			Chart:    fileStrips(model.Files),
		})
	}

	return page
}

func statsBlock(st meta.Stats) *plotpage.Stats {
	items := st.Items()
	out := make([]plotpage.Stat, len(items))

	for i, item := range items {
		out[i] = plotpage.Stat{Label: item.Label, Value: humanize.Comma(int64(item.Value))}
	}

	return &plotpage.Stats{Items: out}
}

func (s Site) commitsGroup(eng *meta.Engine, model meta.Model) plotpage.Group {
	if s.Static {
		return plotpage.Group{commitScatter(eng, model, false), breakdownLegend(model.Breakdown)}
	}

	return plotpage.Group{
		s.progressSlider(model),
		commitScatter(eng, model, true),
		breakdownLegend(model.Breakdown),
	}
}

func (s Site) progressSlider(model meta.Model) *plotpage.Slider {
	slider := &plotpage.Slider{
		Action: s.href(MetaPath),
		Name:   "progress",
		Label:  "Show commits until:",
		Value:  model.Progress,
		Min:    0,
		Max:    100,
		Step:   progressStep,
		Output: model.TimeLabel,
		Fields: []plotpage.FormField{{Name: "brush", Type: "hidden"}},
	}

	if model.Scatter.Brush != nil {
		slider.Fields[0].Value = model.Scatter.Brush.String()

		q := url.Values{}
		q.Set("progress", strconv.FormatFloat(model.Progress, 'f', -1, 64))
		slider.ResetHref = s.href(MetaPath) + "?" + q.Encode()
		slider.ResetLabel = "Clear brush"
	}

	return slider
}

// commitScatter pins the chart grid to the scene layout so a brush drawn on
// the chart is already in scene coordinates.
func commitScatter(eng *meta.Engine, model meta.Model, brushable bool) plotpage.Renderable {
	views := make(map[string]commits.View, len(model.Commits))
	for _, v := range model.Commits {
		views[v.ID] = v
	}

	loc := eng.Scene().Location()

	var rest, selected []plotpage.ScatterPoint

	for _, m := range model.Scatter.Marks {
		v := views[m.ID]
		point := plotpage.ScatterPoint{
			X:    v.Datetime.UnixMilli(),
			Y:    v.HourFrac,
			Size: int(m.R * markDiameter),
			Extra: []any{
				html.EscapeString(v.ID),
				html.EscapeString(v.Author),
				meta.TimeLabel(v.Datetime, loc),
				v.TotalLines,
				v.URL,
			},
		}

		if m.Selected {
			selected = append(selected, point)
		} else {
			rest = append(rest, point)
		}
	}

	cOpts := plotpage.NewChartOpts(plotpage.ThemeAuto)
	x := eng.Scene().XScale()
	margins := eng.Scene().Layout().Margins
	grid := cOpts.PixelGrid(margins.Top, margins.Right, margins.Bottom, margins.Left)

	yAxis := cOpts.HourAxis()
	yAxis.AxisLabel.Inside = opts.Bool(true)

	cfg := plotpage.ScatterConfig{
		Width:     plotpage.Px(model.Scatter.Width),
		Height:    plotpage.Px(model.Scatter.Height),
		Grid:      &grid,
		XAxis:     cOpts.TimeAxis("", x.Start.UnixMilli(), x.End.UnixMilli()),
		YAxis:     yAxis,
		TooltipJS: commitTooltipJS,
	}

	if brushable {
		cfg.Brush = &plotpage.ScatterBrush{OnEnd: brushEndJS}
		if b := model.Scatter.Brush; b != nil {
			cfg.Brush.Initial = []float64{b.X0, b.Y0, b.X1, b.Y1}
		}
	}

	return plotpage.WrapChart(plotpage.BuildScatter(cOpts, cfg, []plotpage.ScatterSeries{
		{Name: "Commits", Color: cOpts.MarkColor(), Opacity: meta.RestOpacity, Points: rest},
		{Name: "Selected", Color: cOpts.SelectedColor(), Opacity: meta.HoverOpacity, Points: selected},
	}))
}

func breakdownLegend(rows []meta.BreakdownRow) *plotpage.Legend {
	items := make([]plotpage.LegendItem, len(rows))

	for i, row := range rows {
		items[i] = plotpage.LegendItem{
			Label:  row.Label,
			Detail: fmt.Sprintf("%s lines, %s", humanize.Comma(int64(row.Count)), row.Percent),
			Color:  row.Color,
		}
	}

	return &plotpage.Legend{Items: items}
}

func fileStrips(files []meta.FileRow) *plotpage.Strips {
	rows := make([]plotpage.Strip, len(files))

	for i, f := range files {
		detail := humanize.Comma(int64(f.Lines)) + " lines"
		if f.Language != "" {
			detail = f.Language + ", " + detail
		}

		dots := make([]string, len(f.Markers))
		for j, m := range f.Markers {
			dots[j] = m.Color
		}

		rows[i] = plotpage.Strip{Label: f.Path, Detail: detail, Dots: dots}
	}

	return &plotpage.Strips{Rows: rows}
}
