package meta

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/codefolio/pkg/commits"
	"github.com/Sumatoshi-tech/codefolio/pkg/scale"
	"github.com/Sumatoshi-tech/codefolio/pkg/scene"
)

// Mark opacities at rest and under the pointer.
const (
	RestOpacity  = 0.7
	HoverOpacity = 1.0
)

const hoursPerDay = 24

// Mark is one commit circle.
type Mark struct {
	ID         string  `json:"id"          yaml:"id"`
	URL        string  `json:"url"         yaml:"url"`
	X          float64 `json:"x"           yaml:"x"`
	Y          float64 `json:"y"           yaml:"y"`
	R          float64 `json:"r"           yaml:"r"`
	TotalLines int     `json:"total_lines" yaml:"total_lines"`
	Selected   bool    `json:"selected"    yaml:"selected"`
	Opacity    float64 `json:"opacity"     yaml:"opacity"`
}

// Tick is an axis tick at a pixel position.
type Tick struct {
	Pos   float64 `json:"pos"   yaml:"pos"`
	Label string  `json:"label" yaml:"label"`
}

// ScatterModel is everything needed to draw the commit scatter.
type ScatterModel struct {
	Width     float64     `json:"width"           yaml:"width"`
	Height    float64     `json:"height"          yaml:"height"`
	Area      scene.Rect  `json:"area"            yaml:"area"`
	Marks     []Mark      `json:"marks"           yaml:"marks"`
	XTicks    []Tick      `json:"x_ticks"         yaml:"x_ticks"`
	YTicks    []Tick      `json:"y_ticks"         yaml:"y_ticks"`
	Gridlines []float64   `json:"gridlines"       yaml:"gridlines"`
	Brush     *scene.Rect `json:"brush,omitempty" yaml:"brush,omitempty"`
}

// Scatter projects the visible commits of s. Marks are ordered by
// descending size so smaller marks are painted on top.
func Scatter(s *scene.Scene) ScatterModel {
	layout := s.Layout()

	ordered := slices.Clone(s.Visible())
	slices.SortStableFunc(ordered, func(a, b *commits.Commit) int {
		return cmp.Compare(b.TotalLines, a.TotalLines)
	})

	marks := make([]Mark, len(ordered))

	for i, c := range ordered {
		x, y := s.Position(c)
		marks[i] = Mark{
			ID:         c.ID,
			URL:        c.URL,
			X:          x,
			Y:          y,
			R:          s.Radius(c),
			TotalLines: c.TotalLines,
			Selected:   s.IsSelected(c),
			Opacity:    RestOpacity,
		}
	}

	model := ScatterModel{
		Width:  layout.Width,
		Height: layout.Height,
		Area:   layout.Usable(),
		Marks:  marks,
		XTicks: timeTicks(s),
	}

	y := s.YScale()
	for _, h := range y.Ticks(scale.DefaultTickCount) {
		pos := y.Map(h)
		model.YTicks = append(model.YTicks, Tick{Pos: pos, Label: HourLabel(h)})
		model.Gridlines = append(model.Gridlines, pos)
	}

	if brush, ok := s.Brush(); ok {
		model.Brush = &brush
	}

	return model
}

func timeTicks(s *scene.Scene) []Tick {
	if len(s.Visible()) == 0 {
		return nil
	}

	x := s.XScale()

	iv, ok := scale.ChooseInterval(x.Start, x.End, scale.DefaultTickCount)
	if !ok {
		return []Tick{{Pos: x.Map(x.Start), Label: x.Start.In(s.Location()).Format("Jan 02 15:04")}}
	}

	ticks := x.Ticks(scale.DefaultTickCount)
	out := make([]Tick, len(ticks))

	for i, t := range ticks {
		out[i] = Tick{Pos: x.Map(t), Label: t.Format(iv.Format())}
	}

	return out
}

// HourLabel formats an hour-axis value as "HH:00", wrapping 24 to 00.
func HourLabel(h float64) string {
	return fmt.Sprintf("%02d:00", int(h)%hoursPerDay)
}
