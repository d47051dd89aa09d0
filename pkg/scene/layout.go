package scene

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Default plot geometry in pixels.
const (
	DefaultWidth        = 1000
	DefaultHeight       = 600
	DefaultMarginTop    = 10
	DefaultMarginRight  = 10
	DefaultMarginBottom = 30
	DefaultMarginLeft   = 20
	DefaultMinRadius    = 2
	DefaultMaxRadius    = 30
)

const rectFields = 4

// ErrBadRect is returned when a rectangle cannot be parsed.
var ErrBadRect = errors.New("rectangle must be four comma-separated numbers x0,y0,x1,y1")

// Margins are the insets of the usable plot area.
type Margins struct {
	Top    float64 `json:"top"    yaml:"top"    mapstructure:"top"`
	Right  float64 `json:"right"  yaml:"right"  mapstructure:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom" mapstructure:"bottom"`
	Left   float64 `json:"left"   yaml:"left"   mapstructure:"left"`
}

// Layout is the plot geometry and the mark radius range.
type Layout struct {
	Width     float64 `json:"width"      yaml:"width"      mapstructure:"width"`
	Height    float64 `json:"height"     yaml:"height"     mapstructure:"height"`
	Margins   Margins `json:"margins"    yaml:"margins"    mapstructure:"margins"`
	MinRadius float64 `json:"min_radius" yaml:"min_radius" mapstructure:"min_radius"`
	MaxRadius float64 `json:"max_radius" yaml:"max_radius" mapstructure:"max_radius"`
}

// DefaultLayout returns the default plot geometry.
func DefaultLayout() Layout {
	return Layout{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Margins: Margins{
			Top:    DefaultMarginTop,
			Right:  DefaultMarginRight,
			Bottom: DefaultMarginBottom,
			Left:   DefaultMarginLeft,
		},
		MinRadius: DefaultMinRadius,
		MaxRadius: DefaultMaxRadius,
	}
}

// Usable returns the plot area inside the margins.
func (l Layout) Usable() Rect {
	return Rect{
		X0: l.Margins.Left,
		Y0: l.Margins.Top,
		X1: l.Width - l.Margins.Right,
		Y1: l.Height - l.Margins.Bottom,
	}
}

// Rect is an axis-aligned rectangle in plot pixels. The corners may be given
// in any order; Normalize orders them.
type Rect struct {
	X0 float64 `json:"x0" yaml:"x0"`
	Y0 float64 `json:"y0" yaml:"y0"`
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
}

// Normalize returns the rectangle with X0 <= X1 and Y0 <= Y1.
func (r Rect) Normalize() Rect {
	return Rect{
		X0: min(r.X0, r.X1),
		Y0: min(r.Y0, r.Y1),
		X1: max(r.X0, r.X1),
		Y1: max(r.Y0, r.Y1),
	}
}

// Empty reports whether the rectangle has zero area.
func (r Rect) Empty() bool {
	n := r.Normalize()

	return n.X1-n.X0 == 0 || n.Y1-n.Y0 == 0
}

// Contains reports whether (x, y) lies inside the normalized bounds,
// edges included.
func (r Rect) Contains(x, y float64) bool {
	n := r.Normalize()

	return n.X0 <= x && x <= n.X1 && n.Y0 <= y && y <= n.Y1
}

// String formats the rectangle as "x0,y0,x1,y1".
func (r Rect) String() string {
	parts := []float64{r.X0, r.Y0, r.X1, r.Y1}
	out := make([]string, len(parts))

	for i, v := range parts {
		out[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}

	return strings.Join(out, ",")
}

// ParseRect parses "x0,y0,x1,y1".
func ParseRect(s string) (Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != rectFields {
		return Rect{}, fmt.Errorf("%w: %q", ErrBadRect, s)
	}

	var vals [rectFields]float64

	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Rect{}, fmt.Errorf("%w: %q", ErrBadRect, s)
		}

		vals[i] = v
	}

	return Rect{X0: vals[0], Y0: vals[1], X1: vals[2], Y1: vals[3]}, nil
}
