// Package scene holds the interactive state of the commit scatter: the full
// commit set, the time-progress cutoff with its visible subset, the brush
// selection, and the scales that project commits onto the plot.
//
// A Scene has a single owner and is not safe for concurrent use. Every
// setter re-derives the dependent state from scratch, so repeating an event
// is harmless.
package scene

import (
	"math"
	"time"

	"github.com/Sumatoshi-tech/codefolio/pkg/alg/stats"
	"github.com/Sumatoshi-tech/codefolio/pkg/commits"
	"github.com/Sumatoshi-tech/codefolio/pkg/scale"
)

// Progress bounds, in percent of the elapsed time range.
const (
	MinProgress = 0
	MaxProgress = 100
)

// Hour axis domain.
const (
	HourMin = 0
	HourMax = 24
)

// Option configures a Scene.
type Option func(*Scene)

// WithLayout sets the plot geometry.
func WithLayout(layout Layout) Option {
	return func(s *Scene) {
		s.layout = layout
	}
}

// WithLocation sets the zone used for calendar-aligned time ticks.
func WithLocation(loc *time.Location) Option {
	return func(s *Scene) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// Scene is the commit scatter state.
type Scene struct {
	all    []*commits.Commit
	layout Layout
	loc    *time.Location

	first, last time.Time

	progress float64
	maxTime  time.Time
	visible  []*commits.Commit

	x scale.Time
	y scale.Linear
	r scale.Sqrt

	brush    Rect
	hasBrush bool
	selected map[*commits.Commit]struct{}
	ordered  []*commits.Commit
}

// New seeds a scene from the full commit set with progress at 100.
func New(all []*commits.Commit, opts ...Option) *Scene {
	s := &Scene{
		all:    all,
		layout: DefaultLayout(),
		loc:    time.UTC,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.first, s.last, _ = stats.ExtentFunc(all,
		func(c *commits.Commit) time.Time { return c.Datetime },
		time.Time.Compare)

	lo, hi, _ := stats.Extent(all, func(c *commits.Commit) int { return c.TotalLines })
	s.r = scale.NewSqrt(float64(lo), float64(hi), s.layout.MinRadius, s.layout.MaxRadius)

	area := s.layout.Usable()
	s.y = scale.NewLinear(HourMin, HourMax, area.Y1, area.Y0)

	s.SetProgress(MaxProgress)

	return s
}

// SetProgress moves the time cutoff to p percent of the commit time range,
// recomputes the visible set and x scale, and clears the brush.
// p is clamped to [0, 100]; NaN counts as 0.
func (s *Scene) SetProgress(p float64) {
	if math.IsNaN(p) {
		p = MinProgress
	}

	s.progress = stats.Clamp(p, MinProgress, MaxProgress)
	s.maxTime = s.cutoff(s.progress)

	visible := make([]*commits.Commit, 0, len(s.all))

	for _, c := range s.all {
		if !c.Datetime.After(s.maxTime) {
			visible = append(visible, c)
		}
	}

	s.visible = visible

	lo, hi, _ := stats.ExtentFunc(visible,
		func(c *commits.Commit) time.Time { return c.Datetime },
		time.Time.Compare)

	area := s.layout.Usable()
	s.x = scale.NewTime(lo, hi, area.X0, area.X1, s.loc).Nice(scale.DefaultTickCount)

	s.ClearBrush()
}

func (s *Scene) cutoff(p float64) time.Time {
	switch {
	case len(s.all) == 0:
		return time.Time{}
	case p >= MaxProgress:
		return s.last
	case p <= MinProgress:
		return s.first
	}

	span := s.last.Sub(s.first)

	return s.first.Add(time.Duration(math.Round(float64(span) * p / MaxProgress)))
}

// SetBrush replaces the selection region. A zero-area rectangle clears it.
func (s *Scene) SetBrush(r Rect) {
	if r.Empty() {
		s.ClearBrush()

		return
	}

	s.brush = r.Normalize()
	s.hasBrush = true
	s.selected = make(map[*commits.Commit]struct{})
	s.ordered = nil

	for _, c := range s.visible {
		x, y := s.Position(c)
		if s.brush.Contains(x, y) {
			s.selected[c] = struct{}{}
			s.ordered = append(s.ordered, c)
		}
	}
}

// ClearBrush removes the selection region.
func (s *Scene) ClearBrush() {
	s.brush = Rect{}
	s.hasBrush = false
	s.selected = nil
	s.ordered = nil
}

// Position returns the mark center of c under the current scales.
func (s *Scene) Position(c *commits.Commit) (x, y float64) {
	return s.x.Map(c.Datetime), s.y.Map(c.HourFrac)
}

// Radius returns the mark radius of c under the global size scale.
func (s *Scene) Radius(c *commits.Commit) float64 {
	return s.r.Map(float64(c.TotalLines))
}

// IsSelected reports whether c is inside the active brush.
func (s *Scene) IsSelected(c *commits.Commit) bool {
	_, ok := s.selected[c]

	return ok
}

// Selected returns the brushed commits in visible order.
func (s *Scene) Selected() []*commits.Commit {
	return s.ordered
}

// BreakdownSource returns the selection, or the visible set when nothing is
// selected.
func (s *Scene) BreakdownSource() []*commits.Commit {
	if len(s.ordered) > 0 {
		return s.ordered
	}

	return s.visible
}

// Brush returns the active region and whether there is one.
func (s *Scene) Brush() (Rect, bool) {
	return s.brush, s.hasBrush
}

// All returns the full commit set.
func (s *Scene) All() []*commits.Commit { return s.all }

// Visible returns the commits at or before the cutoff.
func (s *Scene) Visible() []*commits.Commit { return s.visible }

// Progress returns the current progress percentage.
func (s *Scene) Progress() float64 { return s.progress }

// MaxTime returns the current cutoff instant. It is zero for an empty scene.
func (s *Scene) MaxTime() time.Time { return s.maxTime }

// Layout returns the plot geometry.
func (s *Scene) Layout() Layout { return s.layout }

// Location returns the zone used for time ticks.
func (s *Scene) Location() *time.Location { return s.loc }

// XScale returns the time axis scale over the visible set.
func (s *Scene) XScale() scale.Time { return s.x }

// YScale returns the hour axis scale.
func (s *Scene) YScale() scale.Linear { return s.y }

// RScale returns the radius scale over the global line counts.
func (s *Scene) RScale() scale.Sqrt { return s.r }
