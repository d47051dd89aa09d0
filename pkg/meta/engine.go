// Package meta computes the presentation models of the commit-history page:
// stats, scatter marks, selection counter, type breakdown, and file listing.
// Every model is a pure function of a scene.Scene and the type palette.
package meta

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/codefolio/pkg/alg/mapx"
	"github.com/Sumatoshi-tech/codefolio/pkg/commits"
	"github.com/Sumatoshi-tech/codefolio/pkg/loclog"
	"github.com/Sumatoshi-tech/codefolio/pkg/scene"
)

const timeLabelLayout = "January 2, 2006 at 3:04 PM"

// Model is the full page state.
type Model struct {
	Progress  float64        `json:"progress"   yaml:"progress"`
	MaxTime   time.Time      `json:"max_time"   yaml:"max_time"`
	TimeLabel string         `json:"time_label" yaml:"time_label"`
	Stats     Stats          `json:"stats"      yaml:"stats"`
	Scatter   ScatterModel   `json:"scatter"    yaml:"scatter"`
	Selection SelectionModel `json:"selection"  yaml:"selection"`
	Breakdown []BreakdownRow `json:"breakdown"  yaml:"breakdown"`
	Files     []FileRow      `json:"files"      yaml:"files"`
	Commits   []commits.View `json:"commits"    yaml:"commits"`
}

// Query is a set of interaction events to replay on an engine.
// Nil fields leave the state unchanged.
type Query struct {
	Progress *float64
	Brush    *scene.Rect
}

// ParseQuery reads a query from its text form: progress as a number and
// brush as "x0,y0,x1,y1". Empty strings are omitted.
func ParseQuery(progress, brush string) (Query, error) {
	var q Query

	if p := strings.TrimSpace(progress); p != "" {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Query{}, fmt.Errorf("parse progress %q: %w", progress, err)
		}

		q.Progress = &v
	}

	if b := strings.TrimSpace(brush); b != "" {
		r, err := scene.ParseRect(b)
		if err != nil {
			return Query{}, err
		}

		q.Brush = &r
	}

	return q, nil
}

// Engine owns a scene and its palette.
type Engine struct {
	scene   *scene.Scene
	palette *Palette
}

// NewEngine builds an engine over the full commit set. The palette is seeded
// with every line type in the set.
func NewEngine(all []*commits.Commit, opts ...scene.Option) *Engine {
	types := mapx.SortedKeys(mapx.CountBy(commits.Flatten(all),
		func(r loclog.LineRecord) string { return r.Type }))

	return &Engine{
		scene:   scene.New(all, opts...),
		palette: NewPalette(types...),
	}
}

// Scene returns the underlying scene.
func (e *Engine) Scene() *scene.Scene { return e.scene }

// Palette returns the type palette.
func (e *Engine) Palette() *Palette { return e.palette }

// Apply replays q: progress first, so the brush is tested against the
// scales of the new visible set.
func (e *Engine) Apply(q Query) {
	if q.Progress != nil {
		e.scene.SetProgress(*q.Progress)
	}

	if q.Brush != nil {
		e.scene.SetBrush(*q.Brush)
	}
}

// Model derives the full page model from the current state.
func (e *Engine) Model() Model {
	s := e.scene
	selected := len(s.Selected())

	return Model{
		Progress:  s.Progress(),
		MaxTime:   s.MaxTime(),
		TimeLabel: TimeLabel(s.MaxTime(), s.Location()),
		Stats:     Summarize(s.Visible()),
		Scatter:   Scatter(s),
		Selection: SelectionModel{Count: selected, Text: SelectionText(selected)},
		Breakdown: Breakdown(s.BreakdownSource(), e.palette),
		Files:     Files(s.Visible(), e.palette),
		Commits:   commits.Views(s.Visible()),
	}
}

// Tooltip builds the popup for the visible commit with the given id.
// ok is false when no visible commit has that id.
func (e *Engine) Tooltip(id string, pointer Point, viewport, popup Size) (TooltipModel, bool) {
	for _, c := range e.scene.Visible() {
		if c.ID == id {
			return Tooltip(c, pointer, viewport, popup), true
		}
	}

	return HiddenTooltip(), false
}

// TimeLabel formats the progress cutoff. The zero time yields "".
func TimeLabel(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}

	if loc != nil {
		t = t.In(loc)
	}

	return t.Format(timeLabelLayout)
}
