package meta_test

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codefolio/pkg/commits"
	"github.com/Sumatoshi-tech/codefolio/pkg/loclog"
	"github.com/Sumatoshi-tech/codefolio/pkg/meta"
	"github.com/Sumatoshi-tech/codefolio/pkg/scene"
)

const testRepo = "https://github.com/example/site"

func rec(id, file, lineType string, line, depth int, at time.Time) loclog.LineRecord {
	return loclog.LineRecord{
		File: file, Line: line, Type: lineType, Length: 40, Depth: depth,
		Commit: id, Author: "dev-" + id, Datetime: at,
	}
}

func scenario() []*commits.Commit {
	a1 := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
	b2 := time.Date(2024, 1, 2, 5, 15, 0, 0, time.UTC)

	return commits.Aggregate([]loclog.LineRecord{
		rec("a1", "src/main.js", "js", 1, 0, a1),
		rec("a1", "src/style.css", "css", 1, 1, a1),
		rec("b2", "src/main.js", "js", 2, 2, b2),
	}, testRepo)
}

func mixed() []*commits.Commit {
	base := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	types := []string{"js", "css", "html", "js", "svelte", "js", "css"}

	var records []loclog.LineRecord

	for i := range 21 {
		id := "c" + strconv.Itoa(i%6)
		at := base.Add(time.Duration(i%6) * 26 * time.Hour)
		file := fmt.Sprintf("src/f%d.%s", i%4, types[i%len(types)])
		records = append(records, rec(id, file, types[i%len(types)], i+1, i%5, at))
	}

	return commits.Aggregate(records, testRepo)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	got := meta.Summarize(scenario())

	assert.Equal(t, meta.Stats{Commits: 2, Files: 2, TotalLOC: 3, MaxDepth: 2, LongestLine: 2, MaxLines: 2}, got)
	assert.Equal(t, "Commits", got.Items()[0].Label)
	assert.Len(t, got.Items(), 6)
	assert.Equal(t, meta.Stats{}, meta.Summarize(nil))
}

func TestBreakdown_Scenario(t *testing.T) {
	t.Parallel()

	rows := meta.Breakdown(scenario(), meta.NewPalette("css", "js"))
	require.Len(t, rows, 2)

	assert.Equal(t, "CSS", rows[0].Label)
	assert.Equal(t, 1, rows[0].Count)
	assert.Equal(t, "33.3%", rows[0].Percent)
	assert.Equal(t, meta.Tableau10[0], rows[0].Color)

	assert.Equal(t, "JS", rows[1].Label)
	assert.Equal(t, 2, rows[1].Count)
	assert.Equal(t, "66.7%", rows[1].Percent)
	assert.Equal(t, meta.Tableau10[1], rows[1].Color)
}

func TestBreakdown_Completeness(t *testing.T) {
	t.Parallel()

	set := mixed()
	rows := meta.Breakdown(set, nil)
	require.NotEmpty(t, rows)

	total := 0
	share := 0.0
	percent := 0.0

	for i, row := range rows {
		total += row.Count
		share += row.Share

		p, err := strconv.ParseFloat(strings.TrimSuffix(row.Percent, "%"), 64)
		require.NoError(t, err)

		percent += p

		if i > 0 {
			assert.Less(t, rows[i-1].Type, row.Type)
		}
	}

	assert.Equal(t, len(commits.Flatten(set)), total)
	assert.InDelta(t, 1, share, 1e-9)
	assert.InDelta(t, 100, percent, 0.05*float64(len(rows)))
}

func TestBreakdown_Empty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, meta.Breakdown(nil, meta.NewPalette()))
}

func TestFiles_Order(t *testing.T) {
	t.Parallel()

	pal := meta.NewPalette("css", "js")
	rows := meta.Files(scenario(), pal)
	require.Len(t, rows, 2)

	assert.Equal(t, "src/main.js", rows[0].Path)
	assert.Equal(t, 2, rows[0].Lines)
	assert.Equal(t, "JavaScript", rows[0].Language)
	require.Len(t, rows[0].Markers, 2)
	assert.Equal(t, pal.Color("js"), rows[0].Markers[0].Color)

	assert.Equal(t, "src/style.css", rows[1].Path)
	assert.Equal(t, "CSS", rows[1].Language)
	assert.Equal(t, pal.Color("css"), rows[1].Markers[0].Color)

	assert.Nil(t, meta.Files(nil, pal))
}

func TestFiles_TiesKeepFirstAppearance(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	set := commits.Aggregate([]loclog.LineRecord{
		rec("x", "b.go", "go", 1, 0, at),
		rec("x", "a.go", "go", 1, 0, at),
		rec("x", "c.go", "go", 1, 0, at),
		rec("x", "c.go", "go", 2, 0, at),
	}, "")

	rows := meta.Files(set, nil)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"c.go", "b.go", "a.go"}, []string{rows[0].Path, rows[1].Path, rows[2].Path})
}

func TestPalette_Stable(t *testing.T) {
	t.Parallel()

	p1 := meta.NewPalette("js", "css", "html")
	p2 := meta.NewPalette("html", "js", "css")

	for _, typ := range []string{"css", "html", "js"} {
		assert.Equal(t, p1.Color(typ), p2.Color(typ))
	}

	assert.Equal(t, []string{"css", "html", "js"}, p1.Types())
	assert.Equal(t, meta.Tableau10[3], p1.Color("ts"))
	assert.Equal(t, meta.Tableau10[3], p1.Color("ts"))
}

func TestPalette_Wraps(t *testing.T) {
	t.Parallel()

	p := meta.NewPalette()

	for i := range len(meta.Tableau10) {
		p.Color(strconv.Itoa(i))
	}

	assert.Equal(t, meta.Tableau10[0], p.Color("overflow"))
}

func TestSelectionText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "No commits selected", meta.SelectionText(0))
	assert.Equal(t, "1 commits selected", meta.SelectionText(1))
	assert.Equal(t, "12 commits selected", meta.SelectionText(12))
}

func TestTooltip_Clamps(t *testing.T) {
	t.Parallel()

	c := scenario()[0]
	viewport := meta.Size{W: 800, H: 600}
	popup := meta.Size{W: 200, H: 100}

	tip := meta.Tooltip(c, meta.Point{X: 100, Y: 100}, viewport, popup)
	assert.True(t, tip.Visible)
	assert.InDelta(t, 112, tip.X, 0)
	assert.InDelta(t, 112, tip.Y, 0)
	assert.Equal(t, "a1", tip.ID)
	assert.Equal(t, testRepo+"/commit/a1", tip.URL)
	assert.Equal(t, 2, tip.Lines)
	assert.Equal(t, "Monday, January 1, 2024 at 10:30 AM", tip.Date)

	edge := meta.Tooltip(c, meta.Point{X: 790, Y: 590}, viewport, popup)
	assert.InDelta(t, 600, edge.X, 0)
	assert.InDelta(t, 500, edge.Y, 0)

	hidden := meta.HiddenTooltip()
	assert.False(t, hidden.Visible)
	assert.InDelta(t, meta.RestOpacity, hidden.Opacity, 0)
}

func TestScatter_MarksLargestFirst(t *testing.T) {
	t.Parallel()

	model := meta.Scatter(scene.New(mixed()))
	require.NotEmpty(t, model.Marks)

	for i := 1; i < len(model.Marks); i++ {
		assert.GreaterOrEqual(t, model.Marks[i-1].TotalLines, model.Marks[i].TotalLines)
		assert.GreaterOrEqual(t, model.Marks[i-1].R, model.Marks[i].R)
	}

	assert.Len(t, model.YTicks, 13)
	assert.Equal(t, "00:00", model.YTicks[0].Label)
	assert.Equal(t, "00:00", model.YTicks[12].Label)
	assert.Equal(t, "12:00", model.YTicks[6].Label)
	assert.Len(t, model.Gridlines, 13)
	assert.NotEmpty(t, model.XTicks)
	assert.Nil(t, model.Brush)
}

func TestEngine_EmptyState(t *testing.T) {
	t.Parallel()

	e := meta.NewEngine(commits.Aggregate(loclog.Load(t.Context(), "does-not-exist.csv"), ""))
	e.Apply(meta.Query{Brush: &scene.Rect{X0: 0, Y0: 0, X1: 500, Y1: 500}})

	m := e.Model()

	assert.Empty(t, m.Commits)
	assert.Equal(t, "No commits selected", m.Selection.Text)
	assert.Empty(t, m.Breakdown)
	assert.Empty(t, m.Files)
	assert.Empty(t, m.Scatter.Marks)
	assert.Empty(t, m.TimeLabel)
	assert.Equal(t, meta.Stats{}, m.Stats)
}

func TestEngine_ApplyAndSelect(t *testing.T) {
	t.Parallel()

	e := meta.NewEngine(scenario())
	area := e.Scene().Layout().Usable()

	_, y := e.Scene().Position(e.Scene().All()[0])
	brush := scene.Rect{X0: area.X0, Y0: y - 5, X1: area.X1, Y1: y + 5}

	e.Apply(meta.Query{Brush: &brush})
	first := e.Model()

	assert.Equal(t, "1 commits selected", first.Selection.Text)
	require.Len(t, first.Breakdown, 2)
	assert.Equal(t, 1, first.Breakdown[0].Count)
	assert.Equal(t, 1, first.Breakdown[1].Count)
	assert.Len(t, first.Files, 2)

	e.Apply(meta.Query{Brush: &brush})
	assert.Equal(t, first.Selection, e.Model().Selection)

	zero := 0.0
	e.Apply(meta.Query{Progress: &zero})
	m := e.Model()

	assert.Equal(t, "No commits selected", m.Selection.Text)
	assert.Len(t, m.Commits, 1)
	assert.Equal(t, "January 1, 2024 at 10:30 AM", m.TimeLabel)
}

func TestEngine_Tooltip(t *testing.T) {
	t.Parallel()

	e := meta.NewEngine(scenario())

	tip, ok := e.Tooltip("b2", meta.Point{}, meta.Size{W: 100, H: 100}, meta.Size{W: 10, H: 10})
	require.True(t, ok)
	assert.Equal(t, "dev-b2", tip.Author)

	_, ok = e.Tooltip("zz", meta.Point{}, meta.Size{}, meta.Size{})
	assert.False(t, ok)
}

func TestParseQuery(t *testing.T) {
	t.Parallel()

	q, err := meta.ParseQuery("40", "1,2,3,4")
	require.NoError(t, err)
	require.NotNil(t, q.Progress)
	assert.InDelta(t, 40, *q.Progress, 0)
	assert.Equal(t, &scene.Rect{X0: 1, Y0: 2, X1: 3, Y1: 4}, q.Brush)

	q, err = meta.ParseQuery("", "")
	require.NoError(t, err)
	assert.Nil(t, q.Progress)
	assert.Nil(t, q.Brush)

	_, err = meta.ParseQuery("abc", "")
	require.Error(t, err)

	_, err = meta.ParseQuery("", "1,2")
	require.ErrorIs(t, err, scene.ErrBadRect)
}
