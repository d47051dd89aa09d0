package terminal_test

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codefolio/internal/terminal"
	"github.com/Sumatoshi-tech/codefolio/pkg/commits"
	"github.com/Sumatoshi-tech/codefolio/pkg/loclog"
	"github.com/Sumatoshi-tech/codefolio/pkg/meta"
	"github.com/Sumatoshi-tech/codefolio/pkg/projects"
	"github.com/Sumatoshi-tech/codefolio/pkg/scene"
)

const testLog = "commit,file,line,type,length,depth,date,time,timezone,datetime,author\n" +
	"a1,src/main.js,1,js,20,0,2024-01-01,10:30:00,+00:00,2024-01-01T10:30:00Z,Ana\n" +
	"a1,src/style.css,1,css,12,1,2024-01-01,10:30:00,+00:00,2024-01-01T10:30:00Z,Ana\n" +
	"b2,src/main.js,2,js,31,2,2024-01-02,05:15:00,+00:00,2024-01-02T05:15:00Z,Ben\n"

var plain = terminal.Config{Width: 100, NoColor: true}

func testEngine(t *testing.T) *meta.Engine {
	t.Helper()

	result, err := loclog.Parse(strings.NewReader(testLog))
	require.NoError(t, err)

	return meta.NewEngine(commits.Aggregate(result.Records, "https://github.com/me/site"))
}

func TestRenderMeta_Scenario(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, plain.RenderMeta(&buf, testEngine(t).Model()))

	out := buf.String()
	assert.Contains(t, out, "CODE HISTORY")
	assert.Contains(t, out, "until January 2, 2024 at 5:15 AM")
	assert.Contains(t, out, "No commits selected")
	assert.Contains(t, out, "66.7%")
	assert.Contains(t, out, "33.3%")
	assert.Contains(t, out, "src/main.js")
	assert.Contains(t, out, "●●")
	assert.NotContains(t, out, "\x1b[")
	assert.NotContains(t, out, "https://github.com/me/site/commit/a1")
}

func TestRenderMeta_SelectedCommits(t *testing.T) {
	t.Parallel()

	eng := testEngine(t)
	brush := scene.Rect{X0: 0, Y0: 0, X1: scene.DefaultWidth, Y1: scene.DefaultHeight}
	eng.Apply(meta.Query{Brush: &brush})

	var buf bytes.Buffer
	require.NoError(t, plain.RenderMeta(&buf, eng.Model()))

	out := buf.String()
	assert.Contains(t, out, "2 commits selected")
	assert.Contains(t, out, "https://github.com/me/site/commit/a1")
	assert.Contains(t, out, "Ben")
}

func TestRenderMeta_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, plain.RenderMeta(&buf, meta.NewEngine(nil).Model()))

	assert.Contains(t, buf.String(), "No commit data available.")
}

func TestRenderProjects(t *testing.T) {
	t.Parallel()

	list := []projects.Project{
		{Title: "Lab 4", Year: "2024", Description: "Fetch and render JSON"},
		{Title: "Tetris", Year: "2023", URL: "https://example.com/tetris"},
		{Year: "2023"},
	}

	var buf bytes.Buffer
	require.NoError(t, plain.RenderProjects(&buf, list, "", "2023"))

	out := buf.String()
	assert.Contains(t, out, "My Projects — 2 Total")
	assert.Contains(t, out, "Tetris")
	assert.Contains(t, out, "https://example.com/tetris")
	assert.NotContains(t, out, "Lab 4")

	buf.Reset()
	require.NoError(t, plain.RenderProjects(&buf, list, "nothing-like-this", ""))
	assert.Contains(t, buf.String(), "No projects match your search.")
}

func TestMarker(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "●", plain.Marker("#4e79a7"))

	colored := terminal.Config{Width: 80}.Marker("#4e79a7")
	assert.Contains(t, colored, "\x1b[38;2;78;121;167m")
	assert.Contains(t, colored, "●")

	assert.Equal(t, "●", terminal.Config{Width: 80}.Marker("steelblue"))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", terminal.Truncate("short", 10))
	assert.Equal(t, "abcd…", terminal.Truncate("abcdefgh", 5))
	assert.Empty(t, terminal.Truncate("abc", 0))
}

func TestHeader_LinesShareWidth(t *testing.T) {
	t.Parallel()

	lines := strings.Split(terminal.Header("TITLE", "right", 40), "\n")
	require.Len(t, lines, 3)

	for _, line := range lines {
		assert.Equal(t, 40, utf8.RuneCountInString(line))
	}

	grown := strings.Split(terminal.Header("A VERY LONG TITLE", "and detail", 10), "\n")
	assert.Equal(t, utf8.RuneCountInString(grown[0]), utf8.RuneCountInString(grown[1]))
}

func TestDetectWidth(t *testing.T) {
	t.Setenv("COLUMNS", "120")
	assert.Equal(t, 120, terminal.DetectWidth())

	t.Setenv("COLUMNS", "10")
	assert.Equal(t, terminal.MinWidth, terminal.DetectWidth())

	t.Setenv("COLUMNS", "wide")
	assert.Equal(t, terminal.DefaultWidth, terminal.DetectWidth())
}
