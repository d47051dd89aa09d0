package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/codefolio/pkg/commits"
	"github.com/Sumatoshi-tech/codefolio/pkg/meta"
)

const (
	metaTitle      = "CODE HISTORY"
	noCommitData   = "No commit data available."
	maxFileRows    = 20
	fileNameWidth  = 36
	fileColumnsPad = 24
)

// RenderMeta writes the commit-history model as text: header, stats,
// type breakdown, file listing and the selected commits.
func (c Config) RenderMeta(w io.Writer, model meta.Model) error {
	var b strings.Builder

	right := model.TimeLabel
	if right != "" {
		right = "until " + right
	}

	b.WriteString(Header(metaTitle, right, c.Width))
	b.WriteString("\n\n")

	if len(model.Commits) == 0 && model.Stats.Commits == 0 {
		b.WriteString(noCommitData + "\n")

		return write(w, b.String())
	}

	b.WriteString(c.statsTable(model.Stats))
	b.WriteString("\n\n")
	b.WriteString(c.Emphasis(model.Selection.Text))
	b.WriteString("\n")

	if len(model.Breakdown) > 0 {
		b.WriteString("\n")
		b.WriteString(c.breakdownTable(model.Breakdown))
		b.WriteString("\n")
	}

	if len(model.Files) > 0 {
		b.WriteString("\n")
		b.WriteString(c.filesTable(model.Files))
		b.WriteString("\n")
	}

	if selected := selectedCommits(model); len(selected) > 0 {
		b.WriteString("\n")
		b.WriteString(commitsTable(selected))
		b.WriteString("\n")
	}

	return write(w, b.String())
}

func (c Config) statsTable(st meta.Stats) string {
	tbl := newTable()

	items := st.Items()
	header := make(table.Row, len(items))
	row := make(table.Row, len(items))

	for i, item := range items {
		header[i] = item.Label
		row[i] = humanize.Comma(int64(item.Value))
	}

	tbl.AppendHeader(header)
	tbl.AppendRow(row)

	return tbl.Render()
}

func (c Config) breakdownTable(rows []meta.BreakdownRow) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"", "Type", "Lines", "Share"})

	for _, r := range rows {
		tbl.AppendRow(table.Row{c.Marker(r.Color), r.Label, humanize.Comma(int64(r.Count)), r.Percent})
	}

	return tbl.Render()
}

func (c Config) filesTable(files []meta.FileRow) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"File", "Language", "Lines", "Markers"})

	dotsWidth := max(c.Width-fileNameWidth-fileColumnsPad, 1)

	shown := files
	if len(shown) > maxFileRows {
		shown = shown[:maxFileRows]
	}

	for _, f := range shown {
		tbl.AppendRow(table.Row{
			Truncate(f.Path, fileNameWidth),
			f.Language,
			humanize.Comma(int64(f.Lines)),
			c.markers(f.Markers, dotsWidth),
		})
	}

	if len(files) > len(shown) {
		tbl.AppendFooter(table.Row{fmt.Sprintf("+%d more files", len(files)-len(shown))})
	}

	return tbl.Render()
}

func (c Config) markers(ms []meta.LineMarker, width int) string {
	var b strings.Builder

	for i, m := range ms {
		if i == width {
			b.WriteString(ellipsis)

			break
		}

		b.WriteString(c.Marker(m.Color))
	}

	return b.String()
}

func selectedCommits(model meta.Model) []commits.View {
	ids := make(map[string]bool)

	for _, m := range model.Scatter.Marks {
		if m.Selected {
			ids[m.ID] = true
		}
	}

	var out []commits.View

	for _, v := range model.Commits {
		if ids[v.ID] {
			out = append(out, v)
		}
	}

	return out
}

func commitsTable(views []commits.View) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Commit", "Author", "When", "Lines", "Link"})

	for _, v := range views {
		tbl.AppendRow(table.Row{v.ID, v.Author, humanize.Time(v.Datetime), v.TotalLines, v.URL})
	}

	return tbl.Render()
}

func write(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	if err != nil {
		return fmt.Errorf("write terminal output: %w", err)
	}

	return nil
}
