package terminal

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/codefolio/pkg/projects"
)

const (
	descriptionWidth = 48
	noProjectsMatch  = "No projects match your search."
)

// RenderProjects writes the gallery as text: heading, year rollup and the
// projects matching query and year.
func (c Config) RenderProjects(w io.Writer, list []projects.Project, query, year string) error {
	return c.RenderListing(w, projects.NewListing(list, query, year))
}

// RenderListing writes a prepared gallery listing.
func (c Config) RenderListing(w io.Writer, listing projects.Listing) error {
	var b strings.Builder

	b.WriteString(Header(listing.Heading, listing.Query, c.Width))
	b.WriteString("\n\n")

	if len(listing.Years) > 0 {
		tbl := newTable()
		tbl.AppendHeader(table.Row{"", "Year", "Projects"})

		for _, s := range listing.Years {
			label := s.Label
			if s.Selected {
				label = c.Emphasis(label)
			}

			tbl.AppendRow(table.Row{c.Marker(s.Color), label, s.Value})
		}

		b.WriteString(tbl.Render())
		b.WriteString("\n\n")
	}

	if len(listing.Projects) == 0 {
		b.WriteString(noProjectsMatch + "\n")

		return write(w, b.String())
	}

	tbl := newTable()
	tbl.AppendHeader(table.Row{"Title", "Year", "Description", "Link"})

	for _, p := range listing.Projects {
		tbl.AppendRow(table.Row{p.DisplayTitle(), string(p.Year), Truncate(p.Description, descriptionWidth), p.URL})
	}

	b.WriteString(tbl.Render())
	b.WriteString("\n")

	return write(w, b.String())
}
