package projects

import (
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/codefolio/pkg/alg/mapx"
	"github.com/Sumatoshi-tech/codefolio/pkg/meta"
)

// HighlightColor marks the selected pie wedge.
const HighlightColor = "#FF00A1"

// Search returns the projects whose field values, joined by newlines,
// contain query case-insensitively. A blank query matches everything.
func Search(list []Project, query string) []Project {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return list
	}

	var out []Project

	for _, p := range list {
		haystack := strings.ToLower(strings.Join(p.values(), "\n"))
		if strings.Contains(haystack, q) {
			out = append(out, p)
		}
	}

	return out
}

// FilterYear keeps the projects of one year. An empty year keeps all.
func FilterYear(list []Project, year string) []Project {
	if year == "" {
		return list
	}

	var out []Project

	for _, p := range list {
		if string(p.Year) == year {
			out = append(out, p)
		}
	}

	return out
}

// Slice is one pie wedge.
type Slice struct {
	Label    string `json:"label"    yaml:"label"`
	Value    int    `json:"value"    yaml:"value"`
	Color    string `json:"color"    yaml:"color"`
	Selected bool   `json:"selected" yaml:"selected"`
}

// PieByYear counts projects per year, sorted by year label. The wedge whose
// label equals selected is highlighted.
func PieByYear(list []Project, selected string) []Slice {
	counts := mapx.CountBy(list, func(p Project) string { return string(p.Year) })
	labels := mapx.SortedKeys(counts)
	palette := meta.NewPalette(labels...)

	slices := make([]Slice, len(labels))

	for i, label := range labels {
		s := Slice{Label: label, Value: counts[label], Color: palette.Color(label)}
		if selected != "" && label == selected {
			s.Color = HighlightColor
			s.Selected = true
		}

		slices[i] = s
	}

	return slices
}

// Heading is the gallery title for n projects.
func Heading(n int) string {
	if n == 0 {
		return "My Projects — No Projects Yet"
	}

	return "My Projects — " + strconv.Itoa(n) + " Total"
}

// Listing is the gallery state for one search: the heading over the
// projects shown, the year rollup of the search results and the projects.
type Listing struct {
	Heading  string    `json:"heading"         yaml:"heading"`
	Total    int       `json:"total"           yaml:"total"`
	Query    string    `json:"query,omitempty" yaml:"query,omitempty"`
	Year     string    `json:"year,omitempty"  yaml:"year,omitempty"`
	Years    []Slice   `json:"years"           yaml:"years"`
	Projects []Project `json:"projects"        yaml:"projects"`
}

// NewListing searches list for query, rolls the results up by year and keeps
// those from year, when one is given.
func NewListing(list []Project, query, year string) Listing {
	searched := Search(list, query)

	shown := FilterYear(searched, year)
	if shown == nil {
		shown = []Project{}
	}

	return Listing{
		Heading:  Heading(len(shown)),
		Total:    len(shown),
		Query:    query,
		Year:     year,
		Years:    PieByYear(searched, year),
		Projects: shown,
	}
}
