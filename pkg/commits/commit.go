// Package commits reconstructs per-commit aggregates from the per-line change log.
package commits

import (
	"strings"
	"time"

	"github.com/Sumatoshi-tech/codefolio/pkg/alg/mapx"
	"github.com/Sumatoshi-tech/codefolio/pkg/loclog"
)

const (
	commitPathSegment = "/commit/"
	minutesPerHour    = 60
)

// Commit aggregates every line record that shares a commit id.
// The representative fields are copied from the first record in the group.
type Commit struct {
	ID         string
	URL        string
	Author     string
	Date       time.Time
	Time       string
	Timezone   string
	Datetime   time.Time
	HourFrac   float64
	TotalLines int

	lines []loclog.LineRecord
}

// View is the plain-data projection of a Commit used for display and
// serialization. It never carries the line records.
type View struct {
	ID         string    `json:"id"          yaml:"id"`
	URL        string    `json:"url"         yaml:"url"`
	Author     string    `json:"author"      yaml:"author"`
	Date       time.Time `json:"date"        yaml:"date"`
	Time       string    `json:"time"        yaml:"time"`
	Timezone   string    `json:"timezone"    yaml:"timezone"`
	Datetime   time.Time `json:"datetime"    yaml:"datetime"`
	HourFrac   float64   `json:"hourFrac"    yaml:"hour_frac"`
	TotalLines int       `json:"totalLines"  yaml:"total_lines"`
}

// View returns the plain-data projection.
func (c *Commit) View() View {
	return View{
		ID:         c.ID,
		URL:        c.URL,
		Author:     c.Author,
		Date:       c.Date,
		Time:       c.Time,
		Timezone:   c.Timezone,
		Datetime:   c.Datetime,
		HourFrac:   c.HourFrac,
		TotalLines: c.TotalLines,
	}
}

// Lines returns a copy of the line records that produced the commit,
// in log order.
func (c *Commit) Lines() []loclog.LineRecord {
	out := make([]loclog.LineRecord, len(c.lines))
	copy(out, c.lines)

	return out
}

// Aggregate groups records by commit id. Commits are returned in order of
// first appearance; each keeps its records in input order. repoURL is the
// repository base used for the commit link; an empty base yields empty links.
func Aggregate(records []loclog.LineRecord, repoURL string) []*Commit {
	groups := mapx.GroupBy(records, func(r loclog.LineRecord) string { return r.Commit })

	out := make([]*Commit, 0, len(groups))

	for _, g := range groups {
		first := g.Items[0]

		out = append(out, &Commit{
			ID:         g.Key,
			URL:        URL(repoURL, g.Key),
			Author:     first.Author,
			Date:       first.Date,
			Time:       first.Time,
			Timezone:   first.Timezone,
			Datetime:   first.Datetime,
			HourFrac:   HourFrac(first.Datetime),
			TotalLines: len(g.Items),
			lines:      g.Items,
		})
	}

	return out
}

// HourFrac is the fractional hour of day of t in its own offset.
func HourFrac(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/minutesPerHour
}

// URL joins the repository base with the commit path.
func URL(repoURL, id string) string {
	if repoURL == "" {
		return ""
	}

	return strings.TrimRight(repoURL, "/") + commitPathSegment + id
}

// Flatten concatenates the line records of commits in commit order.
func Flatten(commits []*Commit) []loclog.LineRecord {
	total := 0

	for _, c := range commits {
		total += len(c.lines)
	}

	out := make([]loclog.LineRecord, 0, total)

	for _, c := range commits {
		out = append(out, c.lines...)
	}

	return out
}

// Views projects commits to their plain-data views.
func Views(commits []*Commit) []View {
	out := make([]View, len(commits))

	for i, c := range commits {
		out[i] = c.View()
	}

	return out
}
