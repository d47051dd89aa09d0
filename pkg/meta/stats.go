package meta

import (
	"github.com/Sumatoshi-tech/codefolio/pkg/alg/mapx"
	"github.com/Sumatoshi-tech/codefolio/pkg/alg/stats"
	"github.com/Sumatoshi-tech/codefolio/pkg/commits"
	"github.com/Sumatoshi-tech/codefolio/pkg/loclog"
)

// Stats is the summary block shown above the scatter.
type Stats struct {
	Commits     int `json:"commits"      yaml:"commits"`
	Files       int `json:"files"        yaml:"files"`
	TotalLOC    int `json:"total_loc"    yaml:"total_loc"`
	MaxDepth    int `json:"max_depth"    yaml:"max_depth"`
	LongestLine int `json:"longest_line" yaml:"longest_line"`
	MaxLines    int `json:"max_lines"    yaml:"max_lines"`
}

// StatItem is one labelled stat.
type StatItem struct {
	Label string `json:"label" yaml:"label"`
	Value int    `json:"value" yaml:"value"`
}

// Summarize computes the stats over a commit set.
func Summarize(set []*commits.Commit) Stats {
	lines := commits.Flatten(set)

	return Stats{
		Commits:     len(set),
		Files:       len(mapx.CountBy(lines, func(r loclog.LineRecord) string { return r.File })),
		TotalLOC:    len(lines),
		MaxDepth:    stats.MaxBy(lines, func(r loclog.LineRecord) int { return r.Depth }),
		LongestLine: stats.MaxBy(lines, func(r loclog.LineRecord) int { return r.Line }),
		MaxLines:    stats.MaxBy(set, func(c *commits.Commit) int { return c.TotalLines }),
	}
}

// Items returns the stats in display order.
func (s Stats) Items() []StatItem {
	return []StatItem{
		{"Commits", s.Commits},
		{"Files", s.Files},
		{"Total LOC", s.TotalLOC},
		{"Max Depth", s.MaxDepth},
		{"Longest Line", s.LongestLine},
		{"Max Lines", s.MaxLines},
	}
}
