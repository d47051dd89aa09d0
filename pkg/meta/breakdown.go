package meta

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/codefolio/pkg/alg/mapx"
	"github.com/Sumatoshi-tech/codefolio/pkg/commits"
	"github.com/Sumatoshi-tech/codefolio/pkg/loclog"
)

const percentScale = 100

// BreakdownRow is the share of one line type in a commit set.
type BreakdownRow struct {
	Type    string  `json:"type"    yaml:"type"`
	Label   string  `json:"label"   yaml:"label"`
	Count   int     `json:"count"   yaml:"count"`
	Share   float64 `json:"share"   yaml:"share"`
	Percent string  `json:"percent" yaml:"percent"`
	Color   string  `json:"color"   yaml:"color"`
}

// Breakdown counts the lines of set per type. Rows are sorted by type
// (byte order). An empty set, or one without lines, yields nil.
func Breakdown(set []*commits.Commit, palette *Palette) []BreakdownRow {
	lines := commits.Flatten(set)
	if len(lines) == 0 {
		return nil
	}

	counts := mapx.CountBy(lines, func(r loclog.LineRecord) string { return r.Type })
	total := float64(len(lines))

	rows := make([]BreakdownRow, 0, len(counts))

	for _, t := range mapx.SortedKeys(counts) {
		share := float64(counts[t]) / total

		row := BreakdownRow{
			Type:    t,
			Label:   strings.ToUpper(t),
			Count:   counts[t],
			Share:   share,
			Percent: fmt.Sprintf("%.1f%%", share*percentScale),
		}

		if palette != nil {
			row.Color = palette.Color(t)
		}

		rows = append(rows, row)
	}

	return rows
}
