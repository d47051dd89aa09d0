package meta

import (
	"path/filepath"
	"slices"

	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/codefolio/pkg/alg/mapx"
	"github.com/Sumatoshi-tech/codefolio/pkg/commits"
	"github.com/Sumatoshi-tech/codefolio/pkg/loclog"
)

// LineMarker is one colored dot in a file's strip.
type LineMarker struct {
	Type  string `json:"type"  yaml:"type"`
	Color string `json:"color" yaml:"color"`
}

// FileRow is one file of the listing.
type FileRow struct {
	Path     string       `json:"path"               yaml:"path"`
	Lines    int          `json:"lines"              yaml:"lines"`
	Language string       `json:"language,omitempty" yaml:"language,omitempty"`
	Markers  []LineMarker `json:"markers"            yaml:"markers"`
}

// Files groups the lines of set by file, most lines first. Files with equal
// counts keep the order in which they first appear.
func Files(set []*commits.Commit, palette *Palette) []FileRow {
	groups := mapx.GroupBy(commits.Flatten(set), func(r loclog.LineRecord) string { return r.File })
	if len(groups) == 0 {
		return nil
	}

	slices.SortStableFunc(groups, func(a, b mapx.Group[string, loclog.LineRecord]) int {
		return len(b.Items) - len(a.Items)
	})

	rows := make([]FileRow, len(groups))

	for i, g := range groups {
		markers := make([]LineMarker, len(g.Items))

		for j, rec := range g.Items {
			markers[j] = LineMarker{Type: rec.Type}
			if palette != nil {
				markers[j].Color = palette.Color(rec.Type)
			}
		}

		rows[i] = FileRow{
			Path:     g.Key,
			Lines:    len(g.Items),
			Language: enry.GetLanguage(filepath.Base(g.Key), nil),
			Markers:  markers,
		}
	}

	return rows
}
