package loclog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

const (
	midnightSuffix = "T00:00"
	fallbackType   = "other"
	byteOrderMark  = "\ufeff"
)

// dateLayouts accept both "+07:00" and "+0700" style offsets.
var dateLayouts = []string{
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
}

// datetimeLayouts are tried in order for the datetime column.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
}

// Parser turns CSV change-log input into line records.
type Parser struct {
	exclude []glob.Glob
}

// NewParser creates a parser. Rows whose file path matches any exclude glob
// are dropped before they reach the caller.
func NewParser(excludePatterns ...string) (*Parser, error) {
	compiled := make([]glob.Glob, 0, len(excludePatterns))

	for _, pattern := range excludePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile exclude pattern %q: %w", pattern, err)
		}

		compiled = append(compiled, g)
	}

	return &Parser{exclude: compiled}, nil
}

// Parse reads a change log with a header row. Malformed data rows are skipped
// and reported in Result.Skipped; only header or read failures are errors.
func Parse(r io.Reader) (Result, error) {
	return (&Parser{}).Parse(r)
}

// Parse reads a change log with a header row.
func (p *Parser) Parse(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, ErrEmptyLog
	}

	if err != nil {
		return Result{}, fmt.Errorf("read header: %w", err)
	}

	index, err := indexColumns(header)
	if err != nil {
		return Result{}, err
	}

	var result Result

	for {
		fields, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return result, fmt.Errorf("read row: %w", readErr)
		}

		// Quoted fields may span lines, so report where the record starts.
		row, _ := reader.FieldPos(0)

		rec, rowErr := parseRow(fields, index, row)
		if rowErr != nil {
			result.Skipped = append(result.Skipped, *rowErr)

			continue
		}

		if p.excluded(rec.File) {
			result.Excluded++

			continue
		}

		result.Records = append(result.Records, rec)
	}

	return result, nil
}

func (p *Parser) excluded(file string) bool {
	for _, g := range p.exclude {
		if g.Match(file) {
			return true
		}
	}

	return false
}

func indexColumns(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))

	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, byteOrderMark)))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	var missing []string

	for _, col := range Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	return index, nil
}

func parseRow(fields []string, index map[string]int, row int) (LineRecord, *RowError) {
	field := func(col string) string {
		i := index[col]
		if i >= len(fields) {
			return ""
		}

		return strings.TrimSpace(fields[i])
	}

	fail := func(col string, err error) (LineRecord, *RowError) {
		return LineRecord{}, &RowError{Row: row, Column: col, Value: field(col), Err: err}
	}

	commit := field(ColCommit)
	if commit == "" {
		return fail(ColCommit, ErrEmptyCommitID)
	}

	ints := make(map[string]int, 3)

	for _, col := range []string{ColLine, ColLength, ColDepth} {
		v, err := strconv.Atoi(field(col))
		if err != nil {
			return fail(col, ErrBadInteger)
		}

		ints[col] = v
	}

	timezone := field(ColTimezone)

	date, err := parseDate(field(ColDate), timezone)
	if err != nil {
		return fail(ColDate, err)
	}

	datetime, err := parseDatetime(field(ColDatetime))
	if err != nil {
		return fail(ColDatetime, err)
	}

	file := field(ColFile)

	return LineRecord{
		File:     file,
		Line:     ints[ColLine],
		Type:     lineType(field(ColType), file),
		Length:   ints[ColLength],
		Depth:    ints[ColDepth],
		Commit:   commit,
		Author:   field(ColAuthor),
		Date:     date,
		Time:     field(ColTime),
		Timezone: timezone,
		Datetime: datetime,
	}, nil
}

// parseDate anchors a calendar date at midnight in the row's timezone.
func parseDate(date, timezone string) (time.Time, error) {
	tz := timezone
	if tz == "" {
		tz = "Z"
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, date+midnightSuffix+tz)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrBadTimestamp
}

func parseDatetime(value string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrBadTimestamp
}

// lineType keeps the logged classification, falling back to the file extension.
func lineType(logged, file string) string {
	if logged != "" {
		return logged
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file), "."))
	if ext == "" {
		return fallbackType
	}

	return ext
}
