// Package loclog loads the per-line change log ("loc.csv"): one row per line
// ever touched, carrying its file, size, nesting depth and the commit that
// produced it.
package loclog

import (
	"errors"
	"fmt"
	"time"
)

// Column names of the change log. The header row must contain all of them;
// extra columns are ignored.
const (
	ColCommit   = "commit"
	ColFile     = "file"
	ColLine     = "line"
	ColType     = "type"
	ColLength   = "length"
	ColDepth    = "depth"
	ColDate     = "date"
	ColTime     = "time"
	ColTimezone = "timezone"
	ColDatetime = "datetime"
	ColAuthor   = "author"
)

// Columns lists the required header columns in canonical order.
var Columns = []string{
	ColCommit, ColFile, ColLine, ColType, ColLength, ColDepth,
	ColDate, ColTime, ColTimezone, ColDatetime, ColAuthor,
}

// Sentinel errors.
var (
	ErrEmptyLog       = errors.New("change log has no header row")
	ErrMissingColumn  = errors.New("change log header is missing a required column")
	ErrBadInteger     = errors.New("not an integer")
	ErrBadTimestamp   = errors.New("unparsable timestamp")
	ErrEmptyCommitID  = errors.New("empty commit id")
	ErrUnexpectedHTTP = errors.New("unexpected HTTP status")
	ErrLogTooLarge    = errors.New("change log exceeds the size limit")
)

// LineRecord is one historical observation of a single line at the commit
// that touched it. Records are immutable once loaded.
type LineRecord struct {
	File     string    `json:"file"     yaml:"file"`
	Line     int       `json:"line"     yaml:"line"`
	Type     string    `json:"type"     yaml:"type"`
	Length   int       `json:"length"   yaml:"length"`
	Depth    int       `json:"depth"    yaml:"depth"`
	Commit   string    `json:"commit"   yaml:"commit"`
	Author   string    `json:"author"   yaml:"author"`
	Date     time.Time `json:"date"     yaml:"date"`
	Time     string    `json:"time"     yaml:"time"`
	Timezone string    `json:"timezone" yaml:"timezone"`
	Datetime time.Time `json:"datetime" yaml:"datetime"`
}

// RowError describes a data row that was rejected while parsing.
// Row is the 1-based line number in the CSV input (the header is row 1).
type RowError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: column %q value %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// Result is the outcome of parsing a change log.
type Result struct {
	Records  []LineRecord
	Skipped  []RowError
	Excluded int
}
