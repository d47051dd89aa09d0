package meta

import (
	"strconv"
)

// SelectionModel is the brush counter.
type SelectionModel struct {
	Count int    `json:"count" yaml:"count"`
	Text  string `json:"text"  yaml:"text"`
}

// SelectionText renders the counter for n selected commits.
func SelectionText(n int) string {
	if n <= 0 {
		return "No commits selected"
	}

	return strconv.Itoa(n) + " commits selected"
}
