// Package terminal renders the page models as text for the command line:
// go-pretty tables, true-color line markers and a heavy-bordered header.
package terminal

import (
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Width bounds.
const (
	DefaultWidth = 80
	MinWidth     = 60
	MaxWidth     = 160
)

const (
	headerPadding = 1
	ellipsis      = "…"
	markerDot     = "●"
)

// Box drawing characters, heavy.
const (
	boxHeavyHorizontal  = "━"
	boxHeavyVertical    = "┃"
	boxHeavyTopLeft     = "┏"
	boxHeavyTopRight    = "┓"
	boxHeavyBottomLeft  = "┗"
	boxHeavyBottomRight = "┛"
)

// Config holds terminal rendering configuration.
type Config struct {
	Width   int
	NoColor bool
}

// NewConfig reads the width from COLUMNS and honors NO_COLOR.
func NewConfig() Config {
	return Config{
		Width:   DetectWidth(),
		NoColor: os.Getenv("NO_COLOR") != "" || color.NoColor,
	}
}

// DetectWidth returns COLUMNS clamped to [MinWidth, MaxWidth], or
// DefaultWidth when unset or invalid.
func DetectWidth() int {
	width, err := strconv.Atoi(os.Getenv("COLUMNS"))
	if err != nil || width <= 0 {
		return DefaultWidth
	}

	return min(max(width, MinWidth), MaxWidth)
}

// Truncate shortens s to width display cells, ending with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}

	if text.StringWidthWithoutEscSequences(s) <= width {
		return s
	}

	return text.Snip(s, width, ellipsis)
}

// Header draws a heavy-bordered title line with right-aligned detail.
//
//	┏━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┓
//	┃ TITLE               rightText ┃
//	┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛
func Header(title, right string, width int) string {
	titleWidth := text.StringWidthWithoutEscSequences(title)
	rightWidth := text.StringWidthWithoutEscSequences(right)

	width = max(width, titleWidth+rightWidth+2+2*headerPadding+1)
	inner := width - 2
	gap := inner - 2*headerPadding - titleWidth - rightWidth
	pad := strings.Repeat(" ", headerPadding)

	var b strings.Builder

	b.WriteString(boxHeavyTopLeft + strings.Repeat(boxHeavyHorizontal, inner) + boxHeavyTopRight + "\n")
	b.WriteString(boxHeavyVertical + pad + title + strings.Repeat(" ", gap) + right + pad + boxHeavyVertical + "\n")
	b.WriteString(boxHeavyBottomLeft + strings.Repeat(boxHeavyHorizontal, inner) + boxHeavyBottomRight)

	return b.String()
}

// Marker returns a dot in the given "#rrggbb" color. Without color, or for
// an unparsable color, the dot is plain.
func (c Config) Marker(hex string) string {
	if c.NoColor {
		return markerDot
	}

	r, g, b, ok := parseHex(hex)
	if !ok {
		return markerDot
	}

	painter := color.RGB(r, g, b)
	painter.EnableColor()

	return painter.Sprint(markerDot)
}

// Emphasis renders s bold, or plain when color is off.
func (c Config) Emphasis(s string) string {
	if c.NoColor {
		return s
	}

	painter := color.New(color.Bold)
	painter.EnableColor()

	return painter.Sprint(s)
}

func parseHex(hex string) (r, g, b int, ok bool) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) != len("rrggbb") {
		return 0, 0, 0, false
	}

	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}

	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false

	return tbl
}
