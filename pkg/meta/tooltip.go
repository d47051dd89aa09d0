package meta

import (
	"github.com/Sumatoshi-tech/codefolio/pkg/commits"
)

// TooltipOffset is the distance between the pointer and the popup corner.
const TooltipOffset = 12

const tooltipDateLayout = "Monday, January 2, 2006 at 3:04 PM"

// Point is a position in viewport pixels.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Size is a width and height in pixels.
type Size struct {
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// TooltipModel is the commit detail popup.
type TooltipModel struct {
	Visible bool    `json:"visible"          yaml:"visible"`
	ID      string  `json:"id,omitempty"     yaml:"id,omitempty"`
	URL     string  `json:"url,omitempty"    yaml:"url,omitempty"`
	Author  string  `json:"author,omitempty" yaml:"author,omitempty"`
	Date    string  `json:"date,omitempty"   yaml:"date,omitempty"`
	Lines   int     `json:"lines,omitempty"  yaml:"lines,omitempty"`
	X       float64 `json:"x"                yaml:"x"`
	Y       float64 `json:"y"                yaml:"y"`
	Opacity float64 `json:"opacity"          yaml:"opacity"`
}

// Tooltip builds the popup shown while the pointer is over c. The popup sits
// below and right of the pointer and is pulled back so it never overflows
// the right or bottom edge of the viewport.
func Tooltip(c *commits.Commit, pointer Point, viewport, popup Size) TooltipModel {
	x := pointer.X + TooltipOffset
	y := pointer.Y + TooltipOffset

	if x+popup.W > viewport.W {
		x = max(0, viewport.W-popup.W)
	}

	if y+popup.H > viewport.H {
		y = max(0, viewport.H-popup.H)
	}

	return TooltipModel{
		Visible: true,
		ID:      c.ID,
		URL:     c.URL,
		Author:  c.Author,
		Date:    c.Datetime.Format(tooltipDateLayout),
		Lines:   c.TotalLines,
		X:       x,
		Y:       y,
		Opacity: HoverOpacity,
	}
}

// HiddenTooltip is the popup state after the pointer leaves a mark.
func HiddenTooltip() TooltipModel {
	return TooltipModel{Opacity: RestOpacity}
}
