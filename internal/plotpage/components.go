package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

func writeTemplate(w io.Writer, name string, data any) error {
	html, err := renderTemplate(name, data)
	if err != nil {
		return err
	}

	_, err = w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}

// Text renders escaped plain text inside a paragraph.
type Text struct {
	Content string
	Class   string
}

// NewText creates a new text block.
func NewText(content string) *Text {
	return &Text{Content: content}
}

// Render writes the text content.
func (t *Text) Render(w io.Writer) error {
	return writeTemplate(w, "text.html", t)
}

// HTML is a Renderable that writes pre-rendered, trusted HTML.
type HTML template.HTML

// Render writes the raw HTML content.
func (h HTML) Render(w io.Writer) error {
	_, err := w.Write([]byte(h))
	if err != nil {
		return fmt.Errorf("write raw html: %w", err)
	}

	return nil
}

// Group renders its items one after another.
type Group []Renderable

// Render writes every non-nil item.
func (g Group) Render(w io.Writer) error {
	for i, item := range g {
		if item == nil {
			continue
		}

		err := WrapChart(item).Render(w)
		if err != nil {
			return fmt.Errorf("rendering group item %d: %w", i, err)
		}
	}

	return nil
}

// Stat is one labelled value of a Stats block.
type Stat struct {
	Label string
	Value string
}

// Stats renders a definition list of stats.
type Stats struct {
	Items []Stat
}

// Render writes the stats HTML.
func (s *Stats) Render(w io.Writer) error {
	return writeTemplate(w, "stats.html", s)
}

// LegendItem is one swatch of a Legend.
type LegendItem struct {
	Label     string
	Detail    string
	Color     string
	Highlight bool
	Href      string
}

// Legend renders a list of colored swatches. An empty legend renders nothing.
type Legend struct {
	Items []LegendItem
}

// Render writes the legend HTML.
func (l *Legend) Render(w io.Writer) error {
	if len(l.Items) == 0 {
		return nil
	}

	return writeTemplate(w, "legend.html", l)
}

// Strip is a labelled row of colored dots.
type Strip struct {
	Label  string
	Detail string
	Dots   []string
}

// Strips renders a list of dot strips. An empty list renders nothing.
type Strips struct {
	Rows []Strip
}

// Render writes the strips HTML.
func (s *Strips) Render(w io.Writer) error {
	if len(s.Rows) == 0 {
		return nil
	}

	return writeTemplate(w, "strips.html", s)
}

// Table renders an HTML table.
type Table struct {
	Headers []string
	Rows    [][]string
	Striped bool
}

// NewTable creates a new table.
func NewTable(headers []string) *Table {
	return &Table{Headers: headers, Striped: true}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) *Table {
	t.Rows = append(t.Rows, cells)

	return t
}

// Render writes the table HTML.
func (t *Table) Render(w io.Writer) error {
	return writeTemplate(w, "table.html", t)
}

// Slider is a GET form with a range input plus optional hidden and text
// fields, used for progress scrubbing without client-side code. A non-empty
// ResetHref adds a link labelled ResetLabel.
type Slider struct {
	Action     string
	Name       string
	Label      string
	Value      float64
	Min        float64
	Max        float64
	Step       float64
	Output     string
	Fields     []FormField
	ResetHref  string
	ResetLabel string
}

// Render writes the slider HTML.
func (s *Slider) Render(w io.Writer) error {
	return writeTemplate(w, "slider.html", s)
}

// FormField is one input of a Form or Slider.
type FormField struct {
	Name        string
	Label       string
	Type        string
	Value       string
	Placeholder string
}

// Form renders a simple form. Encode forms are submitted by script as
// action?name=value& with encodeURIComponent escaping.
type Form struct {
	ID     string
	Action string
	Method string
	Fields []FormField
	Submit string
	Encode bool
}

// Render writes the form HTML.
func (f *Form) Render(w io.Writer) error {
	return writeTemplate(w, "form.html", f)
}

// GalleryItem is one card of a Gallery.
type GalleryItem struct {
	Title       string
	Image       string
	Description string
	Footer      string
	Href        string
}

// Gallery renders cards in a grid. Empty galleries show Empty instead.
type Gallery struct {
	Heading string
	Items   []GalleryItem
	Empty   string
}

// Render writes the gallery HTML.
func (g *Gallery) Render(w io.Writer) error {
	return writeTemplate(w, "gallery.html", g)
}

// Card wraps content in a titled box.
type Card struct {
	Title   string
	Content Renderable
}

// Render writes the card HTML.
func (c *Card) Render(w io.Writer) error {
	var buf bytes.Buffer

	if c.Content != nil {
		err := WrapChart(c.Content).Render(&buf)
		if err != nil {
			return fmt.Errorf("rendering card content: %w", err)
		}
	}

	return writeTemplate(w, "card.html", cardData{Title: c.Title, Content: template.HTML(buf.String())})
}
