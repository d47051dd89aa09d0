// Package plotpage renders the site's HTML pages: a themed shell with
// navigation and a color-scheme selector, holding sections of go-echarts
// charts and small HTML components.
package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/Sumatoshi-tech/codefolio/pkg/site"
)

const styleTagLen = 8 // len("</style>")

// Section represents one block of a page.
type Section struct {
	ID       string
	Title    string
	Subtitle string
	Chart    Renderable
}

// Page represents a complete HTML page.
type Page struct {
	Title       string
	Description string
	SiteName    string
	Theme       Theme
	Nav         []site.NavLink
	Sections    []Section
}

// NewPage creates a new page.
func NewPage(title, description string) *Page {
	return &Page{
		Title:       title,
		Description: description,
		SiteName:    "Portfolio",
		Theme:       ThemeAuto,
	}
}

// WithTheme sets the theme for the page.
func (p *Page) WithTheme(theme Theme) *Page {
	p.Theme = theme

	return p
}

// WithNav sets the navigation links.
func (p *Page) WithNav(links []site.NavLink) *Page {
	p.Nav = links

	return p
}

// Add appends sections to the page.
func (p *Page) Add(sections ...Section) {
	p.Sections = append(p.Sections, sections...)
}

// Render writes the page as HTML.
func (p *Page) Render(w io.Writer) error {
	return HTMLRenderer{}.Render(w, p)
}

// Renderable is the interface for page components.
type Renderable interface {
	Render(w io.Writer) error
}

// HTMLRenderer renders pages as HTML.
type HTMLRenderer struct {
	ExtraCSS string
}

// Render writes the page as HTML to the writer.
func (r HTMLRenderer) Render(w io.Writer, page *Page) error {
	themes := make([]themeOption, len(site.ThemeOptions))
	for i, t := range site.ThemeOptions {
		themes[i] = themeOption{Value: t.Value, Label: t.Label, Selected: Theme(t.Value) == page.Theme}
	}

	header, err := renderTemplate("header.html", headerData{
		SiteName:    page.SiteName,
		Title:       page.Title,
		Description: page.Description,
		Nav:         page.Nav,
		Themes:      themes,
	})
	if err != nil {
		return fmt.Errorf("render header: %w", err)
	}

	var sectionsHTML bytes.Buffer

	for _, section := range page.Sections {
		sectionHTML, sectionErr := r.renderSection(section)
		if sectionErr != nil {
			return fmt.Errorf("render section %q: %w", section.Title, sectionErr)
		}

		sectionsHTML.WriteString(string(sectionHTML))
	}

	scripts, err := renderTemplate("scripts.html", nil)
	if err != nil {
		return fmt.Errorf("render scripts: %w", err)
	}

	data := pageData{
		Title:    page.Title,
		SiteName: page.SiteName,
		Scheme:   string(page.Theme),
		Light:    GetThemeConfig(ThemeLight),
		Dark:     GetThemeConfig(ThemeDark),
		ExtraCSS: template.CSS(r.ExtraCSS),
		Header:   header,
		Content:  template.HTML(sectionsHTML.String()),
		Scripts:  scripts,
	}

	html, err := renderTemplate("page.html", data)
	if err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	_, err = w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing page: %w", err)
	}

	return nil
}

func (r HTMLRenderer) renderSection(section Section) (template.HTML, error) {
	var body bytes.Buffer

	if section.Chart != nil {
		err := WrapChart(section.Chart).Render(&body)
		if err != nil {
			return "", err
		}
	}

	return renderTemplate("section.html", sectionData{
		ID:       section.ID,
		Title:    section.Title,
		Subtitle: section.Subtitle,
		Body:     template.HTML(body.String()),
	})
}

// ChartWrapper wraps an echarts chart and renders only the chart content.
type ChartWrapper struct {
	chart Renderable
}

// WrapChart wraps an echarts chart to render only the div and script (no full HTML page).
func WrapChart(chart Renderable) *ChartWrapper {
	return &ChartWrapper{chart: chart}
}

// Render writes the chart element and script without a full HTML page.
func (cw *ChartWrapper) Render(w io.Writer) error {
	if cw.chart == nil {
		return nil
	}

	var buf bytes.Buffer

	err := cw.chart.Render(&buf)
	if err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}

	_, err = w.Write([]byte(extractChartContent(buf.String())))
	if err != nil {
		return fmt.Errorf("writing chart content: %w", err)
	}

	return nil
}

func extractChartContent(html string) string {
	// Fragments from our own components pass through; only full echarts
	// pages are cut down to their container.
	trimmed := strings.TrimSpace(html)
	if !strings.HasPrefix(trimmed, "<!DOCTYPE") && !strings.HasPrefix(trimmed, "<html") {
		return html
	}

	start := strings.Index(html, `<div class="container">`)
	if start == -1 {
		return html
	}

	end := strings.Index(html, `</body>`)
	if end == -1 {
		return html
	}

	content := html[start:end]
	content = strings.ReplaceAll(content, `class="container"`, `class="echart-box"`)

	return removeStyleTags(content)
}

func removeStyleTags(content string) string {
	for {
		i := strings.Index(content, `<style>`)
		if i == -1 {
			break
		}

		j := strings.Index(content[i:], `</style>`)
		if j == -1 {
			break
		}

		content = content[:i] + content[i+j+styleTagLen:]
	}

	return content
}
