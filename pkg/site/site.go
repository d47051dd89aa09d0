// Package site holds the navigation, theme, and contact-form helpers shared
// by every page of the portfolio.
package site

import (
	"net/url"
	"path"
	"strings"
)

// Page is a navigation entry. URL is relative to the site base path unless
// it is absolute (http or https).
type Page struct {
	URL   string `json:"url"   yaml:"url"   mapstructure:"url"`
	Title string `json:"title" yaml:"title" mapstructure:"title"`
}

// NavLink is a resolved navigation entry.
type NavLink struct {
	Href     string
	Title    string
	Current  bool
	External bool
}

// DefaultPages returns the standard navigation. github is the profile URL
// used for the external link; it is omitted when empty.
func DefaultPages(github string) []Page {
	pages := []Page{
		{URL: "", Title: "Home"},
		{URL: "projects/", Title: "Projects"},
		{URL: "contact/", Title: "Contact"},
		{URL: "resume/", Title: "Resume"},
		{URL: "meta/", Title: "Meta"},
	}

	if github != "" {
		pages = append(pages, Page{URL: github, Title: "GitHub"})
	}

	return pages
}

// IsExternal reports whether u points off-site.
func IsExternal(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// NormalizeBase makes basePath start and end with a slash.
func NormalizeBase(basePath string) string {
	trimmed := strings.Trim(basePath, "/")
	if trimmed == "" {
		return "/"
	}

	return "/" + trimmed + "/"
}

// NavLinks resolves pages against basePath and marks the one whose path
// equals currentPath. External links never count as current.
func NavLinks(pages []Page, basePath, currentPath string) []NavLink {
	base := NormalizeBase(basePath)
	current := cleanPath(currentPath)

	links := make([]NavLink, len(pages))

	for i, p := range pages {
		if IsExternal(p.URL) {
			links[i] = NavLink{Href: p.URL, Title: p.Title, External: true}

			continue
		}

		href := base + strings.TrimPrefix(p.URL, "/")
		links[i] = NavLink{
			Href:    href,
			Title:   p.Title,
			Current: cleanPath(href) == current,
		}
	}

	return links
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}

	cleaned := path.Clean("/" + p)
	cleaned = strings.TrimSuffix(cleaned, "/index.html")

	if cleaned == "" {
		return "/"
	}

	return cleaned
}

// Theme is a color-scheme option.
type Theme struct {
	Value string
	Label string
}

// ThemeAuto follows the system preference.
const ThemeAuto = "light dark"

// ThemeOptions lists the color schemes offered by the theme selector.
var ThemeOptions = []Theme{
	{Value: ThemeAuto, Label: "Automatic"},
	{Value: "light", Label: "Light"},
	{Value: "dark", Label: "Dark"},
}

// ValidTheme reports whether v is one of ThemeOptions.
func ValidTheme(v string) bool {
	for _, t := range ThemeOptions {
		if t.Value == v {
			return true
		}
	}

	return false
}

// Field is one submitted form value.
type Field struct {
	Name  string
	Value string
}

// ContactURL builds the contact-form target: action followed by each field
// as name=value& with the value percent-encoded the way encodeURIComponent
// does (spaces become %20).
func ContactURL(action string, fields []Field) string {
	var b strings.Builder

	b.WriteString(action)
	b.WriteByte('?')

	for _, f := range fields {
		b.WriteString(f.Name)
		b.WriteByte('=')
		b.WriteString(EncodeURIComponent(f.Value))
		b.WriteByte('&')
	}

	return b.String()
}

// EncodeURIComponent escapes s, leaving A-Z a-z 0-9 - _ . ! ~ * ' ( ) intact.
func EncodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)

	return componentReplacer.Replace(escaped)
}

var componentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
	"%7E", "~",
)
