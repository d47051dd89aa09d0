// Package sitegen composes the portfolio pages (home, projects, commit
// history, contact) from the loaded data and writes them as a static site.
package sitegen

import (
	"github.com/Sumatoshi-tech/codefolio/internal/plotpage"
	"github.com/Sumatoshi-tech/codefolio/pkg/site"
)

// Page paths relative to the site base.
const (
	HomePath     = ""
	ProjectsPath = "projects/"
	MetaPath     = "meta/"
	ContactPath  = "contact/"
)

const (
	defaultTitle  = "Portfolio"
	homeLatest    = 3
	indexFileName = "index.html"
)

// Site carries the settings shared by every page. Static pages are written
// to disk and served as files, so they leave out the query-driven controls.
type Site struct {
	Title         string
	BasePath      string
	GitHub        string
	ContactAction string
	Intro         string
	Theme         plotpage.Theme
	Pages         []site.Page
	Static        bool
}

// href resolves a page path against the base path.
func (s Site) href(p string) string {
	return site.NormalizeBase(s.BasePath) + p
}

func (s Site) page(title, description, p string) *plotpage.Page {
	pages := s.Pages
	if len(pages) == 0 {
		pages = site.DefaultPages(s.GitHub)
	}

	page := plotpage.NewPage(title, description).
		WithTheme(s.Theme).
		WithNav(site.NavLinks(pages, s.BasePath, s.href(p)))

	if s.Title != "" {
		page.SiteName = s.Title
	} else {
		page.SiteName = defaultTitle
	}

	return page
}
