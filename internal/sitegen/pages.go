package sitegen

import (
	"net/url"
	"strconv"

	"github.com/Sumatoshi-tech/codefolio/internal/plotpage"
	"github.com/Sumatoshi-tech/codefolio/pkg/projects"
)

const (
	homeTitle       = "Home"
	defaultIntro    = "Welcome! Here are some of the things I have been building."
	projectsTitle   = "Projects"
	contactTitle    = "Contact"
	contactSubtitle = "Send me a message and it will open in your mail client."
	noProjects      = "No projects match your search."
)

// Home builds the landing page with the latest projects.
func (s Site) Home(list []projects.Project) *plotpage.Page {
	intro := s.Intro
	if intro == "" {
		intro = defaultIntro
	}

	page := s.page(homeTitle, "", HomePath)
	page.Add(plotpage.Section{ID: "intro", Chart: plotpage.NewText(intro)})

	latest := list
	if len(latest) > homeLatest {
		latest = latest[:homeLatest]
	}

	page.Add(plotpage.Section{
		ID: "latest",
		Chart: &plotpage.Gallery{
			Heading: "Latest Projects",
			Items:   galleryItems(latest),
			Empty:   "No projects yet.",
		},
	})

	return page
}

// Projects builds the gallery page. query narrows the list by text search;
// year further narrows the gallery and highlights its pie wedge.
func (s Site) Projects(list []projects.Project, query, year string) *plotpage.Page {
	listing := projects.NewListing(list, query, year)

	page := s.page(projectsTitle, "", ProjectsPath)

	page.Add(plotpage.Section{
		ID:    "search",
		Title: "Search",
		Chart: &plotpage.Form{
			Action: s.href(ProjectsPath),
			Fields: []plotpage.FormField{
				{Name: "query", Label: "Search projects", Type: "search", Value: query, Placeholder: "🔍 Search projects…"},
				{Name: "year", Type: "hidden", Value: year},
			},
			Submit: "Search",
		},
	})

	if wedges := listing.Years; len(wedges) > 0 {
		slices := make([]plotpage.PieSlice, len(wedges))
		items := make([]plotpage.LegendItem, len(wedges))

		for i, w := range wedges {
			slices[i] = plotpage.PieSlice{Name: w.Label, Value: w.Value, Color: w.Color}
			items[i] = plotpage.LegendItem{
				Label:     w.Label,
				Detail:    pluralCount(w.Value),
				Color:     w.Color,
				Highlight: w.Selected,
				Href:      s.yearHref(query, year, w.Label),
			}
		}

		page.Add(plotpage.Section{
			ID:    "years",
			Title: "Projects by year",
			Chart: plotpage.Group{
				plotpage.WrapChart(plotpage.BuildPie(nil, "Projects", slices)),
				&plotpage.Legend{Items: items},
			},
		})
	}

	page.Add(plotpage.Section{
		ID: "gallery",
		Chart: &plotpage.Gallery{
			Heading: listing.Heading,
			Items:   galleryItems(listing.Projects),
			Empty:   noProjects,
		},
	})

	return page
}

// yearHref links a legend swatch. Clicking the selected year clears it.
func (s Site) yearHref(query, selected, year string) string {
	v := url.Values{}
	if query != "" {
		v.Set("query", query)
	}

	if year != selected {
		v.Set("year", year)
	}

	href := s.href(ProjectsPath)
	if enc := v.Encode(); enc != "" {
		href += "?" + enc
	}

	return href
}

// Contact builds the contact form page.
func (s Site) Contact() *plotpage.Page {
	page := s.page(contactTitle, "", ContactPath)

	page.Add(plotpage.Section{
		ID:       "contact",
		Title:    "Get in touch",
		Subtitle: contactSubtitle,
		Chart: &plotpage.Form{
			ID:     "contact",
			Action: s.ContactAction,
			Encode: true,
			Fields: []plotpage.FormField{
				{Name: "subject", Label: "Subject", Type: "text"},
				{Name: "body", Label: "Body", Type: "textarea"},
			},
			Submit: "Submit",
		},
	})

	return page
}

func galleryItems(list []projects.Project) []plotpage.GalleryItem {
	items := make([]plotpage.GalleryItem, len(list))

	for i, p := range list {
		items[i] = plotpage.GalleryItem{
			Title:       p.DisplayTitle(),
			Image:       p.DisplayImage(),
			Description: p.Description,
			Footer:      string(p.Year),
			Href:        p.URL,
		}
	}

	return items
}

func pluralCount(n int) string {
	if n == 1 {
		return "1 project"
	}

	return strconv.Itoa(n) + " projects"
}
