package plotpage

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sync"

	"github.com/Sumatoshi-tech/codefolio/pkg/site"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	templates     *template.Template
	templatesOnce sync.Once
	errTemplates  error
)

// funcMap provides template function helpers.
var funcMap = template.FuncMap{
	"odd": func(i int) bool {
		return i%2 == 1
	},
	"css": func(s string) template.CSS {
		return template.CSS(s)
	},
}

// getTemplates returns the parsed templates, loading them once.
func getTemplates() (*template.Template, error) {
	templatesOnce.Do(func() {
		var parseErr error

		templates, parseErr = template.New("").
			Funcs(funcMap).
			ParseFS(templateFS, "templates/*.html")
		if parseErr != nil {
			errTemplates = fmt.Errorf("parsing templates: %w", parseErr)
		}
	})

	return templates, errTemplates
}

// renderTemplate renders a named template with the given data.
func renderTemplate(name string, data any) (template.HTML, error) {
	tmpl, err := getTemplates()
	if err != nil {
		return "", fmt.Errorf("loading templates: %w", err)
	}

	var buf bytes.Buffer

	err = tmpl.ExecuteTemplate(&buf, name, data)
	if err != nil {
		return "", fmt.Errorf("executing template %s: %w", name, err)
	}

	return template.HTML(buf.String()), nil
}

// pageData holds data for the page template.
type pageData struct {
	Title    string
	SiteName string
	Scheme   string
	Light    ThemeConfig
	Dark     ThemeConfig
	ExtraCSS template.CSS
	Header   template.HTML
	Content  template.HTML
	Scripts  template.HTML
}

// themeOption is one entry of the color-scheme selector.
type themeOption struct {
	Value    string
	Label    string
	Selected bool
}

// headerData holds data for the header template.
type headerData struct {
	SiteName    string
	Title       string
	Description string
	Nav         []site.NavLink
	Themes      []themeOption
}

// sectionData holds data for the section template.
type sectionData struct {
	ID       string
	Title    string
	Subtitle string
	Body     template.HTML
}

// cardData holds data for the card template.
type cardData struct {
	Title   string
	Content template.HTML
}
