package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/5280sourcegroup/website/internal/content"
	"github.com/5280sourcegroup/website/internal/quoteform"
)

// PageTemplate is the name of the full-page template.
const PageTemplate = "page"

//go:embed templates/*.html
var templatesFS embed.FS

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if tmpl.Lookup(PageTemplate) == nil {
		return nil, fmt.Errorf("template %q is not defined", PageTemplate)
	}
	return tmpl, nil
}

// Page is the data rendered by the page template.
type Page struct {
	Site             *content.Site
	NavLinks         []content.NavLink
	ScrollThreshold  int
	Sections         []quoteform.Section
	Form             *quoteform.Form
	FormToken        string
	RecaptchaSiteKey string
	Copyright        string
}

// NewPage assembles the page for form. A nil form renders an empty one.
func NewPage(site *content.Site, form *quoteform.Form, now time.Time) *Page {
	if form == nil {
		form = quoteform.New()
	}
	return &Page{
		Site:            site,
		NavLinks:        content.NavLinks,
		ScrollThreshold: content.ScrollThreshold,
		Sections:        quoteform.Sections,
		Form:            form,
		Copyright:       site.Copyright(now),
	}
}
