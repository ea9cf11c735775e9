// Package web holds the embedded HTML templates and static assets and the
// echo renderer that executes them.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cloudchaser/dashboard/internal/validate"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Pages are full documents wrapped in the layout.  Everything else
// (table, row, dialog, alert) is a fragment executed on its own.
var pages = []string{"landing", "login", "register", "dashboard", "error"}

// shared are parsed into every page and into the fragment set.
var shared = []string{"templates/layout.html", "templates/partials.html", "templates/forms.html"}

var funcs = template.FuncMap{
	"passwordHint": func() string { return validate.PasswordHint },
	"lower":        strings.ToLower,
}

// Renderer implements echo.Renderer.
type Renderer struct {
	fragments *template.Template
	pages     map[string]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	base, err := template.New("").Funcs(funcs).ParseFS(templatesFS, shared...)
	if err != nil {
		return nil, fmt.Errorf("parse shared templates: %w", err)
	}
	r := &Renderer{fragments: base, pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone templates for %s: %w", name, err)
		}
		if _, err := t.ParseFS(templatesFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// MustRenderer is NewRenderer for main; the templates are embedded so a
// parse error is a build defect.
func MustRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes a page through the layout or a fragment by name.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	if t, ok := r.pages[name]; ok {
		return t.ExecuteTemplate(w, "layout", data)
	}
	if r.fragments.Lookup(name) == nil {
		return fmt.Errorf("template %q not found", name)
	}
	return r.fragments.ExecuteTemplate(w, name, data)
}

// Static returns the asset tree served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
