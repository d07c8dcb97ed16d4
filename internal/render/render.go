// Package render executes the embedded HTML templates for every page the
// forum serves. Templates are parsed once at startup; each page template is
// combined with the shared layout.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/askloop/forum/types"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = []string{
	"index.html",
	"login.html",
	"register.html",
	"question.html",
	"detail.html",
	"notfound.html",
	"error.html",
}

// Data carries everything a page template can reference. CurrentUser is nil
// for anonymous requests; the layout uses it to show the signed-in header.
type Data struct {
	CurrentUser *types.User
	Error       string
	Questions   []types.Question
	Question    types.Question
	Comments    []types.Comment
	Query       string
}

// Renderer holds the parsed template set, one entry per page.
type Renderer struct {
	templates map[string]*template.Template
}

// New parses the embedded templates. It fails if any page is missing or
// malformed, so a broken template is caught at startup rather than on the
// first request for it.
func New() (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}
	return &Renderer{templates: templates}, nil
}

// HTML renders the named page with the given status code. The template is
// executed into a buffer first so a mid-render failure never produces a
// half-written response.
func (r *Renderer) HTML(w http.ResponseWriter, status int, page string, data Data) error {
	tmpl, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("unknown template %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("execute template %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
