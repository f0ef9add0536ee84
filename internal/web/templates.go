// ABOUTME: Template loading and rendering for the message bank pages
// ABOUTME: Parses embedded templates once and renders pages and markdown content

package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/2389/message-bank/internal/store"
)

// Template data types
type submitData struct {
	Title  string
	Thanks string // "'handle' at YYYY-MM-DD" after a stored submission
	Prompt bool   // set when a submission was dropped for an empty field
}

type viewData struct {
	Title   string
	Samples []store.Sample
}

type bankData struct {
	Title    string
	Messages []store.Message
}

type pageData struct {
	Title   string
	Content template.HTML
}

// page names, one per content template
const (
	pageSubmit = "submit"
	pageView   = "view"
	pageBank   = "bank"
	pagePage   = "page"
)

// loadTemplates parses every content template together with the shared base layout
func loadTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)
	for _, name := range []string{pageSubmit, pageView, pageBank, pagePage} {
		tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// renderMarkdownPage converts an embedded markdown file to HTML
func renderMarkdownPage(name string) (template.HTML, error) {
	mdContent, err := pagesFS.ReadFile("pages/" + name + ".md")
	if err != nil {
		return "", fmt.Errorf("reading %s page: %w", name, err)
	}

	var htmlBuf bytes.Buffer
	if err := goldmark.Convert(mdContent, &htmlBuf); err != nil {
		return "", fmt.Errorf("converting %s page: %w", name, err)
	}

	// goldmark escapes raw HTML by default
	return template.HTML(htmlBuf.String()), nil
}

// render executes a page into a buffer first so a template failure can still become a 500
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.templates[name]
	if !ok {
		s.logger.Error("unknown template", "name", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		s.logger.Error("failed to render template", "name", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debug("failed to write response", "name", name, "error", err)
	}
}
