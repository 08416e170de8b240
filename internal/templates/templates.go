// Package templates renders the HTML pages of the demo server
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed html/*.html
var content embed.FS

// TemplateError wraps a failure to load or execute a page
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
}

func (e *TemplateError) Unwrap() error { return e.Cause }

// Templates manages the HTML templates
type Templates struct {
	index *template.Template
	error *template.Template
}

// LoadTemplates loads and parses all HTML templates
func LoadTemplates() (*Templates, error) {
	t := &Templates{}
	var err error

	if t.index, err = template.ParseFS(content, "html/index.html", "html/layout.html"); err != nil {
		return nil, &TemplateError{Message: "parsing index page", Cause: err}
	}

	if t.error, err = template.ParseFS(content, "html/error.html", "html/layout.html"); err != nil {
		return nil, &TemplateError{Message: "parsing error page", Cause: err}
	}

	return t, nil
}

// IndexData holds data for the sign-in page
type IndexData struct {
	AuthURL string
	QRCode  template.URL
	Scopes  []string
}

// RenderIndex renders the sign-in page
func (t *Templates) RenderIndex(w http.ResponseWriter, data IndexData) error {
	return render(w, t.index, http.StatusOK, data)
}

// ErrorData holds data for the error page
type ErrorData struct {
	Title   string
	Message string
	Status  int
}

// RenderError renders the error page with data.Status, or 400 when unset
func (t *Templates) RenderError(w http.ResponseWriter, data ErrorData) error {
	status := data.Status
	if status == 0 {
		status = http.StatusBadRequest
	}
	return render(w, t.error, status, data)
}

// render executes into a buffer first so a failing template never leaves a
// half-written page behind
func render(w http.ResponseWriter, tmpl *template.Template, status int, data any) error {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return &TemplateError{Message: "failed to render template", Cause: err}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("writing page: %w", err)
	}
	return nil
}
