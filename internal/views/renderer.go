// Package views renders the listing, post and error pages from embedded
// html/template files.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"sync"
)

const (
	TemplateHome  = "home"
	TemplatePost  = "post"
	TemplateError = "error"

	layoutTemplate = "layout"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/site.css
var stylesheet []byte

// Stylesheet returns the embedded site stylesheet.
func Stylesheet() []byte {
	return stylesheet
}

// Renderer executes page templates inside the shared layout.
type Renderer struct {
	once  sync.Once
	pages map[string]*template.Template
	err   error
}

// NewRenderer returns a renderer over the embedded templates. Templates are
// parsed on first use.
func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) ensureTemplates() (map[string]*template.Template, error) {
	r.once.Do(func() {
		funcs := template.FuncMap{
			"safeHTML": func(value any) template.HTML { return toHTML(value) },
		}
		base, err := template.New(layoutTemplate).Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
		if err != nil {
			r.err = fmt.Errorf("views: parse layout: %w", err)
			return
		}
		pages := make(map[string]*template.Template, 3)
		for _, name := range []string{TemplateHome, TemplatePost, TemplateError} {
			clone, err := base.Clone()
			if err != nil {
				r.err = fmt.Errorf("views: clone layout: %w", err)
				return
			}
			page, err := clone.ParseFS(templateFS, "templates/"+name+".html")
			if err != nil {
				r.err = fmt.Errorf("views: parse %s: %w", name, err)
				return
			}
			pages[name] = page
		}
		r.pages = pages
	})
	return r.pages, r.err
}

// RenderTemplate renders the named page. Output goes to out[0] when given,
// otherwise it is returned.
func (r *Renderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	pages, err := r.ensureTemplates()
	if err != nil {
		return "", err
	}
	page, ok := pages[name]
	if !ok {
		return "", fmt.Errorf("template %q not found", name)
	}

	var writer io.Writer
	var buffer *bytes.Buffer
	if len(out) > 0 && out[0] != nil {
		writer = out[0]
	} else {
		buffer = &bytes.Buffer{}
		writer = buffer
	}

	if err := page.ExecuteTemplate(writer, layoutTemplate, data); err != nil {
		return "", err
	}
	if buffer != nil {
		return buffer.String(), nil
	}
	return "", nil
}

func toHTML(value any) template.HTML {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case template.HTML:
		return v
	case string:
		return template.HTML(v)
	case []byte:
		return template.HTML(v)
	default:
		return template.HTML(fmt.Sprint(v))
	}
}
