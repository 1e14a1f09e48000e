package console

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/datamesh/mesh-console/pkg/service"
	"github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutTemplate = "layout"

// Renderer executes the page templates, each page is parsed together with
// the shared layout.
type Renderer struct {
	pages map[string]*template.Template
	now   func() time.Time
}

func NewRenderer() (*Renderer, error) {
	return newRenderer(time.Now)
}

func newRenderer(now func() time.Time) (*Renderer, error) {
	r := &Renderer{
		pages: map[string]*template.Template{},
		now:   now,
	}

	funcs := template.FuncMap{
		"humanTime":  r.humanTime,
		"formatTime": formatTime,
		"join":       strings.Join,
		"toggle":     NewToggleForm,
		"piiPath":    PIIPath,
		"dbResource": service.DatabaseResource,
		"tbResource": service.TableResource,
	}

	for _, page := range pages {
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing page %s: %w", page, err)
		}

		r.pages[page] = t
	}

	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	return t.ExecuteTemplate(w, layoutTemplate, data)
}

// humanTime shows t relative to now, "3 hours ago".
func (r *Renderer) humanTime(t time.Time) string {
	if t.IsZero() {
		return service.NotAvailable
	}

	return humanize.RelTime(t, r.now(), "ago", "from now")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}
