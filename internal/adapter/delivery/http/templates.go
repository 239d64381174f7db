package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/YogeshBarai/url-shortener/internal/entity"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	pageIndex     = "index.html"
	pageRegister  = "register.html"
	pageLogin     = "login.html"
	pageDashboard = "dashboard.html"
	pageNotFound  = "not_found.html"
	pageError     = "error.html"
)

var pages = parsePages(pageIndex, pageRegister, pageLogin, pageDashboard, pageNotFound, pageError)

func parsePages(names ...string) map[string]*template.Template {
	m := make(map[string]*template.Template, len(names))
	for _, name := range names {
		m[name] = template.Must(template.New(name).
			Option("missingkey=zero").
			ParseFS(templatesFS, "templates/layout.html", "templates/"+name))
	}
	return m
}

type urlView struct {
	ShortCode   string
	ShortURL    string
	OriginalURL string
	CreatedAt   time.Time
}

type pageData struct {
	Title    string
	Session  *Session
	Flashes  []flashMessage
	Form     map[string]string
	ShortURL string
	Stats    *entity.SiteStats
	URLs     []urlView
}

// renderPage executes the named page inside the layout and writes it with status.
func renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) error {
	const op = "adapter.delivery.http.renderPage"

	tmpl, ok := pages[name]
	if !ok {
		return fmt.Errorf("%s: unknown page %q", op, name)
	}

	if s, ok := SessionFromContext(r.Context()); ok {
		data.Session = s
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("%s: failed to execute template: %w", op, err)
	}

	render.Status(r, status)
	render.HTML(w, r, buf.String())

	return nil
}
