package website

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"maps"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ndrweb/internal/login"
	"github.com/wolfeidau/ndrweb/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"login", "organizations", "organization", "site", "error"}

// Page is the data every template receives. Data carries the page specific view model.
type Page struct {
	Title   string
	User    *models.User
	Flashes []string
	Data    any
}

// Renderer executes the embedded HTML templates. Each page is parsed together
// with the shared layout so pages can each define their own content block.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses all templates, merging customFuncs over the defaults.
func NewRenderer(customFuncs template.FuncMap) (*Renderer, error) {
	funcs := template.FuncMap{
		"date": func(t time.Time) string {
			return t.UTC().Format("2006-01-02 15:04 MST")
		},
	}

	maps.Copy(funcs, customFuncs)

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{pages: pages}, nil
}

// Render writes the named page with status. Output is buffered so a template
// failure produces a clean 500 instead of a half written page. A zero status
// leaves the status code to whoever wrote it already.
func (rd *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) {
	tmpl, ok := rd.pages[name]
	if !ok {
		log.Error().Str("template", name).Msg("Unknown template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "layout", page); err != nil {
		log.Error().Err(err).Str("template", name).Msg("Failed to render template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != 0 {
		w.WriteHeader(status)
	}
	_, _ = buf.WriteTo(w)
}

// Login renders the login form. It satisfies login.View.
func (rd *Renderer) Login(w http.ResponseWriter, r *http.Request, page login.Page) {
	rd.Render(w, 0, "login", Page{
		Title:   "Log in",
		Flashes: page.Flashes,
		Data:    page,
	})
}

type errorData struct {
	Message string
}

// Error renders a generic error page for status.
func (rd *Renderer) Error(w http.ResponseWriter, status int, user *models.User, message string) {
	rd.Render(w, status, "error", Page{
		Title: http.StatusText(status),
		User:  user,
		Data:  errorData{Message: message},
	})
}
