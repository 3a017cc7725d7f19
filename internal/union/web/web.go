package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/aussiebroadwan/aupwu/internal/union/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names known to the renderer.
const (
	PageIndex            = "index"
	PageLogin            = "login"
	PageRegister         = "register"
	PageAdminDashboard   = "admin_dashboard"
	PageOfficerDashboard = "officer_dashboard"
	PageMemberDashboard  = "member_dashboard"
	PageAbout            = "about"
)

var pages = []string{
	PageIndex,
	PageLogin,
	PageRegister,
	PageAdminDashboard,
	PageOfficerDashboard,
	PageMemberDashboard,
	PageAbout,
}

var ErrUnknownPage = errors.New("web: unknown page")

// Flash is a one-shot status message shown on the next rendered page.
type Flash struct {
	Category string // "success", "danger", "info"
	Message  string
}

// Page is the context handed to every template.
type Page struct {
	Title    string
	Flashes  []Flash
	Username string
	Role     domain.Role

	// Dashboard data, set only by the handlers that need it.
	Committees   []domain.Committee
	Member       *domain.Member
	Demographics *domain.Demographics

	// Form echoes the submitted username/email back into a re-rendered form.
	Form map[string]string
}

// Renderer turns a page name and context into HTML.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, p Page) error
}

// Templates renders the embedded template set. Each page is parsed together
// with the shared layout once at construction.
type Templates struct {
	set map[string]*template.Template
}

func NewTemplates() (*Templates, error) {
	t := &Templates{set: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		tpl, err := template.New("layout.html").ParseFS(templateFS,
			"templates/layout.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		t.set[name] = tpl
	}
	return t, nil
}

// Render executes into a buffer first so a template error never leaves a
// half-written response.
func (t *Templates) Render(w http.ResponseWriter, status int, name string, p Page) error {
	tpl, ok := t.set[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPage, name)
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded stylesheet and assets under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embedded path is fixed at compile time
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}
