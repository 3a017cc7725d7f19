package http

import (
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/aupwu/internal/union/session"
	"github.com/aussiebroadwan/aupwu/internal/union/web"
	"github.com/aussiebroadwan/aupwu/pkg/httpx"
	"github.com/aussiebroadwan/aupwu/pkg/slogx"
)

// page renders a template that needs nothing beyond the session.
func (r *Router) page(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		r.render(w, req, http.StatusOK, name, web.Page{Title: title})
	}
}

// render fills the session and flash parts of p and writes the page. Flashes
// already in p (from a re-rendered form) come after any queued one.
func (r *Router) render(w http.ResponseWriter, req *http.Request, status int, name string, p web.Page) {
	st := session.FromContext(req.Context())
	p.Username = st.Username()
	p.Role = st.Role()
	p.Flashes = append(r.takeFlash(w, req), p.Flashes...)

	httpx.NoCache(w)
	if err := r.Renderer.Render(w, status, name, p); err != nil {
		slogx.FromContext(req.Context()).Error("failed to render page",
			slog.String("page", name),
			slog.Any("error", err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// serverError logs err and answers 500.
func serverError(w http.ResponseWriter, req *http.Request, msg string, err error) {
	slogx.FromContext(req.Context()).Error(msg, slog.Any("error", err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
