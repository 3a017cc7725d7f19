package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/aupwu/internal/union/service"
	"github.com/aussiebroadwan/aupwu/internal/union/session"
	"github.com/aussiebroadwan/aupwu/internal/union/store"
	"github.com/aussiebroadwan/aupwu/internal/union/web"
	"github.com/aussiebroadwan/aupwu/pkg/httpx"
	"github.com/aussiebroadwan/aupwu/pkg/slogx"

	_ "github.com/aussiebroadwan/aupwu/api/union" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store       store.Store
	Credentials *service.CredentialService
	Reports     *service.ReportService
	Sessions    *session.Manager
	Renderer    web.Renderer

	// SecureCookies marks the flash cookie Secure, like the session cookie.
	SecureCookies bool

	LoginLimit    httpx.RateLimitConfig
	RegisterLimit httpx.RateLimitConfig
	HealthLimit   httpx.RateLimitConfig
}

func NewRouter(
	buildVersion string,
	st store.Store,
	sessions *session.Manager,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		logger:        logger,
		store:         st,
		Reports:       &service.ReportService{Store: st},
		Sessions:      sessions,
		LoginLimit:    httpx.StrictLimit,
		RegisterLimit: httpx.StrictLimit,
		HealthLimit:   httpx.LenientLimit,
	}

	// The logger goes first so session errors are logged with the request ID.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		sessions.Middleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerPages()
	r.registerAuth()
	r.registerDashboards()
	r.registerSystem()

	r.Mux.Handle("GET /swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			AUPWU Membership Portal
//	@version		0.1.0
//	@description	Server-rendered membership portal for the All UP Workers Union.
//	@description
//	@description	Pages are HTML; this document covers the form endpoints and the JSON health probes.
//	@description	Sessions are carried in the HttpOnly aupwu_session cookie.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/aupwu
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:5000
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerPages() {
	// "GET /{$}" matches only the root, not every unmatched path.
	r.Mux.HandleFunc("GET /{$}", r.page(web.PageIndex, ""))
	r.Mux.HandleFunc("GET /about", r.page(web.PageAbout, "About"))
	r.Mux.Handle("GET /static/", web.Static())
}

func (r *Router) registerAuth() {
	r.Mux.HandleFunc("GET /login", r.page(web.PageLogin, "Login"))
	r.Mux.HandleFunc("GET /register", r.page(web.PageRegister, "Register"))

	// Brute force protection keyed by IP and the submitted username.
	r.Mux.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(r.handleLogin),
			httpx.RateLimitByIPAndFormField(r.LoginLimit, "username"),
		),
	)
	r.Mux.Handle("POST /register",
		httpx.Chain(http.HandlerFunc(r.handleRegister),
			httpx.RateLimitByIP(r.RegisterLimit),
		),
	)

	r.Mux.HandleFunc("GET /logout", r.handleLogout)
}

func (r *Router) registerDashboards() {
	r.Mux.Handle("GET /admin/dashboard", r.gate(GateAdmin, http.HandlerFunc(r.handleAdminDashboard)))
	r.Mux.Handle("GET /officer/dashboard", r.gate(GateOfficer, http.HandlerFunc(r.handleOfficerDashboard)))
	r.Mux.Handle("GET /member/dashboard", r.gate(GateMember, http.HandlerFunc(r.handleMemberDashboard)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.HealthLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Sessions.Backend),
			httpx.RateLimitByIP(r.HealthLimit),
		),
	)
}

// gate sends requests that fail g back to /login with the matching flash.
func (r *Router) gate(g Gate, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		err := Authorize(g, session.FromContext(req.Context()))
		if err == nil {
			next.ServeHTTP(w, req)
			return
		}

		key := flashUnauthorized
		if errors.Is(err, ErrLoginRequired) {
			key = flashLoginRequired
		}
		slogx.FromContext(req.Context()).Debug("access denied", slog.Any("error", err))
		r.setFlash(w, key)
		http.Redirect(w, req, "/login", http.StatusFound)
	})
}
