package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/payportal/internal/portal/store"
	"github.com/aussiebroadwan/payportal/pkg/httpx"
	"github.com/aussiebroadwan/payportal/pkg/slogx"

	_ "github.com/aussiebroadwan/payportal/api/portal" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	Visitors       *Visitors
	Pages          *Pages
	MaxUploadBytes int64
	Metrics        http.Handler // Optional: /metrics is not mounted without it
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
		httpx.SecurityHeaders(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerDashboard()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	// Everything else lands on the dashboard with its query intact.
	r.Mux.Handle("/", FallbackHandler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Payment Portal API
//	@version		0.1.0
//	@description	Server-rendered portal where users sign in, check their subscription and upload bank-transfer proofs.
//	@description
//	@description	Visitors are identified by the signed pp_device and pp_tab cookies; the JSON view mirrors the HTML dashboard.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/payportal
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Visitors: r.Visitors, Pages: r.Pages}

	r.Mux.Handle("GET /login",
		httpx.Chain(http.HandlerFunc(h.HandleLoginGet),
			httpx.RateLimitByIP(httpx.PageLimit),
		),
	)
	r.Mux.Handle("GET /register",
		httpx.Chain(http.HandlerFunc(h.HandleRegisterGet),
			httpx.RateLimitByIP(httpx.PageLimit),
		),
	)

	// Credential posts are limited by IP + email to slow down guessing
	r.Mux.Handle("POST /login",
		httpx.Chain(http.HandlerFunc(h.HandleLoginPost),
			httpx.RateLimitByIPAndFormField(httpx.CredentialLimit, "email"),
		),
	)
	r.Mux.Handle("POST /register",
		httpx.Chain(http.HandlerFunc(h.HandleRegisterPost),
			httpx.RateLimitByIPAndFormField(httpx.CredentialLimit, "email"),
		),
	)

	r.Mux.Handle("POST /logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByCookie(httpx.PageLimit, DeviceCookieName),
		),
	)
}

func (r *Router) registerDashboard() {
	h := &DashboardHandler{
		Visitors:       r.Visitors,
		Pages:          r.Pages,
		MaxUploadBytes: r.MaxUploadBytes,
	}

	page := httpx.RateLimitByCookie(httpx.PageLimit, DeviceCookieName)

	r.Mux.Handle("GET /dashboard", httpx.Chain(http.HandlerFunc(h.HandleGet), page))
	r.Mux.Handle("POST /dashboard/refresh", httpx.Chain(http.HandlerFunc(h.HandleRefresh), page))
	r.Mux.Handle("GET /dashboard/return", httpx.Chain(http.HandlerFunc(h.HandleReturn), page))
	r.Mux.Handle("GET /v1/dashboard", httpx.Chain(http.HandlerFunc(h.HandleJSON), page))

	// Uploads reach the remote API, so they get their own tighter budget
	r.Mux.Handle("POST /dashboard/proof",
		httpx.Chain(http.HandlerFunc(h.HandleProof),
			httpx.RateLimitByCookie(httpx.UploadLimit, DeviceCookieName),
		),
	)
}

func (r *Router) registerSystem() {
	health := Health{Started: r.startTime, Version: r.buildVersion, Store: r.store}
	r.Mux.HandleFunc("GET /livez", health.HandleLive)
	r.Mux.HandleFunc("GET /readyz", health.HandleReady)

	if r.Metrics != nil {
		r.Mux.Handle("GET /metrics", r.Metrics)
	}
}
