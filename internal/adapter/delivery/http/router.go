// Package http provides the HTTP delivery layer of the URL shortener: the
// HTML pages served to browsers, the JSON API under /api/v1, short code
// redirects and the metrics endpoint.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/YogeshBarai/url-shortener/docs"

	"github.com/YogeshBarai/url-shortener/internal/config"
	"github.com/YogeshBarai/url-shortener/internal/metrics"
	"github.com/YogeshBarai/url-shortener/internal/usecase"
)

// staticRoutes are the first path segments served by fixed routes rather
// than by the short code redirect.
var staticRoutes = []string{"api", "docs", "swagger", "metrics", "register", "login", "logout", "dashboard"}

// ReservedShortCodes returns the short codes shadowed by fixed routes.
func ReservedShortCodes() []string {
	codes := make([]string, 0, len(staticRoutes))
	for _, s := range staticRoutes {
		if usecase.IsShortCode(s) {
			codes = append(codes, s)
		}
	}
	return codes
}

// UseCases groups the application logic the router dispatches to.
type UseCases struct {
	URL     urlUseCase
	User    userUseCase
	Visitor visitorUseCase
}

type Options struct {
	Sessions       *SessionManager
	AllowAnonymous bool
	Throttle       config.Throttle

	// BaseURL prefixes displayed short URLs. Derived from the request when empty.
	BaseURL string

	// TrustProxy takes the client address and scheme from X-Forwarded-For,
	// X-Real-IP and X-Forwarded-Proto. Only enable it behind a reverse proxy
	// that overwrites those headers.
	TrustProxy bool

	// Metrics defaults to collectors on a private registry.
	Metrics *metrics.Metrics

	// Gatherer backs /metrics. The endpoint is not mounted when nil.
	Gatherer prometheus.Gatherer
}

// NewRouter initializes a chi router serving the web pages, the JSON API and the metrics endpoint.
func NewRouter(logger *httplog.Logger, uc UseCases, opts Options) *chi.Mux {
	if opts.Metrics == nil {
		opts.Metrics = metrics.New(prometheus.NewRegistry())
	}

	validate := newValidator()
	links := linkBuilder{baseURL: opts.BaseURL, trustProxy: opts.TrustProxy}

	web := &webHandler{
		urls:           uc.URL,
		users:          uc.User,
		visitors:       uc.Visitor,
		sessions:       opts.Sessions,
		metrics:        opts.Metrics,
		validate:       validate,
		links:          links,
		allowAnonymous: opts.AllowAnonymous,
	}

	api := &apiHandler{
		urls:     uc.URL,
		metrics:  opts.Metrics,
		validate: validate,
		links:    links,
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(opts.Sessions.Load)

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(docs.SwaggerYAML)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"https://*"},
			AllowedMethods:   []string{"POST", "GET", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Accept"},
			AllowCredentials: false,
			MaxAge:           84600,
		}))

		r.Get("/ping", handlePing)

		r.Post("/shorten", api.shortenURL)
		r.Get("/shorten/{shortCode}", api.resolveShortCode)

		r.With(RequireAPISession).Get("/urls", api.listURLs)
	})

	throttled := r.With()
	if opts.Throttle.RPS > 0 {
		throttled = r.With(newIPThrottle(opts.Throttle.RPS, opts.Throttle.Burst).Limit)
	}

	r.Get("/register", web.registerPage)
	throttled.Post("/register", web.register)
	r.Get("/login", web.loginPage)
	throttled.Post("/login", web.login)

	r.Group(func(r chi.Router) {
		r.Use(RequireSession)

		r.Get("/logout", web.logout)
		r.Get("/dashboard", web.dashboard)
	})

	r.Get("/", web.index)
	r.Post("/", web.shorten)

	r.Get("/{shortCode}", web.redirect)
	r.Get("/{shortCode}/qr", web.qrCode)

	return r
}
