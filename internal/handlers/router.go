package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/premiun-cakes/api/internal/platform/httpx"
)

const basePath = "/api/v1"

// Option customises router construction.
type Option func(*routerConfig)

type routerConfig struct {
	middlewares    []func(http.Handler) http.Handler
	allowedOrigins []string
	health         *HealthHandler
	catalog        *CatalogHandler
	orders         *OrderHandler
}

// WithMiddlewares appends global middlewares, applied in order after the
// defaults.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(c *routerConfig) {
		c.middlewares = append(c.middlewares, mw...)
	}
}

// WithAllowedOrigins enables CORS for the given browser origins.
func WithAllowedOrigins(origins []string) Option {
	return func(c *routerConfig) { c.allowedOrigins = origins }
}

// WithHealthRoutes mounts the liveness and readiness probes.
func WithHealthRoutes(h *HealthHandler) Option {
	return func(c *routerConfig) { c.health = h }
}

// WithCatalogRoutes mounts the catalog read endpoint.
func WithCatalogRoutes(h *CatalogHandler) Option {
	return func(c *routerConfig) { c.catalog = h }
}

// WithOrderRoutes mounts the order intake endpoint.
func WithOrderRoutes(h *OrderHandler) Option {
	return func(c *routerConfig) { c.orders = h }
}

// NewRouter assembles the HTTP surface under /api/v1.
func NewRouter(opts ...Option) http.Handler {
	cfg := routerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	if len(cfg.allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("not_found", "resource not found", http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("method_not_allowed", "method not allowed", http.StatusMethodNotAllowed))
	})

	if cfg.health != nil {
		r.Get("/healthz", cfg.health.Liveness)
		r.Get("/readyz", cfg.health.Readiness)
	}

	r.Route(basePath, func(api chi.Router) {
		if cfg.catalog != nil {
			api.Get("/catalog", cfg.catalog.Get)
		}
		if cfg.orders != nil {
			api.Mount("/orders", cfg.orders.Routes())
		}
	})

	return r
}
