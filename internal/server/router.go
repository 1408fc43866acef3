package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bdtax/income-tax-calculator/internal/observability"
)

const (
	defaultAPIPrefix  = "/api/v1"
	defaultTimeout    = 30 * time.Second
	errorNotFoundCode = "route_not_found"
)

type routerConfig struct {
	basePath    string
	logger      *zap.Logger
	middlewares []func(http.Handler) http.Handler
}

// Option customises the router configuration before construction.
type Option func(*routerConfig)

// WithLogger sets the logger injected into every request.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *routerConfig) {
		cfg.logger = logger
	}
}

// WithMiddlewares appends additional global middleware to the router.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// NewRouter constructs the chi router with shared middleware and the tax routes.
func NewRouter(h *TaxHandlers, opts ...Option) chi.Router {
	cfg := routerConfig{basePath: defaultAPIPrefix}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		observability.InjectLoggerMiddleware(cfg.logger),
		observability.RequestLoggerMiddleware,
		observability.RecoveryMiddleware(func(w http.ResponseWriter, req *http.Request) {
			WriteError(req.Context(), w, NewError("internal_server_error", "internal server error", http.StatusInternalServerError))
		}),
		middleware.Timeout(defaultTimeout),
	)
	for _, mw := range cfg.middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		WriteError(req.Context(), w, NewError(errorNotFoundCode, fmt.Sprintf("no route for %s", req.URL.Path), http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		WriteError(req.Context(), w, NewError("method_not_allowed", fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path), http.StatusMethodNotAllowed))
	})

	r.Get("/healthz", h.Healthz)

	r.Route(cfg.basePath, func(api chi.Router) {
		api.Get("/years", h.Years)
		api.Route("/tax", func(tax chi.Router) {
			tax.Post("/calculate", h.Calculate)
			tax.Post("/analyze", h.Analyze)
			tax.Post("/compare", h.Compare)
			tax.Get("/curve", h.Curve)
			tax.Get("/suggested-investment", h.SuggestedInvestment)
		})
	})

	return r
}
