package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tosgate/internal/platform/health"
	"tosgate/internal/platform/metrics"
	"tosgate/internal/platform/middleware"
	termsHandler "tosgate/internal/terms/handler"
)

// RouterConfig carries everything the router mounts. Metrics and Gatherer
// are optional; without a Gatherer there is no /metrics route.
type RouterConfig struct {
	Logger         *slog.Logger
	RequestTimeout time.Duration
	Validator      middleware.JWTValidator
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	Health         *health.Handler
	Terms          *termsHandler.Handler
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	if cfg.Health != nil {
		cfg.Health.Register(r)
	}
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
		}
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.OptionalAuth(cfg.Validator, cfg.Logger))
		cfg.Terms.Register(r)
	})

	return r
}
