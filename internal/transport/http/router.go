package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ordersight/internal/config"
	"ordersight/internal/infrastructure"
	customMiddleware "ordersight/internal/middleware"
	"ordersight/pkg/contracts"
)

// NewRouter builds the full HTTP router: middleware chain, ingest and
// analytics routes, health probes and the Prometheus endpoint.
func NewRouter(cfg *config.Config, ingestHandler *IngestHandler, analyticsHandler *AnalyticsHandler, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(logger))
	r.Use(customMiddleware.Recoverer(logger))
	r.Use(customMiddleware.SecurityHeaders)

	if cfg.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: cfg.Security.AllowedOrigins,
			ExposedHeaders: []string{"X-Request-ID"},
			Logger:         logger,
		}))
	}

	if cfg.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			cfg.Security.RateLimit.RPS,
			cfg.Security.RateLimit.Burst,
			logger,
		).Handler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/healthz", healthCheck)
		r.Get("/version", versionInfo)
		r.Mount("/ingest", ingestHandler.Routes())
		r.Mount("/analytics", analyticsHandler.Routes())
	})

	r.Handle("/metrics", infrastructure.MetricsHandler())

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, contracts.GetVersionInfo())
}
