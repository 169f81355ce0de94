package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"salespulse/internal/config"
	"salespulse/internal/middleware"
)

// NewRouter assembles the dashboard API router with the standard
// middleware chain.
func NewRouter(cfg config.ServerConfig, provider DatasetProvider, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger).Handler)

	dashboard := NewDashboardHandler(provider, logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", dashboard.Dashboard)
		r.Get("/locations", dashboard.Locations)
		r.Get("/companies", dashboard.Companies)
		r.Get("/regions", dashboard.Regions)
	})

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
