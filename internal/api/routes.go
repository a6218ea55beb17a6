package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zapponejosh/ordo-lectionary/internal/config"
	"github.com/zapponejosh/ordo-lectionary/internal/metrics"
)

// RequestTimeout bounds how long one request may run.
const RequestTimeout = 30 * time.Second

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET  /health
//	GET  /metrics                            (when metrics are enabled)
//	GET  /api/v1/calendar?start=&end=        at most MaxRangeDays days
//	GET  /api/v1/calendar/{date}
//	GET  /api/v1/calendar/year/{year}.ics
//	GET  /api/v1/readings/{date}
//	GET  /api/v1/mapping/latest
//	POST /api/v1/admin/reload                X-API-Key required
func SetupRoutes(h *Handlers, cfg *config.Config, m *metrics.Manager, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger, m),
		CORSMiddleware(),
	)
	r.Use(middleware.Timeout(RequestTimeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", CodeBadRequest)
	})

	r.Get("/health", h.HealthCheck)
	if m.Enabled() {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/calendar", h.GetCalendarRange)
		r.Get("/calendar/{date}", h.GetCalendarDay)
		r.Get("/calendar/year/{year}.ics", h.GetCalendarICS)
		r.Get("/readings/{date}", h.GetReadings)
		r.Get("/mapping/latest", h.GetLatestMapping)

		r.With(AdminMiddleware(cfg, logger)).Post("/admin/reload", h.ReloadLectionary)
	})

	return r
}
