package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/steelburn/ai-stack-build/daemon/api/middleware"
)

func (s *Server) router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	r.Use(middleware.CORS())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(metricsMiddleware)
	r.Use(middleware.Logging())

	// Never gated by basic auth: the scrape endpoint and the JSON API,
	// consistent with the non-goal of authenticated scrape endpoints.
	r.Get("/api/status", s.handleStatus)
	r.Get("/api/logs/{key}", s.handleLogs)
	r.Handle("/metrics", s.handleMetricsScrape())
	r.Get("/api/ws/snapshots", s.handleSnapshotStream)

	r.Group(func(r chi.Router) {
		r.Use(middleware.BasicAuth(s.cfg.Auth))
		r.Get("/", s.handleIndex)
		r.Get("/resources", s.handleResources)
		r.Get("/alerts", s.handleAlerts)
		r.Get("/trends", s.handleTrends)
	})

	return r
}
