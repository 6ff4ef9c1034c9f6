package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/storm-data-climo/internal/domain"
	"github.com/couchcryptid/storm-data-climo/internal/observability"
)

// Server exposes the climatology API alongside health, readiness and metrics.
type Server struct {
	httpServer *http.Server
	ranker     *domain.Ranker
	geocoder   domain.Geocoder
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server over a loaded record. A nil geocoder
// serves landfalls without place names.
func NewServer(addr string, ready sharedobs.ReadinessChecker, ranker *domain.Ranker, geocoder domain.Geocoder, metrics *observability.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		ranker:   ranker,
		geocoder: geocoder,
		metrics:  metrics,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(ready))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(20 * time.Second))

		r.Get("/storms/{id}", s.handleStorm)
		r.Get("/storms/{id}/landfalls", s.handleLandfalls)
		r.Get("/seasons/{year}", s.handleSeason)
		r.Get("/search", s.handleSearch)
		r.Get("/summary", s.handleSummary)
		r.Get("/metrics", s.handleMetricList)
		r.Get("/rank/{kind}", s.handleRank)
		r.Post("/rank", s.handleRankRequest)
		r.Get("/standing/{year}", s.handleStanding)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// logRequests writes one debug line per request with its status and latency.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the router, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
