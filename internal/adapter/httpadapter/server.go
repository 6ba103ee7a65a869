package httpadapter

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/berlin-dashboard/internal/domain"
	"github.com/couchcryptid/berlin-dashboard/internal/observability"
	"github.com/couchcryptid/berlin-dashboard/internal/presentation"
)

// DashboardRunner produces a dashboard for a selection and reports readiness.
type DashboardRunner interface {
	sharedobs.ReadinessChecker
	Run(ctx context.Context, sel domain.Selection) (presentation.Dashboard, error)
}

// ChartRenderer draws one chart as an image.
type ChartRenderer interface {
	Render(w io.Writer, spec presentation.ChartSpec) error
}

// Defaults is the selection used for a request with no query string.
type Defaults struct {
	Entities   []string
	WindowDays int
}

// Server exposes the dashboard page, JSON API, chart images, and health,
// readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	runner     DashboardRunner
	renderer   ChartRenderer
	defaults   Defaults
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the dashboard and operational routes.
func NewServer(addr string, runner DashboardRunner, renderer ChartRenderer, defaults Defaults, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			// A run may retry the feed fetch several times.
			WriteTimeout: 90 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		runner:   runner,
		renderer: renderer,
		defaults: defaults,
		metrics:  metrics,
		logger:   logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/dashboard", s.handleAPI)
	mux.HandleFunc("GET /charts/{kind}", s.handleChart)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(runner))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
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

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
