package server

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/ui"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	limiter   *middleware.RateLimiter
	dashboard *handlers.DashboardHandlers
	api       *handlers.APIHandlers
	sse       *handlers.SSEHandlers
	exports   *handlers.ExportHandlers
	charts    *handlers.ChartHandlers
}

func NewServer(reporter *handlers.Reporter, logger *slog.Logger) *Server {
	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		dashboard: handlers.NewDashboardHandlers(reporter, logger),
		api:       handlers.NewAPIHandlers(reporter, logger),
		sse:       handlers.NewSSEHandlers(reporter, logger),
		exports:   handlers.NewExportHandlers(reporter, logger),
		charts:    handlers.NewChartHandlers(reporter, logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", s.dashboard.HandleDashboard)
	s.mux.HandleFunc("GET /health", s.api.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.api.HandleStats)
	s.mux.HandleFunc("POST /admin/reload", s.api.HandleReload)
	s.mux.Handle("GET /static/", staticCache(http.FileServerFS(ui.Static)))

	// REST API endpoints
	s.mux.HandleFunc("GET /api/periods", s.api.HandlePeriods)
	s.mux.HandleFunc("GET /api/report", s.api.HandleReport)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/report", s.sse.HandleReport)

	// Downloads
	s.mux.HandleFunc("GET /export/csv", s.exports.HandleCSV)
	s.mux.HandleFunc("GET /export/xlsx", s.exports.HandleXLSX)
	s.mux.HandleFunc("GET /charts/{file}", s.charts.HandlePNG)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Handler wraps the routes in the request middleware chain.
func (s *Server) Handler(cfg *config.Config) http.Handler {
	if s.limiter == nil {
		s.limiter = middleware.NewRateLimiter(cfg.Security)
	}

	chain := middleware.Chain(
		middleware.Recovery(s.logger),
		middleware.RequestID(),
		middleware.Logger(s.logger),
		middleware.Tracing(s.logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.CrossOrigin(cfg.Security, s.logger),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(s.limiter, s.logger),
	)

	return chain(s)
}

func staticCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=300")
		next.ServeHTTP(w, r)
	})
}
