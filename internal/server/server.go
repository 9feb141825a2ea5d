package server

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

type Server struct {
	analytics     *services.Analytics
	mux           *http.ServeMux
	logger        *slog.Logger
	metrics       *observability.Metrics
	apiHandlers   *handlers.APIHandlers
	sseHandlers   *handlers.SSEHandlers
	chartHandlers *handlers.ChartHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

// NewServer wires every route. metrics may be nil, in which case requests are
// not instrumented and /metrics is not served.
func NewServer(analytics *services.Analytics, logger *slog.Logger, metrics *observability.Metrics, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		analytics:     analytics,
		mux:           http.NewServeMux(),
		logger:        logger,
		metrics:       metrics,
		apiHandlers:   handlers.NewAPIHandlers(analytics, logger),
		sseHandlers:   handlers.NewSSEHandlers(analytics, logger),
		chartHandlers: handlers.NewChartHandlers(analytics, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.handle("GET /{$}", templateHandlers.Dashboard)
	s.handle("GET /health", s.apiHandlers.HandleHealth)
	s.handle("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.handle("GET /api/options", s.apiHandlers.HandleOptions)
	s.handle("GET /api/summary", s.apiHandlers.HandleSummary)
	s.handle("GET /api/sales-by-product-line", s.apiHandlers.HandleSalesByProductLine)
	s.handle("GET /api/sales-by-hour", s.apiHandlers.HandleSalesByHour)
	s.handle("GET /api/sales-by-day", s.apiHandlers.HandleSalesByDay)
	s.handle("GET /api/", s.apiHandlers.HandleNotFound)

	// Chart images
	s.handle("GET /charts/product-line.svg", s.chartHandlers.HandleProductLine)
	s.handle("GET /charts/hourly.svg", s.chartHandlers.HandleHourly)
	s.handle("GET /charts/daily.svg", s.chartHandlers.HandleDaily)

	// Datastar SSE endpoints
	s.handle("GET /sse/dashboard", s.sseHandlers.HandleDashboard)

	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

func (s *Server) handle(pattern string, h http.HandlerFunc) {
	s.mux.Handle(pattern, middleware.Instrument(pattern, s.metrics)(h))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
