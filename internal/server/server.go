package server

import (
	"log/slog"
	"net/http"

	"ecommerce-dashboard/internal/charts"
	"ecommerce-dashboard/internal/config"
	"ecommerce-dashboard/internal/handlers"
	"ecommerce-dashboard/internal/services"
)

// Deps are the long-lived pieces the routes are served from.
type Deps struct {
	Analytics   *services.Analytics
	Renderer    *charts.Renderer
	CustomerMap handlers.Asset
	Dashboard   config.DashboardConfig
	Logger      *slog.Logger
}

type Server struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	pageHandlers  *handlers.PageHandlers
	chartHandlers *handlers.ChartHandlers
	apiHandlers   *handlers.APIHandlers
	sseHandlers   *handlers.SSEHandlers
}

func NewServer(deps Deps) *Server {
	s := &Server{
		mux:           http.NewServeMux(),
		logger:        deps.Logger,
		pageHandlers:  handlers.NewPageHandlers(deps.Analytics, deps.Renderer, deps.Dashboard, deps.Logger),
		chartHandlers: handlers.NewChartHandlers(deps.Renderer, deps.CustomerMap, deps.Logger),
		apiHandlers:   handlers.NewAPIHandlers(deps.Analytics, deps.Renderer, deps.Dashboard.TopCategories, deps.Logger),
		sseHandlers:   handlers.NewSSEHandlers(deps.Analytics, deps.Renderer, deps.Dashboard, deps.Logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Dashboard routes
	s.mux.HandleFunc("GET /", s.pageHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /charts/{name}", s.chartHandlers.HandleChart)
	s.mux.HandleFunc("GET /static/customer-map", s.chartHandlers.HandleCustomerMap)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/monthly-orders", s.apiHandlers.HandleMonthlyOrders)
	s.mux.HandleFunc("GET /api/categories/best", s.apiHandlers.HandleBestCategories)
	s.mux.HandleFunc("GET /api/categories/worst", s.apiHandlers.HandleWorstCategories)
	s.mux.HandleFunc("GET /api/export.xlsx", s.apiHandlers.HandleExport)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/summary", s.sseHandlers.HandleSummary)

	// Operations
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)
	s.mux.HandleFunc("POST /admin/reload", s.apiHandlers.HandleReload)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
