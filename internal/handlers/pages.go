package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"ecommerce-dashboard/internal/charts"
	"ecommerce-dashboard/internal/config"
	"ecommerce-dashboard/internal/errors"
	"ecommerce-dashboard/internal/observability"
	"ecommerce-dashboard/internal/services"
	"ecommerce-dashboard/internal/ui/templates"
)

const renderTimeout = 10 * time.Second

type PageHandlers struct {
	analytics *services.Analytics
	renderer  *charts.Renderer
	cfg       config.DashboardConfig
	logger    *slog.Logger
}

func NewPageHandlers(analytics *services.Analytics, renderer *charts.Renderer, cfg config.DashboardConfig, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		analytics: analytics,
		renderer:  renderer,
		cfg:       cfg,
		logger:    logger,
	}
}

func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	// GET / also matches every unrouted path.
	if r.URL.Path != "/" {
		errors.WriteError(w, h.logger, errors.NotFound("page not found"), observability.GetRequestID(r.Context()))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	html, err := templates.RenderString(ctx, templates.Dashboard(buildView(h.analytics, h.renderer, h.cfg)))
	if err != nil {
		h.logger.Error("render dashboard", "error", err)
		errors.WriteError(w, h.logger, errors.Internal("render error"), observability.GetRequestID(ctx))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(html))
}
