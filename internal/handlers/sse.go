package handlers

import (
	"log/slog"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/starfederation/datastar-go/datastar"

	"ecommerce-dashboard/internal/charts"
	"ecommerce-dashboard/internal/config"
	"ecommerce-dashboard/internal/services"
	"ecommerce-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	analytics *services.Analytics
	renderer  *charts.Renderer
	cfg       config.DashboardConfig
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, renderer *charts.Renderer, cfg config.DashboardConfig, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		renderer:  renderer,
		cfg:       cfg,
		logger:    logger,
	}
}

// HandleSummary patches the summary tables and every chart figure with the
// current snapshot, then bumps the chartVersion signal so images refetch.
func (h *SSEHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	view := buildView(h.analytics, h.renderer, h.cfg)

	html, err := templates.RenderString(r.Context(), templates.SummaryTables(view))
	if err != nil {
		h.logger.Error("render summary tables", "error", err)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		h.logger.Warn("patch summary tables", "error", err)
		return
	}

	for _, c := range view.Charts {
		html, err := templates.RenderString(r.Context(), templates.ChartFigure(c, view.ChartVersion))
		if err != nil {
			h.logger.Error("render chart figure", "chart", c.Name, "error", err)
			return
		}
		if err := sse.PatchElements(html); err != nil {
			h.logger.Warn("patch chart figure", "chart", c.Name, "error", err)
			return
		}
	}

	signals, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(map[string]any{
		"chartVersion": view.ChartVersion,
	})
	if err != nil {
		h.logger.Error("marshal signals", "error", err)
		return
	}
	if err := sse.PatchSignals(signals); err != nil {
		h.logger.Warn("patch signals", "error", err)
		return
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
