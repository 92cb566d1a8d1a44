package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"ecommerce-dashboard/internal/charts"
	"ecommerce-dashboard/internal/errors"
	"ecommerce-dashboard/internal/export"
	"ecommerce-dashboard/internal/observability"
	"ecommerce-dashboard/internal/services"
)

const (
	reloadTimeout = 2 * time.Minute
	xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type APIHandlers struct {
	analytics     *services.Analytics
	renderer      *charts.Renderer
	topCategories int
	logger        *slog.Logger
	reloadMu      sync.Mutex
}

func NewAPIHandlers(analytics *services.Analytics, renderer *charts.Renderer, topCategories int, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics:     analytics,
		renderer:      renderer,
		topCategories: topCategories,
		logger:        logger,
	}
}

func (h *APIHandlers) HandleMonthlyOrders(w http.ResponseWriter, r *http.Request) {
	snap := h.analytics.Snapshot(h.topCategories)
	writeVersioned(w, r, snap.Version, snap.Monthly)
}

func (h *APIHandlers) HandleBestCategories(w http.ResponseWriter, r *http.Request) {
	snap := h.analytics.Snapshot(h.topCategories)
	writeVersioned(w, r, snap.Version, snap.Best)
}

func (h *APIHandlers) HandleWorstCategories(w http.ResponseWriter, r *http.Request) {
	snap := h.analytics.Snapshot(h.topCategories)
	writeVersioned(w, r, snap.Version, snap.Worst)
}

// writeVersioned tags data with the snapshot version. Clients revalidate on
// every use and get 304 until a reload publishes new data.
func writeVersioned(w http.ResponseWriter, r *http.Request, version int64, data any) {
	etag := `"` + strconv.FormatInt(version, 36) + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	errors.WriteSuccess(w, data)
}

func (h *APIHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, h.analytics.AllMonths(), h.analytics.Categories()); err != nil {
		errors.WriteError(w, h.logger, errors.Wrap(err, errors.CodeInternal, "export failed"), observability.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="ecommerce-summary.xlsx"`)
	writeBytes(w, xlsxMediaType, "no-cache", buf.Bytes())
}

// HandleReload reads the CSV again and redraws the charts. Data and charts
// are published together only after both succeed; on any failure the
// previous snapshot keeps being served.
func (h *APIHandlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), reloadTimeout)
	defer cancel()

	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	prepared, err := h.analytics.PrepareReload(ctx)
	if err != nil {
		errors.WriteError(w, h.logger, errors.DataLoad(err), requestID)
		return
	}

	set, err := h.renderer.Draw(ctx, prepared)
	if err != nil {
		errors.WriteError(w, h.logger, errors.Wrap(err, errors.CodeInternal, "chart rendering failed"), requestID)
		return
	}

	h.analytics.Commit(prepared)
	h.renderer.Commit(set)

	h.logger.Info("dashboard reloaded", "request_id", requestID, "version", set.Version())
	errors.WriteSuccess(w, h.stats())
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.stats())
}

func (h *APIHandlers) stats() map[string]any {
	stats := h.analytics.Stats()
	stats["chart_version"] = h.renderer.Version()

	available := make([]string, 0, len(charts.Names))
	for _, name := range charts.Names {
		if h.renderer.Available(name) {
			available = append(available, name)
		}
	}
	stats["charts"] = available
	return stats
}
