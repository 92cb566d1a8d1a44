package handlers

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"ecommerce-dashboard/internal/charts"
	"ecommerce-dashboard/internal/errors"
	"ecommerce-dashboard/internal/observability"
)

// Asset is a static file served verbatim.
type Asset struct {
	Data        []byte
	ContentType string
}

// NewAsset sniffs the content type of data.
func NewAsset(data []byte) Asset {
	return Asset{Data: data, ContentType: http.DetectContentType(data)}
}

type ChartHandlers struct {
	renderer *charts.Renderer
	mapImage Asset
	logger   *slog.Logger
}

func NewChartHandlers(renderer *charts.Renderer, mapImage Asset, logger *slog.Logger) *ChartHandlers {
	return &ChartHandlers{
		renderer: renderer,
		mapImage: mapImage,
		logger:   logger,
	}
}

func (h *ChartHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	name, ok := strings.CutSuffix(r.PathValue("name"), ".png")
	if !ok {
		errors.WriteError(w, h.logger, errors.NotFound("chart not found"), requestID)
		return
	}

	img, err := h.renderer.Get(name)
	switch {
	case stderrors.Is(err, charts.ErrUnknownChart):
		errors.WriteError(w, h.logger, errors.NotFound("chart not found"), requestID)
		return
	case stderrors.Is(err, charts.ErrNoData):
		errors.WriteError(w, h.logger, errors.ServiceUnavailable("chart has no data for the target year"), requestID)
		return
	case err != nil:
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	writeBytes(w, "image/png", cacheMaxAge, img)
}

func (h *ChartHandlers) HandleCustomerMap(w http.ResponseWriter, r *http.Request) {
	writeBytes(w, h.mapImage.ContentType, cacheMaxAge, h.mapImage.Data)
}

func writeBytes(w http.ResponseWriter, contentType, cacheControl string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", cacheControl)
	_, _ = w.Write(data)
}
