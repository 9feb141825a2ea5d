package handlers

import (
	"bytes"
	goerrors "errors"
	"io"
	"log/slog"
	"net/http"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

type ChartHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewChartHandlers(analytics *services.Analytics, logger *slog.Logger) *ChartHandlers {
	return &ChartHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *ChartHandlers) HandleProductLine(w http.ResponseWriter, r *http.Request) {
	h.serveChart(w, r, func(w io.Writer, report *models.Report) error {
		return charts.ProductLine(w, report.ByProductLine)
	})
}

func (h *ChartHandlers) HandleHourly(w http.ResponseWriter, r *http.Request) {
	h.serveChart(w, r, func(w io.Writer, report *models.Report) error {
		return charts.Hourly(w, report.ByHour)
	})
}

func (h *ChartHandlers) HandleDaily(w http.ResponseWriter, r *http.Request) {
	h.serveChart(w, r, func(w io.Writer, report *models.Report) error {
		return charts.Daily(w, report.ByDay)
	})
}

// serveChart writes 204 for an empty selection so no chart is drawn.
func (h *ChartHandlers) serveChart(w http.ResponseWriter, r *http.Request, draw func(io.Writer, *models.Report) error) {
	requestID := observability.GetRequestID(r.Context())

	sel, err := SelectionFromQuery(r.URL.Query(), h.analytics.DefaultSelection())
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	report, err := h.analytics.Run(r.Context(), sel)
	if goerrors.Is(err, services.ErrNoData) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Failed to aggregate sales"), requestID)
		return
	}

	var buf bytes.Buffer
	if err := draw(&buf, report); err != nil {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Failed to render chart"), requestID)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", reportCacheControl)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("write chart", "error", err, "request_id", requestID)
	}
}
