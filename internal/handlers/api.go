package handlers

import (
	goerrors "errors"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const (
	optionsCacheControl = "public, max-age=300"
	reportCacheControl  = "no-cache"
)

// EmptyResult is returned with 200 when a selection matches no records.
type EmptyResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

var emptyResult = EmptyResult{
	Status:  services.OutcomeEmpty,
	Message: templates.NoDataMessage,
}

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *APIHandlers) HandleOptions(w http.ResponseWriter, r *http.Request) {
	headers := map[string]string{
		"Cache-Control": optionsCacheControl,
	}
	errors.WriteSuccessWithHeaders(w, h.analytics.Options(), headers)
}

type summaryResponse struct {
	Selection models.FilterSelection `json:"selection"`
	KPIs      models.KPISummary      `json:"kpis"`
	Display   map[string]string      `json:"display"`
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, func(report *models.Report) any {
		return summaryResponse{
			Selection: report.Selection,
			KPIs:      report.KPIs,
			Display:   templates.KPIDisplay(report.KPIs),
		}
	})
}

func (h *APIHandlers) HandleSalesByProductLine(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, func(report *models.Report) any {
		return report.ByProductLine
	})
}

func (h *APIHandlers) HandleSalesByHour(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, func(report *models.Report) any {
		return report.ByHour
	})
}

func (h *APIHandlers) HandleSalesByDay(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, func(report *models.Report) any {
		return report.ByDay
	})
}

func (h *APIHandlers) serveReport(w http.ResponseWriter, r *http.Request, pick func(*models.Report) any) {
	requestID := observability.GetRequestID(r.Context())

	sel, err := SelectionFromQuery(r.URL.Query(), h.analytics.DefaultSelection())
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	report, err := h.analytics.Run(r.Context(), sel)
	headers := map[string]string{
		"Cache-Control": reportCacheControl,
	}
	switch {
	case goerrors.Is(err, services.ErrNoData):
		errors.WriteSuccessWithHeaders(w, emptyResult, headers)
	case err != nil:
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Failed to aggregate sales"), requestID)
	default:
		errors.WriteSuccessWithHeaders(w, pick(report), headers)
	}
}

// HandleNotFound answers unknown API paths with the JSON error envelope.
func (h *APIHandlers) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	err := errors.NotFound("Unknown API endpoint")
	err.Details = r.URL.Path
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
		"records":   h.analytics.Dataset().Len(),
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
