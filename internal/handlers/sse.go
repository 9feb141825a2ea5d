package handlers

import (
	"encoding/json"
	goerrors "errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// chartSignals carries the grouped series for client-side consumers.
type chartSignals struct {
	ProductLineData []models.ProductLineTotal `json:"productLineData"`
	HourlyData      []models.HourTotal        `json:"hourlyData"`
	DailyData       []models.DayTotal         `json:"dailyData"`
}

// HandleDashboard re-runs the pipeline for the sidebar signals and patches the
// warning, KPI and chart regions in one stream.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := observability.GetRequestID(ctx)

	sel, err := SelectionFromSignals(r, h.analytics.DefaultSelection())
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	report, err := h.analytics.Run(ctx, sel)
	if err != nil && !goerrors.Is(err, services.ErrNoData) {
		errors.WriteError(w, h.logger, errors.InternalWrap(err, "Failed to aggregate sales"), requestID)
		return
	}

	sse := datastar.NewSSE(w, r)

	components := []templ.Component{templates.Warning(true), templates.HiddenKPIs(), templates.HiddenCharts()}
	signals := chartSignals{
		ProductLineData: []models.ProductLineTotal{},
		HourlyData:      []models.HourTotal{},
		DailyData:       []models.DayTotal{},
	}
	if report != nil {
		components = []templ.Component{templates.Warning(false), templates.KPIs(report.KPIs), templates.Charts(sel)}
		signals = chartSignals{
			ProductLineData: report.ByProductLine,
			HourlyData:      report.ByHour,
			DailyData:       report.ByDay,
		}
	}

	for _, c := range components {
		html, err := renderHTML(ctx, c)
		if err != nil {
			h.logger.Error("render dashboard fragment", "error", err, "request_id", requestID)
			return
		}
		if err := sse.PatchElements(html); err != nil {
			h.logger.Warn("patch elements", "error", err, "request_id", requestID)
			return
		}
	}

	jsonData, err := json.Marshal(signals)
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err, "request_id", requestID)
		return
	}
	if err := sse.PatchSignals(jsonData); err != nil {
		h.logger.Warn("patch signals", "error", err, "request_id", requestID)
		return
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
