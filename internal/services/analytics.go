package services

import (
	"context"
	"log/slog"
	"strconv"

	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
)

// PipelineRecorder receives one outcome per pipeline run.
type PipelineRecorder interface {
	RecordPipelineRun(outcome string)
}

// Analytics runs the filter-aggregate pipeline against a shared, read-only dataset.
type Analytics struct {
	dataset  *dataset.Dataset
	logger   *slog.Logger
	recorder PipelineRecorder
}

func NewAnalytics(ds *dataset.Dataset, logger *slog.Logger, recorder PipelineRecorder) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{
		dataset:  ds,
		logger:   logger,
		recorder: recorder,
	}
}

func (a *Analytics) Dataset() *dataset.Dataset {
	return a.dataset
}

func (a *Analytics) Options() models.FilterOptions {
	return a.dataset.Options()
}

// DefaultSelection selects the full value domain and date span seen at load time.
func (a *Analytics) DefaultSelection() models.FilterSelection {
	opts := a.dataset.Options()
	return models.FilterSelection{
		StartDate:     opts.MinDate,
		EndDate:       opts.MaxDate,
		Cities:        opts.Cities,
		CustomerTypes: opts.CustomerTypes,
		Genders:       opts.Genders,
	}
}

// Run filters the dataset and aggregates the view. It returns ErrNoData, without
// aggregating, when the selection matches nothing.
func (a *Analytics) Run(ctx context.Context, sel models.FilterSelection) (*models.Report, error) {
	_, span := observability.StartSpan(ctx, "pipeline.run")
	defer func() {
		span.Finish()
		a.logger.Debug("span finished", span.LogAttrs()...)
	}()

	view := Filter(a.dataset.Records(), sel)
	span.SetTag("rows.in", strconv.Itoa(a.dataset.Len()))
	span.SetTag("rows.out", strconv.Itoa(len(view)))

	if len(view) == 0 {
		a.record(OutcomeEmpty)
		span.SetTag("outcome", OutcomeEmpty)
		a.logger.Debug("pipeline halted on empty selection",
			"request_id", observability.GetRequestID(ctx),
			"rows_in", a.dataset.Len(),
		)
		return nil, ErrNoData
	}

	kpis, err := Summarize(view)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	a.record(OutcomeOK)
	span.SetTag("outcome", OutcomeOK)
	a.logger.Debug("pipeline completed",
		"request_id", observability.GetRequestID(ctx),
		"rows_in", a.dataset.Len(),
		"rows_out", len(view),
	)

	return &models.Report{
		Selection:     sel,
		KPIs:          kpis,
		ByProductLine: SalesByProductLine(view),
		ByHour:        SalesByHour(view),
		ByDay:         SalesByDay(view),
	}, nil
}

func (a *Analytics) record(outcome string) {
	if a.recorder != nil {
		a.recorder.RecordPipelineRun(outcome)
	}
}

// Utility method for monitoring
func (a *Analytics) Stats() map[string]any {
	opts := a.dataset.Options()
	return map[string]any{
		"record_count":   a.dataset.Len(),
		"source":         a.dataset.Source(),
		"loaded_at":      a.dataset.LoadedAt(),
		"from_cache":     a.dataset.FromCache(),
		"cities":         len(opts.Cities),
		"customer_types": len(opts.CustomerTypes),
		"genders":        len(opts.Genders),
		"product_lines":  len(opts.ProductLines),
		"min_date":       opts.MinDate.Format(models.DateLayout),
		"max_date":       opts.MaxDate.Format(models.DateLayout),
	}
}
