package main

import (
	"bytes"
	"context"
	goerrors "errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const renderTimeout = 10 * time.Second

// newDashboardHandler renders the full page for the selection in the query,
// falling back to every option and the full date span.
func newDashboardHandler(analytics *services.Analytics, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		requestID := observability.GetRequestID(ctx)

		sel, err := handlers.SelectionFromQuery(r.URL.Query(), analytics.DefaultSelection())
		if err != nil {
			errors.WriteError(w, logger, err, requestID)
			return
		}

		report, err := analytics.Run(ctx, sel)
		if err != nil && !goerrors.Is(err, services.ErrNoData) {
			errors.WriteError(w, logger, errors.InternalWrap(err, "Failed to aggregate sales"), requestID)
			return
		}

		view := templates.DashboardView{
			Options:   analytics.Options(),
			Selection: sel,
			Report:    report,
		}

		var buf bytes.Buffer
		if err := templates.Dashboard(view).Render(ctx, &buf); err != nil {
			errors.WriteError(w, logger, errors.InternalWrap(err, "Failed to render dashboard"), requestID)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		if _, err := buf.WriteTo(w); err != nil {
			logger.Warn("write dashboard", "error", err, "request_id", requestID)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"config", cfg,
	)

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Dataset.LoadTimeout)
	defer cancel()

	start := time.Now()
	ds, err := dataset.Load(ctx, cfg.Dataset.CSVFile, dataset.Options{
		CacheDir:    cfg.Dataset.CacheDir,
		DateLayouts: cfg.Dataset.DateLayouts,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to load sales data", "file", cfg.Dataset.CSVFile, "error", err)
		os.Exit(1)
	}
	logger.Info("sales data loaded",
		"records", ds.Len(),
		"from_cache", ds.FromCache(),
		"duration", time.Since(start),
	)

	var recorder services.PipelineRecorder
	if metrics != nil {
		metrics.SetDatasetRecords(ds.Len())
		recorder = metrics
	}
	analytics := services.NewAnalytics(ds, logger, recorder)

	templateHandlers := &server.TemplateHandlers{
		Dashboard: newDashboardHandler(analytics, logger),
	}

	srv := server.NewServer(analytics, logger, metrics, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	handler := middlewareChain(srv)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go rateLimiter.Run(sweepCtx)
	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("stopping rate limiter sweeper")
		stopSweep()
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(context.Background()); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
