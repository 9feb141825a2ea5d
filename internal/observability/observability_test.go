package observability

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sales-dashboard/internal/config"
)

func TestNewLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggerConfig{Level: "warn", Format: "json"})

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"key":"value"`) {
		t.Errorf("json output = %s", out)
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := GetRequestID(ctx); got != "req-1" {
		t.Errorf("GetRequestID() = %q, want req-1", got)
	}
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID(empty) = %q, want empty", got)
	}
}

func TestSpans(t *testing.T) {
	ctx, parent := StartSpan(context.Background(), "GET /api/summary")
	_, child := StartSpan(ctx, "pipeline.run")

	if child.TraceID != parent.TraceID {
		t.Error("child span should share the parent trace")
	}
	if child.ParentID != parent.SpanID {
		t.Error("child span should point at its parent")
	}

	child.SetTag("rows.out", "3")
	child.SetError(errors.New("boom"))
	child.Finish()

	attrs := child.LogAttrs()
	joined := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if s, ok := a.(string); ok {
			joined = append(joined, s)
		}
	}
	for _, want := range []string{"pipeline.run", "rows.out", "boom", "parent_id"} {
		found := false
		for _, s := range joined {
			if s == want {
				found = true
			}
		}
		if !found {
			t.Errorf("LogAttrs() missing %q", want)
		}
	}
	if child.Status != SpanStatusError {
		t.Errorf("Status = %s, want ERROR", child.Status)
	}
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.SetDatasetRecords(1000)
	m.RecordPipelineRun("ok")
	m.ObserveRequest("GET /health", http.MethodGet, http.StatusOK, 0)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := w.Body.String()
	for _, want := range []string{
		"sales_dashboard_dataset_records 1000",
		`sales_dashboard_pipeline_runs_total{outcome="ok"} 1`,
		"sales_dashboard_http_request_duration_seconds_bucket",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output should contain %q", want)
		}
	}
}

func TestNewMetrics_Independent(t *testing.T) {
	// each instance owns its registry, so building two must not panic
	a, b := NewMetrics(), NewMetrics()
	if a.Registry() == b.Registry() {
		t.Error("registries should be distinct")
	}
}

func TestSpan_FinishIdempotent(t *testing.T) {
	_, span := StartSpan(context.Background(), "op")
	span.Finish()
	first := span.Duration
	span.Finish()
	if span.Duration != first {
		t.Error("second Finish() should not change the duration")
	}
	if span.ParentID != "" {
		t.Error("root span should have no parent")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]string{
		"DEBUG":   "DEBUG",
		"info":    "INFO",
		"Warn":    "WARN",
		"warning": "WARN",
		"error":   "ERROR",
		"bogus":   "INFO",
		"":        "INFO",
	}
	for in, want := range tests {
		if got := parseLogLevel(in).String(); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
