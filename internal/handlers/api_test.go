package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sales-dashboard/internal/models"
)

func TestAPIHandlers_HandleOptions(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleOptions(w, httptest.NewRequest(http.MethodGet, "/api/options", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=300" {
		t.Errorf("expected cache-control 'public, max-age=300', got %q", cc)
	}

	env := decodeEnvelope(t, w)
	var opts models.FilterOptions
	if err := json.Unmarshal(env.Data, &opts); err != nil {
		t.Fatalf("decode options: %v", err)
	}
	if len(opts.Cities) != 3 {
		t.Errorf("Cities = %v, want 3 cities", opts.Cities)
	}
	if opts.MinDate.Format(models.DateLayout) != "2019-01-03" || opts.MaxDate.Format(models.DateLayout) != "2019-01-27" {
		t.Errorf("date span = %v..%v", opts.MinDate, opts.MaxDate)
	}
}

func TestAPIHandlers_HandleSummary(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleSummary(w, httptest.NewRequest(http.MethodGet, "/api/summary?city=Yangon", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected content-type 'application/json', got %q", ct)
	}

	env := decodeEnvelope(t, w)
	if !env.Success {
		t.Fatal("expected success=true in response")
	}

	var summary struct {
		KPIs    models.KPISummary `json:"kpis"`
		Display map[string]string `json:"display"`
	}
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}

	if summary.KPIs.TotalSales != 889 {
		t.Errorf("TotalSales = %d, want 889", summary.KPIs.TotalSales)
	}
	if summary.KPIs.Transactions != 2 {
		t.Errorf("Transactions = %d, want 2", summary.KPIs.Transactions)
	}
	if summary.Display["total_sales"] != "US $ 889" {
		t.Errorf("display total_sales = %q, want 'US $ 889'", summary.Display["total_sales"])
	}
}

func TestAPIHandlers_HandleSalesByProductLine(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleSalesByProductLine(w, httptest.NewRequest(http.MethodGet, "/api/sales-by-product-line", nil))

	env := decodeEnvelope(t, w)
	var totals []models.ProductLineTotal
	if err := json.Unmarshal(env.Data, &totals); err != nil {
		t.Fatalf("decode totals: %v", err)
	}

	want := []string{"Electronic accessories", "Home and lifestyle", "Health and beauty"}
	if len(totals) != len(want) {
		t.Fatalf("got %d product lines, want %d", len(totals), len(want))
	}
	for i, line := range want {
		if totals[i].ProductLine != line {
			t.Errorf("position %d = %q, want %q", i, totals[i].ProductLine, line)
		}
	}
}

func TestAPIHandlers_HandleSalesByHour(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleSalesByHour(w, httptest.NewRequest(http.MethodGet, "/api/sales-by-hour", nil))

	env := decodeEnvelope(t, w)
	var totals []models.HourTotal
	if err := json.Unmarshal(env.Data, &totals); err != nil {
		t.Fatalf("decode totals: %v", err)
	}

	hours := make([]int, len(totals))
	for i, h := range totals {
		hours[i] = h.Hour
	}
	if len(hours) != 3 || hours[0] != 10 || hours[1] != 13 || hours[2] != 20 {
		t.Errorf("hours = %v, want [10 13 20]", hours)
	}
}

func TestAPIHandlers_HandleSalesByDay(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleSalesByDay(w, httptest.NewRequest(http.MethodGet, "/api/sales-by-day?start=2019-01-04&end=2019-01-08", nil))

	env := decodeEnvelope(t, w)
	var totals []models.DayTotal
	if err := json.Unmarshal(env.Data, &totals); err != nil {
		t.Fatalf("decode totals: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("got %d days, want 2", len(totals))
	}
	if totals[0].Date.Format(models.DateLayout) != "2019-01-05" {
		t.Errorf("first day = %s, want 2019-01-05", totals[0].Date.Format(models.DateLayout))
	}
}

func TestAPIHandlers_EmptySelection(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	tests := []struct {
		name  string
		query string
	}{
		{"empty city set", "city="},
		{"no overlap", "city=Mandalay&gender=Female"},
		{"inverted range", "start=2019-01-20&end=2019-01-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handlers.HandleSummary(w, httptest.NewRequest(http.MethodGet, "/api/summary?"+tt.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
			}

			env := decodeEnvelope(t, w)
			var empty EmptyResult
			if err := json.Unmarshal(env.Data, &empty); err != nil {
				t.Fatalf("decode empty result: %v", err)
			}
			if empty.Status != "empty" {
				t.Errorf("status = %q, want 'empty'", empty.Status)
			}
			if empty.Message != "No data available based on the current filter settings!" {
				t.Errorf("message = %q", empty.Message)
			}
		})
	}
}

func TestAPIHandlers_BadDate(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleSalesByHour(w, httptest.NewRequest(http.MethodGet, "/api/sales-by-hour?start=2019/01/01", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	env := decodeEnvelope(t, w)
	if env.Success {
		t.Error("expected success=false in response")
	}
	if env.Error == nil || env.Error.Code != "BAD_REQUEST" {
		t.Fatalf("expected BAD_REQUEST error, got %+v", env.Error)
	}
	if !strings.Contains(env.Error.Details, "start") {
		t.Errorf("details should name the parameter, got %q", env.Error.Details)
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	env := decodeEnvelope(t, w)
	var health map[string]any
	if err := json.Unmarshal(env.Data, &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", health["status"])
	}
	if health["records"] != float64(4) {
		t.Errorf("records = %v, want 4", health["records"])
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleStats(w, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))

	env := decodeEnvelope(t, w)
	var stats map[string]any
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats["record_count"] != float64(4) {
		t.Errorf("record_count = %v, want 4", stats["record_count"])
	}
}

func BenchmarkAPIHandlers_HandleSummary(b *testing.B) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)

	for b.Loop() {
		handlers.HandleSummary(httptest.NewRecorder(), req)
	}
}
