package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChartHandlers(t *testing.T) {
	handlers := NewChartHandlers(createTestAnalytics(), testLogger())

	routes := []struct {
		path    string
		handler http.HandlerFunc
	}{
		{"/charts/product-line.svg", handlers.HandleProductLine},
		{"/charts/hourly.svg", handlers.HandleHourly},
		{"/charts/daily.svg", handlers.HandleDaily},
	}

	for _, route := range routes {
		t.Run(route.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			route.handler(w, httptest.NewRequest(http.MethodGet, route.path+"?city=Yangon", nil))

			if w.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
				t.Errorf("content-type = %q, want image/svg+xml", ct)
			}
			if !strings.Contains(w.Body.String(), "<svg") {
				t.Error("body should be an SVG document")
			}
		})
	}
}

func TestChartHandlers_Empty(t *testing.T) {
	handlers := NewChartHandlers(createTestAnalytics(), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleDaily(w, httptest.NewRequest(http.MethodGet, "/charts/daily.svg?customer_type=", nil))

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	if w.Body.Len() != 0 {
		t.Error("empty selection should not draw a chart")
	}
}

func TestChartHandlers_BadDate(t *testing.T) {
	handlers := NewChartHandlers(createTestAnalytics(), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleHourly(w, httptest.NewRequest(http.MethodGet, "/charts/hourly.svg?end=soon", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}
