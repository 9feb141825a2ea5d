package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func day(d int) time.Time {
	return time.Date(2019, time.January, d, 0, 0, 0, 0, time.UTC)
}

func createTestAnalytics() *services.Analytics {
	records := []models.SalesRecord{
		{Row: 2, City: "Yangon", CustomerType: "Member", Gender: "Female", ProductLine: "Health and beauty", Date: day(5), Hour: 13, Total: 548.97, Rating: 9.1, GrossIncome: 26.14},
		{Row: 3, City: "Naypyitaw", CustomerType: "Normal", Gender: "Female", ProductLine: "Electronic accessories", Date: day(8), Hour: 10, Total: 80.22, Rating: 9.6, GrossIncome: 3.82},
		{Row: 4, City: "Yangon", CustomerType: "Normal", Gender: "Male", ProductLine: "Home and lifestyle", Date: day(3), Hour: 13, Total: 340.53, Rating: 7.4, GrossIncome: 16.22},
		{Row: 5, City: "Mandalay", CustomerType: "Member", Gender: "Male", ProductLine: "Health and beauty", Date: day(27), Hour: 20, Total: 489.05, Rating: 8.4, GrossIncome: 23.29},
	}
	return services.NewAnalytics(dataset.New(records), testLogger(), nil)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	return env
}
