package templates

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

func render(t *testing.T, view DashboardView) string {
	t.Helper()
	var b strings.Builder
	if err := Dashboard(view).Render(context.Background(), &b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return b.String()
}

func testView() DashboardView {
	start := time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2019, time.March, 30, 0, 0, 0, 0, time.UTC)
	sel := models.FilterSelection{
		StartDate:     start,
		EndDate:       end,
		Cities:        []string{"Yangon"},
		CustomerTypes: []string{"Member", "Normal"},
		Genders:       []string{"Female", "Male"},
	}
	return DashboardView{
		Options: models.FilterOptions{
			Cities:        []string{"Yangon", "Naypyitaw", "Mandalay"},
			CustomerTypes: []string{"Member", "Normal"},
			Genders:       []string{"Female", "Male"},
			MinDate:       start,
			MaxDate:       end,
		},
		Selection: sel,
		Report: &models.Report{
			Selection: sel,
			KPIs: models.KPISummary{
				TotalSales:       106200,
				AverageRating:    7.5,
				StarRating:       strings.Repeat("⭐", 7) + "½",
				AverageSale:      decimal.RequireFromString("312.4"),
				TotalGrossIncome: decimal.RequireFromString("5057.03"),
				Transactions:     340,
			},
		},
	}
}

func TestDashboard(t *testing.T) {
	body := render(t, testView())

	expected := []string{
		"<title>Sales Performance</title>",
		"Please Filter Here:",
		"US $ 106,200",
		"⭐⭐⭐⭐⭐⭐⭐½ 7.5",
		"US $ 5,057.03",
		"US $ 312.4",
		`id="kpis"`,
		`id="charts"`,
		`id="warning" hidden`,
		"/charts/daily.svg?",
		"data-on:change",
	}
	for _, want := range expected {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard should contain %q", want)
		}
	}

	if strings.Contains(body, NoDataMessage) {
		t.Error("dashboard with data should not show the empty warning")
	}
}

func TestDashboard_Empty(t *testing.T) {
	view := testView()
	view.Report = nil
	view.Selection.Genders = []string{}

	body := render(t, view)

	if !strings.Contains(body, NoDataMessage) {
		t.Error("empty dashboard should show the warning")
	}
	if strings.Contains(body, "US $") {
		t.Error("empty dashboard should not show KPIs")
	}
	if strings.Contains(body, "<img") {
		t.Error("empty dashboard should not show charts")
	}
}

func TestSidebar_SelectedOptions(t *testing.T) {
	view := testView()
	var b strings.Builder
	if err := Sidebar(view.Options, view.Selection).Render(context.Background(), &b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	body := b.String()

	if !strings.Contains(body, `<option value="Yangon" selected>`) {
		t.Error("selected city should be marked selected")
	}
	if !strings.Contains(body, `<option value="Mandalay">`) {
		t.Error("unselected city should be listed without selected")
	}
	if !strings.Contains(body, `value="2019-01-01"`) {
		t.Error("start date input should carry the selection")
	}
	if !strings.Contains(body, "&#34;startDate&#34;:&#34;2019-01-01&#34;") {
		t.Error("signals should be seeded with the start date")
	}
}

func TestSidebar_EscapesValues(t *testing.T) {
	opts := models.FilterOptions{Cities: []string{`<script>alert("x")</script>`}}
	var b strings.Builder
	if err := Sidebar(opts, models.FilterSelection{}).Render(context.Background(), &b); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(b.String(), "<script>alert") {
		t.Error("option values must be escaped")
	}
}

func TestSignalsFor_EmptySets(t *testing.T) {
	s := SignalsFor(models.FilterSelection{})
	if s.Cities == nil || s.CustomerTypes == nil || s.Genders == nil {
		t.Error("SignalsFor() should never produce nil sets")
	}
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{FormatInt(0), "0"},
		{FormatInt(999), "999"},
		{FormatInt(1000), "1,000"},
		{FormatInt(322966), "322,966"},
		{FormatInt(1234567), "1,234,567"},
		{FormatInt(-4500), "-4,500"},
		{FormatMoney(decimal.RequireFromString("15379.369"), 2), "15,379.37"},
		{FormatMoney(decimal.RequireFromString("12"), 2), "12.00"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestKPIDisplay(t *testing.T) {
	display := KPIDisplay(testView().Report.KPIs)
	if display["total_sales"] != "US $ 106,200" {
		t.Errorf("total_sales = %q", display["total_sales"])
	}
	if display["average_sale"] != "US $ 312.4" {
		t.Errorf("average_sale = %q", display["average_sale"])
	}
}

func TestFragments_OnlyPatchTargets(t *testing.T) {
	tests := []struct {
		name   string
		c      templ.Component
		prefix string
	}{
		{"kpis", KPIs(testView().Report.KPIs), `<section id="kpis"`},
		{"hidden kpis", HiddenKPIs(), `<section id="kpis"`},
		{"charts", Charts(testView().Selection), `<section id="charts"`},
		{"hidden charts", HiddenCharts(), `<section id="charts"`},
		{"warning", Warning(true), `<div id="warning"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			if err := tt.c.Render(context.Background(), &b); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			body := b.String()
			if !strings.HasPrefix(body, tt.prefix) {
				t.Errorf("fragment should start with %q, got %q", tt.prefix, body)
			}
			closing := "</section>"
			if tt.name == "warning" {
				closing = "</div>"
			}
			if !strings.HasSuffix(body, closing) {
				t.Errorf("fragment should end with %q, got %q", closing, body)
			}
		})
	}
}

func TestDashboard_RuleBetweenKPIsAndCharts(t *testing.T) {
	for _, view := range []DashboardView{testView(), {Options: testView().Options}} {
		body := render(t, view)
		if !strings.Contains(body, "</section><hr><section id=\"charts\"") {
			t.Errorf("dashboard should separate kpis and charts with a rule, report=%v", view.Report != nil)
		}
	}
}
