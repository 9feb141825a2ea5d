package templates

import (
	"encoding/json"
	"strconv"
	"time"

	"sales-dashboard/internal/models"
)

const (
	PageTitle     = "Sales Performance"
	NoDataMessage = "No data available based on the current filter settings!"
)

// DashboardView is everything the page needs. A nil Report means the current
// selection matched no records.
type DashboardView struct {
	Options   models.FilterOptions
	Selection models.FilterSelection
	Report    *models.Report
}

// Signals mirrors the datastar signal names bound by the sidebar.
type Signals struct {
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate"`
	Cities        []string `json:"cities"`
	CustomerTypes []string `json:"customerTypes"`
	Genders       []string `json:"genders"`
}

func SignalsFor(sel models.FilterSelection) Signals {
	return Signals{
		StartDate:     formatDate(sel.StartDate),
		EndDate:       formatDate(sel.EndDate),
		Cities:        nonNil(sel.Cities),
		CustomerTypes: nonNil(sel.CustomerTypes),
		Genders:       nonNil(sel.Genders),
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func signalsJSON(sel models.FilterSelection) (string, error) {
	b, err := json.Marshal(SignalsFor(sel))
	return string(b), err
}

func formatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}

// chartSrc points a chart image at its SVG route for the same selection.
func chartSrc(name string, sel models.FilterSelection) string {
	return "/charts/" + name + ".svg?" + sel.Values().Encode()
}

var kpiOrder = []struct{ key, label string }{
	{"total_sales", "Total Sales:"},
	{"average_rating", "Average Rating:"},
	{"total_gross_income", "Total Gross Income:"},
	{"average_sale", "Average Sales Per Transaction:"},
}

// KPIDisplay formats the headline figures the way the page shows them.
func KPIDisplay(kpis models.KPISummary) map[string]string {
	return map[string]string{
		"total_sales":        "US $ " + FormatInt(kpis.TotalSales),
		"average_rating":     kpis.StarRating + " " + strconv.FormatFloat(kpis.AverageRating, 'f', 1, 64),
		"total_gross_income": "US $ " + FormatMoney(kpis.TotalGrossIncome, 2),
		"average_sale":       "US $ " + kpis.AverageSale.StringFixed(1),
	}
}
