package services

import (
	"errors"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"sales-dashboard/internal/models"
)

const (
	starGlyph     = "⭐"
	halfStarGlyph = "½"
)

// ErrNoData marks a selection that matched no records. It is a state, not a failure.
var ErrNoData = errors.New("no data available based on the current filter settings")

// Summarize computes the KPI blocks for a non-empty view.
func Summarize(view []models.SalesRecord) (models.KPISummary, error) {
	if len(view) == 0 {
		return models.KPISummary{}, ErrNoData
	}

	var total, rating, grossIncome decimal.Decimal
	for _, rec := range view {
		total = total.Add(decimal.NewFromFloat(rec.Total))
		rating = rating.Add(decimal.NewFromFloat(rec.Rating))
		grossIncome = grossIncome.Add(decimal.NewFromFloat(rec.GrossIncome))
	}

	n := decimal.NewFromInt(int64(len(view)))
	averageRating := rating.Div(n).Round(1).InexactFloat64()

	return models.KPISummary{
		TotalSales:       total.IntPart(),
		AverageRating:    averageRating,
		StarRating:       StarRating(averageRating),
		AverageSale:      total.Div(n).Round(1),
		TotalGrossIncome: grossIncome.Round(2),
		Transactions:     len(view),
	}, nil
}

// StarRating renders floor(avg) stars plus a half star when the fractional
// part is at least 0.5.
func StarRating(avg float64) string {
	if avg <= 0 || math.IsNaN(avg) {
		return ""
	}
	whole := math.Floor(avg)
	stars := strings.Repeat(starGlyph, int(whole))
	if avg-whole >= 0.5 {
		stars += halfStarGlyph
	}
	return stars
}

// SalesByProductLine sums Total per product line, ascending by sum.
func SalesByProductLine(view []models.SalesRecord) []models.ProductLineTotal {
	groups := make(map[string]decimal.Decimal)
	for _, rec := range view {
		groups[rec.ProductLine] = groups[rec.ProductLine].Add(decimal.NewFromFloat(rec.Total))
	}

	result := make([]models.ProductLineTotal, 0, len(groups))
	for line, total := range groups {
		result = append(result, models.ProductLineTotal{ProductLine: line, Total: total})
	}
	slices.SortFunc(result, func(a, b models.ProductLineTotal) int {
		if c := a.Total.Cmp(b.Total); c != 0 {
			return c
		}
		return strings.Compare(a.ProductLine, b.ProductLine)
	})
	return result
}

// SalesByHour sums Total per hour of day. Hours without sales are omitted.
func SalesByHour(view []models.SalesRecord) []models.HourTotal {
	groups := make(map[int]decimal.Decimal)
	for _, rec := range view {
		groups[rec.Hour] = groups[rec.Hour].Add(decimal.NewFromFloat(rec.Total))
	}

	result := make([]models.HourTotal, 0, len(groups))
	for hour, total := range groups {
		result = append(result, models.HourTotal{Hour: hour, Total: total})
	}
	slices.SortFunc(result, func(a, b models.HourTotal) int {
		return a.Hour - b.Hour
	})
	return result
}

// SalesByDay sums Total per calendar day, one entry per day with at least one record.
func SalesByDay(view []models.SalesRecord) []models.DayTotal {
	groups := make(map[time.Time]decimal.Decimal)
	for _, rec := range view {
		day := CalendarDate(rec.Date)
		groups[day] = groups[day].Add(decimal.NewFromFloat(rec.Total))
	}

	result := make([]models.DayTotal, 0, len(groups))
	for day, total := range groups {
		result = append(result, models.DayTotal{Date: day, Total: total})
	}
	slices.SortFunc(result, func(a, b models.DayTotal) int {
		return a.Date.Compare(b.Date)
	})
	return result
}
