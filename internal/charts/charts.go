// Package charts renders the dashboard charts as SVG.
package charts

import (
	"errors"
	"io"
	"math"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"sales-dashboard/internal/models"
)

const (
	chartHeight  = 400
	minWidth     = 480
	dailyWidth   = 960
	maxDateTicks = 8
)

var (
	barColor    = drawing.ColorFromHex("0083B8")
	markerColor = drawing.ColorFromHex("FF5733")
)

var ErrNoSeries = errors.New("charts: nothing to plot")

func barStyle() chart.Style {
	return chart.Style{
		FillColor:   barColor,
		StrokeColor: barColor,
		StrokeWidth: 1,
	}
}

// ProductLine draws total sales per product line in the order given
// (ascending by total).
func ProductLine(w io.Writer, totals []models.ProductLineTotal) error {
	if len(totals) == 0 {
		return ErrNoSeries
	}

	bars := make([]chart.Value, 0, len(totals))
	maxValue := 0.0
	for _, t := range totals {
		value := t.Total.InexactFloat64()
		maxValue = math.Max(maxValue, value)
		bars = append(bars, chart.Value{Label: t.ProductLine, Value: value, Style: barStyle()})
	}

	return renderBars(w, "Sales by Product Line", bars, maxValue, 60, 30)
}

// Hourly draws total sales per hour of day. Only hours with sales appear.
func Hourly(w io.Writer, totals []models.HourTotal) error {
	if len(totals) == 0 {
		return ErrNoSeries
	}

	bars := make([]chart.Value, 0, len(totals))
	maxValue := 0.0
	for _, t := range totals {
		value := t.Total.InexactFloat64()
		maxValue = math.Max(maxValue, value)
		bars = append(bars, chart.Value{Label: strconv.Itoa(t.Hour), Value: value, Style: barStyle()})
	}

	return renderBars(w, "Sales by hour", bars, maxValue, 28, 12)
}

func renderBars(w io.Writer, title string, bars []chart.Value, maxValue float64, barWidth, spacing int) error {
	width := max(minWidth, len(bars)*(barWidth+spacing)+160)

	bc := chart.BarChart{
		Title:      title,
		Width:      width,
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: axisMax(maxValue)},
		},
		Bars: bars,
	}
	return bc.Render(chart.SVG, w)
}

// Daily draws total sales per day as a line with markers.
func Daily(w io.Writer, totals []models.DayTotal) error {
	if len(totals) == 0 {
		return ErrNoSeries
	}

	xs := make([]time.Time, len(totals))
	ys := make([]float64, len(totals))
	maxValue := 0.0
	for i, t := range totals {
		xs[i] = t.Date
		ys[i] = t.Total.InexactFloat64()
		maxValue = math.Max(maxValue, ys[i])
	}

	// pad half a day on each side so a single day still has a non-zero x range
	first := xs[0].Add(-12 * time.Hour)
	last := xs[len(xs)-1].Add(12 * time.Hour)

	graph := chart.Chart{
		Title:      "Sales Over Time",
		Width:      dailyWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 24, Bottom: 24}},
		XAxis: chart.XAxis{
			Name:  "Date",
			Range: &chart.ContinuousRange{Min: chart.TimeToFloat64(first), Max: chart.TimeToFloat64(last)},
			Ticks: dateTicks(xs),
		},
		YAxis: chart.YAxis{
			Name:  "Total",
			Range: &chart.ContinuousRange{Min: 0, Max: axisMax(maxValue)},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Total",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: barColor,
					StrokeWidth: 2,
					DotColor:    markerColor,
					DotWidth:    4,
				},
			},
		},
	}
	return graph.Render(chart.SVG, w)
}

func dateTicks(days []time.Time) []chart.Tick {
	step := max(1, int(math.Ceil(float64(len(days))/maxDateTicks)))
	ticks := make([]chart.Tick, 0, maxDateTicks+1)
	for i := 0; i < len(days); i += step {
		ticks = append(ticks, chart.Tick{
			Value: chart.TimeToFloat64(days[i]),
			Label: days[i].Format("Jan 02"),
		})
	}
	return ticks
}

func axisMax(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return math.Ceil(v + v/10)
}
