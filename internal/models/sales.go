package models

import (
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// Money figures go out as JSON numbers, like every other KPI.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the wire format for calendar dates in queries, signals and JSON.
const DateLayout = "2006-01-02"

type SalesRecord struct {
	Row          int
	InvoiceID    string
	Branch       string
	Date         time.Time
	Hour         int
	City         string
	CustomerType string
	Gender       string
	ProductLine  string
	UnitPrice    float64
	Quantity     int
	Total        float64
	Rating       float64
	GrossIncome  float64
	Payment      string
}

// FilterSelection is built fresh for every interaction. A nil slice never
// reaches the filter; an empty one selects nothing.
type FilterSelection struct {
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Cities        []string  `json:"cities"`
	CustomerTypes []string  `json:"customer_types"`
	Genders       []string  `json:"genders"`
}

// Values encodes the selection as query parameters understood by the API and chart routes.
func (s FilterSelection) Values() url.Values {
	v := url.Values{}
	v.Set("start", s.StartDate.Format(DateLayout))
	v.Set("end", s.EndDate.Format(DateLayout))
	encodeSet(v, "city", s.Cities)
	encodeSet(v, "customer_type", s.CustomerTypes)
	encodeSet(v, "gender", s.Genders)
	return v
}

func encodeSet(v url.Values, key string, values []string) {
	if len(values) == 0 {
		v.Set(key, "")
		return
	}
	for _, value := range values {
		v.Add(key, value)
	}
}

type FilterOptions struct {
	Cities        []string  `json:"cities"`
	CustomerTypes []string  `json:"customer_types"`
	Genders       []string  `json:"genders"`
	ProductLines  []string  `json:"product_lines"`
	MinDate       time.Time `json:"min_date"`
	MaxDate       time.Time `json:"max_date"`
}

type KPISummary struct {
	TotalSales       int64           `json:"total_sales"`
	AverageRating    float64         `json:"average_rating"`
	StarRating       string          `json:"star_rating"`
	AverageSale      decimal.Decimal `json:"average_sale"`
	TotalGrossIncome decimal.Decimal `json:"total_gross_income"`
	Transactions     int             `json:"transactions"`
}

type ProductLineTotal struct {
	ProductLine string          `json:"product_line"`
	Total       decimal.Decimal `json:"total"`
}

type HourTotal struct {
	Hour  int             `json:"hour"`
	Total decimal.Decimal `json:"total"`
}

type DayTotal struct {
	Date  time.Time       `json:"date"`
	Total decimal.Decimal `json:"total"`
}

type Report struct {
	Selection     FilterSelection    `json:"selection"`
	KPIs          KPISummary         `json:"kpis"`
	ByProductLine []ProductLineTotal `json:"by_product_line"`
	ByHour        []HourTotal        `json:"by_hour"`
	ByDay         []DayTotal         `json:"by_day"`
}
