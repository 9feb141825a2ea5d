package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
)

const (
	batchSize  = 5000
	maxWorkers = 10
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrMalformedRow  = errors.New("malformed row")
	ErrEmptyDataset  = errors.New("dataset has no rows")
)

// Source columns after renaming.
const (
	colDate         = "Date"
	colTime         = "Time"
	colCity         = "City"
	colCustomerType = "Customer_type"
	colGender       = "Gender"
	colProductLine  = "Product_line"
	colUnitPrice    = "Unit_price"
	colQuantity     = "Quantity"
	colTotal        = "Total"
	colRating       = "Rating"
	colGrossIncome  = "Gross_Income"
	colInvoiceID    = "Invoice_ID"
	colBranch       = "Branch"
	colPayment      = "Payment"
)

var requiredColumns = []string{
	colDate, colTime, colCity, colCustomerType, colGender, colProductLine,
	colUnitPrice, colQuantity, colTotal, colRating, colGrossIncome,
}

var columnAliases = map[string]string{
	"Customer type": colCustomerType,
	"gross income":  colGrossIncome,
}

var DefaultDateLayouts = []string{"1/2/2006", "2006-01-02"}

type Options struct {
	// CacheDir holds parsed snapshots. Empty disables the cache.
	CacheDir    string
	DateLayouts []string
	Delimiter   rune
	Workers     int
	Logger      *slog.Logger
}

func (o Options) withDefaults() Options {
	if len(o.DateLayouts) == 0 {
		o.DateLayouts = DefaultDateLayouts
	}
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	if o.Workers <= 0 {
		o.Workers = maxWorkers
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Load reads the delimited file at path into a Dataset. Any missing column or
// unparseable row fails the whole load.
func Load(ctx context.Context, path string, opts Options) (*Dataset, error) {
	opts = opts.withDefaults()
	logger := opts.Logger

	if opts.CacheDir != "" {
		if snap, err := loadSnapshot(opts.CacheDir, path); err == nil {
			fileInfo, err := os.Stat(path)
			if err == nil && fileInfo.ModTime().Before(snap.BuiltAt) {
				ds := New(snap.Records)
				ds.source = path
				ds.fromCache = true
				logger.Info("loaded dataset from cache", "records", ds.Len(), "source", path)
				return ds, nil
			}
		}
	}

	start := time.Now()
	logger.Info("processing CSV file", "filename", path)

	records, err := readRecords(ctx, path, opts)
	if err != nil {
		return nil, err
	}

	ds := New(records)
	ds.source = path

	if opts.CacheDir != "" {
		if err := saveSnapshot(opts.CacheDir, path, records); err != nil {
			logger.Warn("failed to save cache", "error", err)
		}
	}

	duration := time.Since(start)
	logger.Info("csv processing complete",
		"records", len(records),
		"duration", duration,
		"rate", fmt.Sprintf("%.0f records/sec", float64(len(records))/duration.Seconds()))

	return ds, nil
}

func readRecords(ctx context.Context, path string, opts Options) ([]models.SalesRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	if err := checkHeader(file, opts.Delimiter); err != nil {
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind file: %w", err)
	}

	df := dataframe.ReadCSV(file,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithDelimiter(opts.Delimiter),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read csv: %w", df.Err)
	}

	df, err = normalizeColumns(df)
	if err != nil {
		return nil, err
	}

	cols := make(map[string][]string, len(requiredColumns)+3)
	for _, name := range df.Names() {
		cols[name] = df.Col(name).Records()
	}

	n := df.Nrow()
	records := make([]models.SalesRecord, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for lo := 0; lo < n; lo += batchSize {
		hi := min(lo+batchSize, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				rec, err := parseRow(cols, i, opts.DateLayouts)
				if err != nil {
					// header is line 1
					return fmt.Errorf("%w: line %d: %v", ErrMalformedRow, i+2, err)
				}
				records[i] = rec
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}

// checkHeader reads the header and at most one data row. gota refuses a
// header-only file with an opaque error, so missing columns and the empty
// dataset are reported here first.
func checkHeader(r io.Reader, delimiter rune) error {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return ErrEmptyDataset
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	names := make([]string, len(header))
	for i, name := range header {
		names[i] = normalizeColumnName(name)
	}
	if err := requireColumns(names); err != nil {
		return err
	}

	if _, err := cr.Read(); errors.Is(err, io.EOF) {
		return ErrEmptyDataset
	}
	return nil
}

// normalizeColumns renames headers with embedded spaces to identifier-safe
// names and checks that every required column is present.
func normalizeColumns(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	for _, name := range df.Names() {
		normalized := normalizeColumnName(name)
		if normalized == name {
			continue
		}
		df = df.Rename(normalized, name)
		if df.Err != nil {
			return df, fmt.Errorf("rename column %q: %w", name, df.Err)
		}
	}

	return df, requireColumns(df.Names())
}

func requireColumns(names []string) error {
	present := make(map[string]bool, len(names))
	for _, name := range names {
		present[name] = true
	}
	for _, name := range requiredColumns {
		if !present[name] {
			return fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}
	return nil
}

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	if alias, ok := columnAliases[name]; ok {
		return alias
	}
	return strings.ReplaceAll(name, " ", "_")
}

func parseRow(cols map[string][]string, i int, dateLayouts []string) (models.SalesRecord, error) {
	field := func(name string) string {
		values, ok := cols[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(values[i])
	}

	date, err := parseDate(field(colDate), dateLayouts)
	if err != nil {
		return models.SalesRecord{}, err
	}

	hour, err := parseHour(field(colTime))
	if err != nil {
		return models.SalesRecord{}, err
	}

	unitPrice, err := parseFloat(colUnitPrice, field(colUnitPrice))
	if err != nil {
		return models.SalesRecord{}, err
	}

	quantity, err := strconv.Atoi(field(colQuantity))
	if err != nil {
		return models.SalesRecord{}, fmt.Errorf("%s: %w", colQuantity, err)
	}

	total, err := parseFloat(colTotal, field(colTotal))
	if err != nil {
		return models.SalesRecord{}, err
	}

	rating, err := parseFloat(colRating, field(colRating))
	if err != nil {
		return models.SalesRecord{}, err
	}

	grossIncome, err := parseFloat(colGrossIncome, field(colGrossIncome))
	if err != nil {
		return models.SalesRecord{}, err
	}

	rec := models.SalesRecord{
		Row:          i + 2,
		InvoiceID:    field(colInvoiceID),
		Branch:       field(colBranch),
		Date:         date,
		Hour:         hour,
		City:         field(colCity),
		CustomerType: field(colCustomerType),
		Gender:       field(colGender),
		ProductLine:  field(colProductLine),
		UnitPrice:    unitPrice,
		Quantity:     quantity,
		Total:        total,
		Rating:       rating,
		GrossIncome:  grossIncome,
		Payment:      field(colPayment),
	}

	for name, value := range map[string]string{
		colCity:         rec.City,
		colCustomerType: rec.CustomerType,
		colGender:       rec.Gender,
		colProductLine:  rec.ProductLine,
	} {
		if value == "" {
			return models.SalesRecord{}, fmt.Errorf("%s: empty value", name)
		}
	}

	return rec, nil
}

func parseDate(value string, layouts []string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%s: cannot parse %q", colDate, value)
}

func parseHour(value string) (int, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Hour(), nil
		}
	}
	return 0, fmt.Errorf("%s: cannot parse %q as HH:MM", colTime, value)
}

func parseFloat(name, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	// ParseFloat accepts NaN and Inf, and gota turns NA into NaN.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s: %q is not a finite number", name, value)
	}
	return f, nil
}
