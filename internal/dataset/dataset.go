package dataset

import (
	"slices"
	"time"

	"sales-dashboard/internal/models"
)

// Dataset is the immutable in-memory table shared by every request.
type Dataset struct {
	records   []models.SalesRecord
	options   models.FilterOptions
	source    string
	loadedAt  time.Time
	fromCache bool
}

// New builds a Dataset from already-typed records. The slice is owned by the
// Dataset afterwards.
func New(records []models.SalesRecord) *Dataset {
	return &Dataset{
		records:  records,
		options:  collectOptions(records),
		loadedAt: time.Now(),
	}
}

// Records returns the shared backing slice. Callers must treat it as read-only.
func (d *Dataset) Records() []models.SalesRecord {
	return d.records
}

func (d *Dataset) Len() int {
	return len(d.records)
}

// Options returns the value domain observed at load time.
func (d *Dataset) Options() models.FilterOptions {
	o := d.options
	o.Cities = slices.Clone(o.Cities)
	o.CustomerTypes = slices.Clone(o.CustomerTypes)
	o.Genders = slices.Clone(o.Genders)
	o.ProductLines = slices.Clone(o.ProductLines)
	return o
}

func (d *Dataset) Source() string {
	return d.source
}

func (d *Dataset) LoadedAt() time.Time {
	return d.loadedAt
}

func (d *Dataset) FromCache() bool {
	return d.fromCache
}

func collectOptions(records []models.SalesRecord) models.FilterOptions {
	var opts models.FilterOptions
	cities := make(map[string]bool)
	customerTypes := make(map[string]bool)
	genders := make(map[string]bool)
	productLines := make(map[string]bool)

	for i, rec := range records {
		opts.Cities = appendUnique(opts.Cities, cities, rec.City)
		opts.CustomerTypes = appendUnique(opts.CustomerTypes, customerTypes, rec.CustomerType)
		opts.Genders = appendUnique(opts.Genders, genders, rec.Gender)
		opts.ProductLines = appendUnique(opts.ProductLines, productLines, rec.ProductLine)

		if i == 0 || rec.Date.Before(opts.MinDate) {
			opts.MinDate = rec.Date
		}
		if i == 0 || rec.Date.After(opts.MaxDate) {
			opts.MaxDate = rec.Date
		}
	}
	return opts
}

// appendUnique keeps first-seen order, matching how the sidebar lists values.
func appendUnique(dst []string, seen map[string]bool, value string) []string {
	if seen[value] {
		return dst
	}
	seen[value] = true
	return append(dst, value)
}
