package services

import (
	"time"

	"sales-dashboard/internal/models"
)

// Filter returns every record satisfying all five predicates of sel. Values
// within a set are OR-combined, the predicates are AND-combined and both date
// bounds are inclusive. An empty set matches nothing.
func Filter(records []models.SalesRecord, sel models.FilterSelection) []models.SalesRecord {
	cities := toSet(sel.Cities)
	customerTypes := toSet(sel.CustomerTypes)
	genders := toSet(sel.Genders)
	start := CalendarDate(sel.StartDate)
	end := CalendarDate(sel.EndDate)

	view := make([]models.SalesRecord, 0, len(records))
	for _, rec := range records {
		if !cities[rec.City] || !customerTypes[rec.CustomerType] || !genders[rec.Gender] {
			continue
		}
		if rec.Date.Before(start) || rec.Date.After(end) {
			continue
		}
		view = append(view, rec)
	}
	return view
}

// CalendarDate drops the clock and location of t.
func CalendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
