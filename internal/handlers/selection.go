package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/ui/templates"
)

// SelectionFromQuery overlays query parameters on defaults. An absent key keeps
// the default; a present key replaces it, and "city=" alone selects nothing.
func SelectionFromQuery(q url.Values, defaults models.FilterSelection) (models.FilterSelection, error) {
	sel := defaults

	var err error
	if q.Has("start") {
		if sel.StartDate, err = parseDate("start", q.Get("start")); err != nil {
			return models.FilterSelection{}, err
		}
	}
	if q.Has("end") {
		if sel.EndDate, err = parseDate("end", q.Get("end")); err != nil {
			return models.FilterSelection{}, err
		}
	}
	if q.Has("city") {
		sel.Cities = nonEmpty(q["city"])
	}
	if q.Has("customer_type") {
		sel.CustomerTypes = nonEmpty(q["customer_type"])
	}
	if q.Has("gender") {
		sel.Genders = nonEmpty(q["gender"])
	}

	return sel, nil
}

// SelectionFromSignals reads the datastar signals carried by r. A signal that
// was not sent keeps its default.
func SelectionFromSignals(r *http.Request, defaults models.FilterSelection) (models.FilterSelection, error) {
	var signals templates.Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		return models.FilterSelection{}, errors.BadRequestWrap(err, "Invalid dashboard signals")
	}

	sel := defaults

	var err error
	if signals.StartDate != "" {
		if sel.StartDate, err = parseDate("startDate", signals.StartDate); err != nil {
			return models.FilterSelection{}, err
		}
	}
	if signals.EndDate != "" {
		if sel.EndDate, err = parseDate("endDate", signals.EndDate); err != nil {
			return models.FilterSelection{}, err
		}
	}
	if signals.Cities != nil {
		sel.Cities = nonEmpty(signals.Cities)
	}
	if signals.CustomerTypes != nil {
		sel.CustomerTypes = nonEmpty(signals.CustomerTypes)
	}
	if signals.Genders != nil {
		sel.Genders = nonEmpty(signals.Genders)
	}

	return sel, nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, errors.BadRequestf("Invalid date", "%s must be YYYY-MM-DD, got %q", field, value)
	}
	return t, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func renderHTML(ctx context.Context, c templ.Component) (string, error) {
	var b strings.Builder
	if err := c.Render(ctx, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}
