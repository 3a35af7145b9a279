package api

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/taskly/tasks-api/internal/domain"
)

// Accepted layouts for created_from and created_to. Layouts without a zone
// are read as UTC. Fractional seconds are accepted after the seconds field
// of either datetime layout.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

const timestampHint = "Datetime has wrong format. Use one of these formats instead: " +
	"YYYY-MM-DDThh:mm:ss[.uuuuuu][+HH:MM|-HH:MM|Z], YYYY-MM-DD."

// parseTaskQuery reads the list filters from the query string. Every
// malformed parameter is reported, each against its own field.
func parseTaskQuery(values url.Values) (domain.TaskQuery, error) {
	q := domain.TaskQuery{
		Search:   strings.TrimSpace(values.Get("search")),
		Ordering: domain.ParseOrdering(values.Get("ordering")),
	}

	var errs []error

	if raw := strings.TrimSpace(values.Get("is_completed")); raw != "" {
		b, ok := parseBool(raw)
		if ok {
			q.IsCompleted = &b
		} else {
			errs = append(errs, domain.NewValidationError("is_completed", "Must be a valid boolean.", domain.ErrInvalidFormat))
		}
	}

	for _, bound := range []struct {
		name string
		dst  **time.Time
	}{
		{"created_from", &q.CreatedFrom},
		{"created_to", &q.CreatedTo},
	} {
		raw := strings.TrimSpace(values.Get(bound.name))
		if raw == "" {
			continue
		}
		ts, ok := parseTimestamp(raw)
		if !ok {
			errs = append(errs, domain.NewValidationError(bound.name, timestampHint, domain.ErrInvalidFormat))
			continue
		}
		*bound.dst = &ts
	}

	if len(errs) > 0 {
		return domain.TaskQuery{}, errors.Join(errs...)
	}
	return q, nil
}

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}

func parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
