package feed

import (
	"sort"
	"strings"
	"time"

	"github.com/controlx/backoffice/internal/models"
)

// Upcoming filters to events in Confirmado or Armado whose start date is on
// or after today (00:00 UTC), sorted ascending by start. The sort is stable:
// events starting at the same instant keep their relative order.
func Upcoming(events []*models.Event, now time.Time) []*models.Event {
	today := now.UTC().Truncate(24 * time.Hour)

	out := make([]*models.Event, 0)
	for _, e := range events {
		if e.Estado != models.StatusConfirmed && e.Estado != models.StatusSetup {
			continue
		}
		if e.FechaEvento.Start.Before(today) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FechaEvento.Start.Before(out[j].FechaEvento.Start)
	})
	return out
}

// FilterBySearch keeps events whose title, client or venue contains the
// query, case-insensitively. It only narrows the already-fetched list; the
// server-side filters stay in effect underneath. Empty query returns the
// input unchanged.
func FilterBySearch(events []*models.Event, query string) []*models.Event {
	if query == "" {
		return events
	}
	q := strings.ToLower(query)

	out := make([]*models.Event, 0)
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Titulo), q) ||
			strings.Contains(strings.ToLower(e.Cliente), q) ||
			strings.Contains(strings.ToLower(e.Lugar), q) {
			out = append(out, e)
		}
	}
	return out
}

// StatusBadge maps a status to its display category. Unknown statuses fall
// into the default bucket; the four categories themselves are a data-model
// contract, not just styling.
func StatusBadge(status models.EventStatus) string {
	switch status {
	case models.StatusNegotiation:
		return "yellow"
	case models.StatusConfirmed:
		return "blue"
	case models.StatusSetup:
		return "purple"
	case models.StatusFinished:
		return "green"
	default:
		return "gray"
	}
}
