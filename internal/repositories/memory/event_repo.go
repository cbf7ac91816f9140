// Package memory holds in-memory implementations of the repository
// interfaces, honoring the same contracts as the Postgres/Redis ones. They
// back the service and handler tests and make the stack runnable without
// external services.
package memory

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/controlx/backoffice/internal/models"
	"github.com/controlx/backoffice/internal/repositories"
	"github.com/google/uuid"
)

type EventRepo struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]models.Event
}

func NewEventRepo() *EventRepo {
	return &EventRepo{byID: make(map[uuid.UUID]models.Event)}
}

func (r *EventRepo) Create(ctx context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event.ID = uuid.New()
	event.UpdatedAt = time.Now()
	r.byID[event.ID] = *event
	return nil
}

func (r *EventRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &e, nil
}

// eventLess orders by (fecha_inicio ASC, id ASC), the listing's fixed sort.
func eventLess(a, b models.Event) bool {
	if !a.FechaEvento.Start.Equal(b.FechaEvento.Start) {
		return a.FechaEvento.Start.Before(b.FechaEvento.Start)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

func (r *EventRepo) ListPaginated(ctx context.Context, filter repositories.EventFilter, pageSize int, cursorToken string) (*repositories.EventPage, error) {
	if pageSize <= 0 {
		pageSize = 20
	}

	var afterStart time.Time
	var afterID uuid.UUID
	if cursorToken != "" {
		var err error
		afterStart, afterID, err = repositories.DecodeCursor(cursorToken)
		if err != nil {
			return nil, err
		}
	}

	r.mu.RLock()
	matching := make([]models.Event, 0)
	for _, e := range r.byID {
		if filter.StatusActive() && string(e.Estado) != filter.Status {
			continue
		}
		if filter.ClientActive() && e.Cliente != filter.Client {
			continue
		}
		matching = append(matching, e)
	}
	r.mu.RUnlock()

	sort.Slice(matching, func(i, j int) bool { return eventLess(matching[i], matching[j]) })

	if cursorToken != "" {
		after := models.Event{ID: afterID, FechaEvento: models.DateRange{Start: afterStart}}
		i := sort.Search(len(matching), func(i int) bool { return eventLess(after, matching[i]) })
		matching = matching[i:]
	}

	if len(matching) > pageSize {
		matching = matching[:pageSize]
	}

	events := make([]*models.Event, len(matching))
	for i := range matching {
		e := matching[i]
		events[i] = &e
	}

	page := &repositories.EventPage{
		Events:  events,
		HasMore: len(events) == pageSize,
	}
	if len(events) > 0 {
		last := events[len(events)-1]
		page.NextCursor = repositories.EncodeCursor(last.FechaEvento.Start, last.ID)
	}
	return page, nil
}

func (r *EventRepo) ListByUpdatedDesc(ctx context.Context) ([]*models.Event, error) {
	r.mu.RLock()
	out := make([]*models.Event, 0, len(r.byID))
	for _, e := range r.byID {
		e := e
		out = append(out, &e)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *EventRepo) DistinctClients(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	seen := make(map[string]struct{})
	for _, e := range r.byID {
		seen[e.Cliente] = struct{}{}
	}
	r.mu.RUnlock()

	clients := make([]string, 0, len(seen))
	for c := range seen {
		clients = append(clients, c)
	}
	sort.Strings(clients)
	return clients, nil
}

func (r *EventRepo) Update(ctx context.Context, id uuid.UUID, patch models.EventPatch) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}

	if patch.Titulo != nil {
		e.Titulo = *patch.Titulo
	}
	if patch.Cliente != nil {
		e.Cliente = *patch.Cliente
	}
	if patch.Lugar != nil {
		e.Lugar = *patch.Lugar
	}
	if patch.Estado != nil {
		e.Estado = *patch.Estado
	}
	if patch.FechaEvento != nil {
		e.FechaEvento = *patch.FechaEvento
	}
	e.UpdatedAt = time.Now()

	r.byID[id] = e
	return &e, nil
}

func (r *EventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
