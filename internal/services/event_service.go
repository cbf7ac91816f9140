package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/controlx/backoffice/internal/models"
	"github.com/controlx/backoffice/internal/realtime"
	"github.com/controlx/backoffice/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventService validates event writes and publishes a change signal after
// every committed mutation so snapshot subscribers re-read.
type EventService struct {
	repo   repositories.EventRepository
	bus    realtime.Bus
	logger *zap.Logger
}

func NewEventService(repo repositories.EventRepository, bus realtime.Bus, logger *zap.Logger) *EventService {
	return &EventService{repo: repo, bus: bus, logger: logger}
}

type CreateEventInput struct {
	Titulo      string             `json:"titulo"`
	Cliente     string             `json:"cliente"`
	Lugar       string             `json:"lugar"`
	Estado      models.EventStatus `json:"estado"`
	FechaEvento models.DateRange   `json:"fechaEvento"`
}

// Create stamps CreatedBy from the caller and lets the backend assign id
// and timestamp. No id or updatedAt may be supplied, and no password is
// involved: that requirement is user-creation only.
func (s *EventService) Create(ctx context.Context, createdBy uuid.UUID, in CreateEventInput) (*models.Event, error) {
	if strings.TrimSpace(in.Titulo) == "" {
		return nil, fmt.Errorf("%w: titulo is required", ErrValidation)
	}
	if strings.TrimSpace(in.Cliente) == "" {
		return nil, fmt.Errorf("%w: cliente is required", ErrValidation)
	}
	if in.FechaEvento.Start.IsZero() {
		return nil, fmt.Errorf("%w: fechaEvento.start is required", ErrValidation)
	}
	estado := in.Estado
	if estado == "" {
		estado = models.StatusNegotiation
	}
	if !estado.Valid() {
		return nil, fmt.Errorf("%w: unknown estado %q", ErrValidation, estado)
	}

	event := &models.Event{
		Titulo:      strings.TrimSpace(in.Titulo),
		Cliente:     strings.TrimSpace(in.Cliente),
		Lugar:       strings.TrimSpace(in.Lugar),
		Estado:      estado,
		FechaEvento: in.FechaEvento,
		CreatedBy:   createdBy,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	s.notify(ctx)
	return event, nil
}

func (s *EventService) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EventService) ListPaginated(ctx context.Context, filter repositories.EventFilter, pageSize int, cursor string) (*repositories.EventPage, error) {
	if filter.StatusActive() && !models.EventStatus(filter.Status).Valid() {
		return nil, fmt.Errorf("%w: unknown estado %q", ErrValidation, filter.Status)
	}
	return s.repo.ListPaginated(ctx, filter, pageSize, cursor)
}

// ListAll returns the full collection, most recently updated first. It
// backs the dashboard's derived views and the snapshot feed.
func (s *EventService) ListAll(ctx context.Context) ([]*models.Event, error) {
	return s.repo.ListByUpdatedDesc(ctx)
}

func (s *EventService) Clients(ctx context.Context) ([]string, error) {
	return s.repo.DistinctClients(ctx)
}

func (s *EventService) Update(ctx context.Context, id uuid.UUID, patch models.EventPatch) (*models.Event, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("%w: empty patch", ErrValidation)
	}
	if patch.Estado != nil && !patch.Estado.Valid() {
		return nil, fmt.Errorf("%w: unknown estado %q", ErrValidation, *patch.Estado)
	}
	event, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.notify(ctx)
	return event, nil
}

// UpdateStatus is the status-only mutation backing the badge dropdown.
func (s *EventService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.EventStatus) (*models.Event, error) {
	return s.Update(ctx, id, models.EventPatch{Estado: &status})
}

func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}

func (s *EventService) notify(ctx context.Context) {
	if err := s.bus.Publish(ctx, realtime.ChannelEvents); err != nil {
		// The write itself committed; subscribers catch up on the next change.
		s.logger.Warn("failed to publish event change", zap.Error(err))
	}
}
