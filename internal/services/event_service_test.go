package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/controlx/backoffice/internal/models"
	"github.com/controlx/backoffice/internal/realtime"
	"github.com/controlx/backoffice/internal/repositories"
	"github.com/controlx/backoffice/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingBus counts publishes per channel.
type recordingBus struct {
	mu     sync.Mutex
	counts map[string]int
}

func newRecordingBus() *recordingBus {
	return &recordingBus{counts: make(map[string]int)}
}

func (b *recordingBus) Publish(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.counts[channel]++
	return nil
}

func (b *recordingBus) Subscribe(ctx context.Context, channel string) (<-chan struct{}, func()) {
	ch := make(chan struct{})
	close(ch)
	return ch, func() {}
}

func (b *recordingBus) count(channel string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts[channel]
}

func newTestEventService() (*EventService, *recordingBus) {
	bus := newRecordingBus()
	return NewEventService(memory.NewEventRepo(), bus, zap.NewNop()), bus
}

func validInput() CreateEventInput {
	return CreateEventInput{
		Titulo:  "Boda García",
		Cliente: "Acme",
		Lugar:   "Salón Dorado",
		Estado:  models.StatusConfirmed,
		FechaEvento: models.DateRange{
			Start: time.Date(2026, 10, 5, 20, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 10, 6, 2, 0, 0, 0, time.UTC),
		},
	}
}

func TestEventService_Create(t *testing.T) {
	svc, bus := newTestEventService()
	ctx := context.Background()
	creator := uuid.New()

	event, err := svc.Create(ctx, creator, validInput())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, creator, event.CreatedBy)
	assert.False(t, event.UpdatedAt.IsZero())
	assert.Equal(t, 1, bus.count(realtime.ChannelEvents))
}

func TestEventService_Create_DefaultsToNegotiation(t *testing.T) {
	svc, _ := newTestEventService()

	in := validInput()
	in.Estado = ""
	event, err := svc.Create(context.Background(), uuid.New(), in)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNegotiation, event.Estado)
}

func TestEventService_Create_Validation(t *testing.T) {
	svc, bus := newTestEventService()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateEventInput)
	}{
		{"missing titulo", func(in *CreateEventInput) { in.Titulo = " " }},
		{"missing cliente", func(in *CreateEventInput) { in.Cliente = "" }},
		{"missing start", func(in *CreateEventInput) { in.FechaEvento = models.DateRange{} }},
		{"unknown estado", func(in *CreateEventInput) { in.Estado = "Pendiente" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Create(ctx, uuid.New(), in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Equal(t, 0, bus.count(realtime.ChannelEvents), "rejected writes publish nothing")
}

func TestEventService_ListPaginated_RejectsUnknownStatus(t *testing.T) {
	svc, _ := newTestEventService()

	_, err := svc.ListPaginated(context.Background(), repositories.EventFilter{Status: "Pendiente"}, 20, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEventService_ListPaginated_AllPassesThrough(t *testing.T) {
	svc, _ := newTestEventService()
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.New(), validInput())
	require.NoError(t, err)

	page, err := svc.ListPaginated(ctx, repositories.EventFilter{Status: repositories.FilterAll}, 20, "")
	require.NoError(t, err)
	assert.Len(t, page.Events, 1)
}

func TestEventService_Update(t *testing.T) {
	svc, bus := newTestEventService()
	ctx := context.Background()

	event, err := svc.Create(ctx, uuid.New(), validInput())
	require.NoError(t, err)

	lugar := "Quinta Los Álamos"
	updated, err := svc.Update(ctx, event.ID, models.EventPatch{Lugar: &lugar})
	require.NoError(t, err)
	assert.Equal(t, lugar, updated.Lugar)
	assert.Equal(t, 2, bus.count(realtime.ChannelEvents))

	_, err = svc.Update(ctx, event.ID, models.EventPatch{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(ctx, uuid.New(), models.EventPatch{Lugar: &lugar})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestEventService_UpdateStatus(t *testing.T) {
	svc, _ := newTestEventService()
	ctx := context.Background()

	event, err := svc.Create(ctx, uuid.New(), validInput())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, event.ID, models.StatusFinished)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinished, updated.Estado)

	_, err = svc.UpdateStatus(ctx, event.ID, "Pendiente")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEventService_Delete(t *testing.T) {
	svc, bus := newTestEventService()
	ctx := context.Background()

	event, err := svc.Create(ctx, uuid.New(), validInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, event.ID))
	assert.Equal(t, 2, bus.count(realtime.ChannelEvents))

	_, err = svc.GetByID(ctx, event.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, event.ID), repositories.ErrNotFound)
}
