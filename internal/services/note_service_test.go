package services

import (
	"context"
	"testing"

	"github.com/controlx/backoffice/internal/realtime"
	"github.com/controlx/backoffice/internal/repositories"
	"github.com/controlx/backoffice/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestNoteService() (*NoteService, *recordingBus) {
	bus := newRecordingBus()
	return NewNoteService(memory.NewNoteRepo(), bus, zap.NewNop()), bus
}

func TestNoteService_Upsert(t *testing.T) {
	svc, bus := newTestNoteService()
	ctx := context.Background()

	note, err := svc.Upsert(ctx, "2026-09-20", "Confirmar catering")
	require.NoError(t, err)
	assert.Equal(t, "Confirmar catering", note.Content)
	assert.Equal(t, 1, bus.count(realtime.ChannelNotes))

	// Last write wins for the same day
	note, err = svc.Upsert(ctx, "2026-09-20", "Catering confirmado")
	require.NoError(t, err)
	assert.Equal(t, "Catering confirmado", note.Content)

	got, err := svc.Get(ctx, "2026-09-20")
	require.NoError(t, err)
	assert.Equal(t, "Catering confirmado", got.Content)
}

func TestNoteService_Upsert_BadDate(t *testing.T) {
	svc, bus := newTestNoteService()

	_, err := svc.Upsert(context.Background(), "20-09-2026", "al revés")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, bus.count(realtime.ChannelNotes))
}

func TestNoteService_Get(t *testing.T) {
	svc, _ := newTestNoteService()
	ctx := context.Background()

	_, err := svc.Get(ctx, "2026-09-21")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = svc.Get(ctx, "no-fecha")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNoteService_ListAll(t *testing.T) {
	svc, _ := newTestNoteService()
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "2026-09-20", "uno")
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, "2026-09-21", "dos")
	require.NoError(t, err)

	notes, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 2)
	assert.Equal(t, "uno", notes["2026-09-20"].Content)
}
