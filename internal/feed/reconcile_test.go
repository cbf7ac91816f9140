package feed

import (
	"context"
	"testing"
	"time"

	"github.com/controlx/backoffice/internal/models"
	"github.com/controlx/backoffice/internal/repositories"
	"github.com/controlx/backoffice/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyFor(t *testing.T) {
	assert.Equal(t, PolicyRefetch, PolicyFor(MutationCreate))
	assert.Equal(t, PolicyRefetch, PolicyFor(MutationEdit))
	assert.Equal(t, PolicyPatchInPlace, PolicyFor(MutationStatusChange))
	assert.Equal(t, PolicyRemoveLocal, PolicyFor(MutationDelete))
}

func TestApplyDeleted_RemovesImmediately(t *testing.T) {
	repo := memory.NewEventRepo()
	seedEvents(t, repo, 5, models.StatusConfirmed, "Acme")

	pager := NewPager(repo, testPageSize, time.Second)
	require.NoError(t, pager.Refresh(context.Background()))

	victim := pager.Snapshot().Items[2]
	pager.ApplyDeleted(victim.ID)

	// The local list drops the item without any round trip; the repository
	// still holds it, which is exactly the optimistic window.
	snap := pager.Snapshot()
	assert.Len(t, snap.Items, 4)
	for _, e := range snap.Items {
		assert.NotEqual(t, victim.ID, e.ID)
	}
	_, err := repo.GetByID(context.Background(), victim.ID)
	assert.NoError(t, err)
}

func TestApplyDeleted_AbsentIDIgnored(t *testing.T) {
	repo := memory.NewEventRepo()
	seedEvents(t, repo, 3, models.StatusConfirmed, "Acme")

	pager := NewPager(repo, testPageSize, time.Second)
	require.NoError(t, pager.Refresh(context.Background()))

	pager.ApplyDeleted(uuid.New())
	assert.Len(t, pager.Snapshot().Items, 3)
}

func TestApplyStatusChanged_PatchesInPlace(t *testing.T) {
	repo := memory.NewEventRepo()
	seedEvents(t, repo, 3, models.StatusNegotiation, "Acme")

	pager := NewPager(repo, testPageSize, time.Second)
	require.NoError(t, pager.Refresh(context.Background()))

	before := pager.Snapshot().Items
	target := before[1]
	pager.ApplyStatusChanged(target.ID, models.StatusConfirmed)

	after := pager.Snapshot().Items
	require.Len(t, after, 3)
	assert.Equal(t, target.ID, after[1].ID, "order preserved")
	assert.Equal(t, models.StatusConfirmed, after[1].Estado)

	// The patch is copy-on-write: the snapshot taken before the change
	// still shows the old status.
	assert.Equal(t, models.StatusNegotiation, before[1].Estado)
}

func TestApplyStatusChanged_RemovedWhenOutsideActiveFilter(t *testing.T) {
	repo := memory.NewEventRepo()
	seedEvents(t, repo, 3, models.StatusConfirmed, "Acme")

	pager := NewPager(repo, testPageSize, time.Second)
	ctx := context.Background()
	require.NoError(t, pager.SetFilters(ctx, repositories.EventFilter{Status: "Confirmado"}))
	require.Len(t, pager.Snapshot().Items, 3)

	target := pager.Snapshot().Items[0]
	pager.ApplyStatusChanged(target.ID, models.StatusFinished)

	snap := pager.Snapshot()
	assert.Len(t, snap.Items, 2)
	for _, e := range snap.Items {
		assert.NotEqual(t, target.ID, e.ID)
	}
}

func TestApplyStatusChanged_AbsentIDIgnored(t *testing.T) {
	repo := memory.NewEventRepo()
	seedEvents(t, repo, 2, models.StatusNegotiation, "Acme")

	pager := NewPager(repo, testPageSize, time.Second)
	require.NoError(t, pager.Refresh(context.Background()))

	pager.ApplyStatusChanged(uuid.New(), models.StatusConfirmed)
	assert.Len(t, pager.Snapshot().Items, 2)
}

func TestApplyCreated_Refetches(t *testing.T) {
	repo := memory.NewEventRepo()
	seedEvents(t, repo, 2, models.StatusConfirmed, "Acme")

	pager := NewPager(repo, testPageSize, time.Second)
	ctx := context.Background()
	require.NoError(t, pager.Refresh(ctx))
	require.Len(t, pager.Snapshot().Items, 2)

	created := &models.Event{
		Titulo:      "Nuevo",
		Cliente:     "Acme",
		Lugar:       "Salón",
		Estado:      models.StatusConfirmed,
		FechaEvento: models.DateRange{Start: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)},
		CreatedBy:   uuid.New(),
	}
	require.NoError(t, repo.Create(ctx, created))

	require.NoError(t, pager.ApplyCreated(ctx, created))
	assert.Len(t, pager.Snapshot().Items, 3)
}
