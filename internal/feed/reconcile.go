package feed

import (
	"context"

	"github.com/controlx/backoffice/internal/models"
	"github.com/google/uuid"
)

// MutationPolicy names how the accumulated list is reconciled after a write.
// Create and edit may move an item under the fixed sort or change its filter
// membership, so they refetch; status changes and deletes are patched in
// place to keep the view responsive. The local patch is optimistic: the next
// refetch or snapshot remains authoritative.
type MutationPolicy int

const (
	PolicyRefetch MutationPolicy = iota
	PolicyPatchInPlace
	PolicyRemoveLocal
)

// PolicyFor maps each mutation kind to its reconciliation policy.
func PolicyFor(kind MutationKind) MutationPolicy {
	switch kind {
	case MutationStatusChange:
		return PolicyPatchInPlace
	case MutationDelete:
		return PolicyRemoveLocal
	default:
		return PolicyRefetch
	}
}

type MutationKind int

const (
	MutationCreate MutationKind = iota
	MutationEdit
	MutationStatusChange
	MutationDelete
)

// ApplyCreated reconciles after a create. The new item's position under the
// (start, id) sort is unknown locally, so the whole page set is refetched.
func (p *Pager) ApplyCreated(ctx context.Context, _ *models.Event) error {
	return p.Refresh(ctx)
}

// ApplyUpdated reconciles after a full edit, which may change sort position
// or filter membership.
func (p *Pager) ApplyUpdated(ctx context.Context, _ *models.Event) error {
	return p.Refresh(ctx)
}

// ApplyStatusChanged patches the item in place. When the new status falls
// outside the active status filter the item is removed locally as well,
// so the list never shows an entry the current filter would exclude.
// An id not present in the list is ignored.
func (p *Pager) ApplyStatusChanged(id uuid.UUID, status models.EventStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.filter.StatusActive() && p.filter.Status != string(status) {
		p.removeLocked(id)
		return
	}
	for i, e := range p.items {
		if e.ID == id {
			patched := *e
			patched.Estado = status
			p.items[i] = &patched
			return
		}
	}
}

// ApplyDeleted removes the item immediately, without waiting for backend
// confirmation. An id already absent is ignored.
func (p *Pager) ApplyDeleted(id uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removeLocked(id)
}

func (p *Pager) removeLocked(id uuid.UUID) {
	for i, e := range p.items {
		if e.ID == id {
			p.items = append(p.items[:i], p.items[i+1:]...)
			return
		}
	}
}
