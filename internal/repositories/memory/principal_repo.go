package memory

import (
	"context"
	"sync"
	"time"

	"github.com/controlx/backoffice/internal/models"
	"github.com/controlx/backoffice/internal/repositories"
	"github.com/google/uuid"
)

type PrincipalRepo struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]models.Principal
}

func NewPrincipalRepo() *PrincipalRepo {
	return &PrincipalRepo{byID: make(map[uuid.UUID]models.Principal)}
}

func (r *PrincipalRepo) Create(ctx context.Context, principal *models.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	principal.ID = uuid.New()
	principal.CreatedAt = now
	principal.UpdatedAt = now
	r.byID[principal.ID] = *principal
	return nil
}

func (r *PrincipalRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (r *PrincipalRepo) GetByEmail(ctx context.Context, email string) (*models.Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byID {
		if p.Email == email {
			p := p
			return &p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *PrincipalRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
