package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/controlx/backoffice/internal/models"
	"github.com/controlx/backoffice/internal/repositories"
	"github.com/google/uuid"
)

type UserRepo struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]models.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{byID: make(map[uuid.UUID]models.User)}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.byID[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepo) List(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	out := make([]*models.User, 0, len(r.byID))
	for _, u := range r.byID {
		u := u
		out = append(out, &u)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *UserRepo) Update(ctx context.Context, id uuid.UUID, patch models.UserPatch) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.AvatarURL != nil {
		u.AvatarURL = *patch.AvatarURL
	}
	u.UpdatedAt = time.Now()

	r.byID[id] = u
	return &u, nil
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
