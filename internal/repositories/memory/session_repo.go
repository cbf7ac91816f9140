package memory

import (
	"context"
	"sync"
	"time"

	"github.com/controlx/backoffice/internal/models"
	"github.com/controlx/backoffice/internal/repositories"
	"github.com/google/uuid"
)

type SessionRepo struct {
	mu   sync.RWMutex
	byID map[string]models.Session
}

func NewSessionRepo() *SessionRepo {
	return &SessionRepo{byID: make(map[string]models.Session)}
}

func (r *SessionRepo) Create(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[session.ID] = *session
	return nil
}

func (r *SessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok || time.Now().After(s.ExpiresAt) {
		return nil, repositories.ErrNotFound
	}
	return &s, nil
}

func (r *SessionRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.Session
	for _, s := range r.byID {
		if s.UserID == userID && time.Now().Before(s.ExpiresAt) {
			s := s
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *SessionRepo) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.byID {
		if s.UserID == userID {
			delete(r.byID, id)
		}
	}
	return nil
}
