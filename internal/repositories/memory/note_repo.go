package memory

import (
	"context"
	"sync"
	"time"

	"github.com/controlx/backoffice/internal/models"
	"github.com/controlx/backoffice/internal/repositories"
)

type NoteRepo struct {
	mu     sync.RWMutex
	byDate map[string]models.Note
}

func NewNoteRepo() *NoteRepo {
	return &NoteRepo{byDate: make(map[string]models.Note)}
}

func (r *NoteRepo) Upsert(ctx context.Context, date, content string) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := models.Note{Date: date, Content: content, UpdatedAt: time.Now()}
	r.byDate[date] = n
	return &n, nil
}

func (r *NoteRepo) Get(ctx context.Context, date string) (*models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.byDate[date]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &n, nil
}

func (r *NoteRepo) ListAll(ctx context.Context) (map[string]*models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*models.Note, len(r.byDate))
	for date, n := range r.byDate {
		n := n
		out[date] = &n
	}
	return out, nil
}
