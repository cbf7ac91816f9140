package services

import (
	"context"
	"fmt"
	"time"

	"github.com/controlx/backoffice/internal/models"
	"github.com/controlx/backoffice/internal/realtime"
	"github.com/controlx/backoffice/internal/repositories"
	"go.uber.org/zap"
)

const noteDateLayout = "2006-01-02"

type NoteService struct {
	repo   repositories.NoteRepository
	bus    realtime.Bus
	logger *zap.Logger
}

func NewNoteService(repo repositories.NoteRepository, bus realtime.Bus, logger *zap.Logger) *NoteService {
	return &NoteService{repo: repo, bus: bus, logger: logger}
}

// Upsert writes the note for a calendar day, last write wins.
func (s *NoteService) Upsert(ctx context.Context, date, content string) (*models.Note, error) {
	if _, err := time.Parse(noteDateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}

	note, err := s.repo.Upsert(ctx, date, content)
	if err != nil {
		return nil, err
	}
	if err := s.bus.Publish(ctx, realtime.ChannelNotes); err != nil {
		s.logger.Warn("failed to publish note change", zap.Error(err))
	}
	return note, nil
}

func (s *NoteService) Get(ctx context.Context, date string) (*models.Note, error) {
	if _, err := time.Parse(noteDateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	return s.repo.Get(ctx, date)
}

func (s *NoteService) ListAll(ctx context.Context) (map[string]*models.Note, error) {
	return s.repo.ListAll(ctx)
}
