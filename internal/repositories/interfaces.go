package repositories

import (
	"context"

	"github.com/controlx/backoffice/internal/models"
	"github.com/google/uuid"
)

// FilterAll is the sentinel filter value meaning "no constraint".
const FilterAll = "All"

// EventFilter narrows the paginated event listing. Empty or FilterAll
// disables the corresponding equality constraint.
type EventFilter struct {
	Status string
	Client string
}

func (f EventFilter) StatusActive() bool {
	return f.Status != "" && f.Status != FilterAll
}

func (f EventFilter) ClientActive() bool {
	return f.Client != "" && f.Client != FilterAll
}

// EventPage is one page of the fixed-order (fecha_inicio ASC, id ASC) listing.
// HasMore is the len==pageSize approximation: it can report a next page that
// turns out to be empty when the final page exactly fills the page size.
type EventPage struct {
	Events     []*models.Event
	NextCursor string
	HasMore    bool
}

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	ListPaginated(ctx context.Context, filter EventFilter, pageSize int, cursor string) (*EventPage, error)
	ListByUpdatedDesc(ctx context.Context) ([]*models.Event, error)
	DistinctClients(ctx context.Context) ([]string, error)
	Update(ctx context.Context, id uuid.UUID, patch models.EventPatch) (*models.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id uuid.UUID, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PrincipalRepository interface {
	Create(ctx context.Context, principal *models.Principal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Principal, error)
	GetByEmail(ctx context.Context, email string) (*models.Principal, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type NoteRepository interface {
	Upsert(ctx context.Context, date, content string) (*models.Note, error)
	Get(ctx context.Context, date string) (*models.Note, error)
	ListAll(ctx context.Context) (map[string]*models.Note, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}
