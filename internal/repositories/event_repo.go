package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/controlx/backoffice/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `id, titulo, cliente, lugar, estado, fecha_inicio, fecha_fin, created_by, updated_at`

type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(
		&e.ID,
		&e.Titulo,
		&e.Cliente,
		&e.Lugar,
		&e.Estado,
		&e.FechaEvento.Start,
		&e.FechaEvento.End,
		&e.CreatedBy,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts the event and fills in the backend-assigned id and
// server timestamp. Any client-supplied UpdatedAt is ignored.
func (r *PostgresEventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `INSERT INTO events (titulo, cliente, lugar, estado, fecha_inicio, fecha_fin, created_by, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	          RETURNING id, updated_at`

	err := r.pool.QueryRow(ctx, query,
		event.Titulo,
		event.Cliente,
		event.Lugar,
		event.Estado,
		event.FechaEvento.Start,
		event.FechaEvento.End,
		event.CreatedBy,
	).Scan(&event.ID, &event.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *PostgresEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// ListPaginated applies the active equality filters, the fixed
// (fecha_inicio ASC, id ASC) order and keyset pagination: with a cursor the
// page starts strictly after the referenced row.
func (r *PostgresEventRepository) ListPaginated(ctx context.Context, filter EventFilter, pageSize int, cursorToken string) (*EventPage, error) {
	if pageSize <= 0 {
		pageSize = 20
	}

	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + eventColumns + ` FROM events WHERE 1=1`)

	args := []any{}
	argN := 1

	if filter.StatusActive() {
		sb.WriteString(fmt.Sprintf(" AND estado = $%d", argN))
		args = append(args, filter.Status)
		argN++
	}
	if filter.ClientActive() {
		sb.WriteString(fmt.Sprintf(" AND cliente = $%d", argN))
		args = append(args, filter.Client)
		argN++
	}

	if cursorToken != "" {
		start, id, err := DecodeCursor(cursorToken)
		if err != nil {
			return nil, err
		}
		sb.WriteString(fmt.Sprintf(" AND (fecha_inicio, id) > ($%d, $%d)", argN, argN+1))
		args = append(args, start, id)
		argN += 2
	}

	sb.WriteString(fmt.Sprintf(" ORDER BY fecha_inicio ASC, id ASC LIMIT $%d", argN))
	args = append(args, pageSize)

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	page := &EventPage{
		Events:  events,
		HasMore: len(events) == pageSize,
	}
	if len(events) > 0 {
		last := events[len(events)-1]
		page.NextCursor = EncodeCursor(last.FechaEvento.Start, last.ID)
	}
	return page, nil
}

// ListByUpdatedDesc returns the full collection ordered most-recent-first.
// It is the snapshot source for the real-time feed.
func (r *PostgresEventRepository) ListByUpdatedDesc(ctx context.Context) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY updated_at DESC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return events, nil
}

func (r *PostgresEventRepository) DistinctClients(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT cliente FROM events ORDER BY cliente ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}
	return clients, nil
}

// Update applies the patch and refreshes the server timestamp. The returned
// event is the authoritative post-write row.
func (r *PostgresEventRepository) Update(ctx context.Context, id uuid.UUID, patch models.EventPatch) (*models.Event, error) {
	sb := strings.Builder{}
	sb.WriteString(`UPDATE events SET updated_at = NOW()`)

	args := []any{}
	argN := 1

	if patch.Titulo != nil {
		sb.WriteString(fmt.Sprintf(", titulo = $%d", argN))
		args = append(args, *patch.Titulo)
		argN++
	}
	if patch.Cliente != nil {
		sb.WriteString(fmt.Sprintf(", cliente = $%d", argN))
		args = append(args, *patch.Cliente)
		argN++
	}
	if patch.Lugar != nil {
		sb.WriteString(fmt.Sprintf(", lugar = $%d", argN))
		args = append(args, *patch.Lugar)
		argN++
	}
	if patch.Estado != nil {
		sb.WriteString(fmt.Sprintf(", estado = $%d", argN))
		args = append(args, *patch.Estado)
		argN++
	}
	if patch.FechaEvento != nil {
		sb.WriteString(fmt.Sprintf(", fecha_inicio = $%d, fecha_fin = $%d", argN, argN+1))
		args = append(args, patch.FechaEvento.Start, patch.FechaEvento.End)
		argN += 2
	}

	sb.WriteString(fmt.Sprintf(" WHERE id = $%d RETURNING ", argN))
	sb.WriteString(eventColumns)
	args = append(args, id)

	event, err := scanEvent(r.pool.QueryRow(ctx, sb.String(), args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

func (r *PostgresEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
