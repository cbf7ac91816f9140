package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/controlx/backoffice/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresNoteRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresNoteRepository(pool *pgxpool.Pool) *PostgresNoteRepository {
	return &PostgresNoteRepository{pool: pool}
}

// Upsert writes the note for the given calendar day, last write wins.
// The server timestamp is refreshed on every write.
func (r *PostgresNoteRepository) Upsert(ctx context.Context, date, content string) (*models.Note, error) {
	query := `INSERT INTO notes (date, content, updated_at)
	          VALUES ($1, $2, NOW())
	          ON CONFLICT (date) DO UPDATE SET content = EXCLUDED.content, updated_at = NOW()
	          RETURNING date, content, updated_at`

	var n models.Note
	err := r.pool.QueryRow(ctx, query, date, content).Scan(&n.Date, &n.Content, &n.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert note: %w", err)
	}
	return &n, nil
}

func (r *PostgresNoteRepository) Get(ctx context.Context, date string) (*models.Note, error) {
	query := `SELECT date, content, updated_at FROM notes WHERE date = $1`

	var n models.Note
	err := r.pool.QueryRow(ctx, query, date).Scan(&n.Date, &n.Content, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return &n, nil
}

// ListAll returns every note keyed by date, the snapshot shape the notes
// feed delivers.
func (r *PostgresNoteRepository) ListAll(ctx context.Context) (map[string]*models.Note, error) {
	query := `SELECT date, content, updated_at FROM notes`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := make(map[string]*models.Note)
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.Date, &n.Content, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes[n.Date] = &n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}
	return notes, nil
}
