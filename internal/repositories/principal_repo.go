package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/controlx/backoffice/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresPrincipalRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPrincipalRepository(pool *pgxpool.Pool) *PostgresPrincipalRepository {
	return &PostgresPrincipalRepository{pool: pool}
}

func (r *PostgresPrincipalRepository) Create(ctx context.Context, principal *models.Principal) error {
	query := `INSERT INTO principals (email, password_hash)
	          VALUES ($1, $2)
	          RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, principal.Email, principal.PasswordHash).
		Scan(&principal.ID, &principal.CreatedAt, &principal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create principal: %w", err)
	}
	return nil
}

func (r *PostgresPrincipalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Principal, error) {
	query := `SELECT id, email, password_hash, created_at, updated_at FROM principals WHERE id = $1`

	var p models.Principal
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.Email, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get principal: %w", err)
	}
	return &p, nil
}

func (r *PostgresPrincipalRepository) GetByEmail(ctx context.Context, email string) (*models.Principal, error) {
	query := `SELECT id, email, password_hash, created_at, updated_at FROM principals WHERE email = $1`

	var p models.Principal
	err := r.pool.QueryRow(ctx, query, email).
		Scan(&p.ID, &p.Email, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get principal by email: %w", err)
	}
	return &p, nil
}

func (r *PostgresPrincipalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM principals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete principal: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
