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

const userColumns = `id, username, role, avatar_url, created_at, updated_at`

type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Role, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts the profile row. The id is pre-assigned: it is the id of
// the already-created auth principal, keeping the two stores keyed together.
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (id, username, role, avatar_url)
	          VALUES ($1, $2, $3, $4)
	          RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, user.ID, user.Username, user.Role, user.AvatarURL).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// Update only touches the mutable profile fields; username and id cannot
// change after creation.
func (r *PostgresUserRepository) Update(ctx context.Context, id uuid.UUID, patch models.UserPatch) (*models.User, error) {
	sb := strings.Builder{}
	sb.WriteString(`UPDATE users SET updated_at = NOW()`)

	args := []any{}
	argN := 1

	if patch.Role != nil {
		sb.WriteString(fmt.Sprintf(", role = $%d", argN))
		args = append(args, *patch.Role)
		argN++
	}
	if patch.AvatarURL != nil {
		sb.WriteString(fmt.Sprintf(", avatar_url = $%d", argN))
		args = append(args, *patch.AvatarURL)
		argN++
	}

	sb.WriteString(fmt.Sprintf(" WHERE id = $%d RETURNING ", argN))
	sb.WriteString(userColumns)
	args = append(args, id)

	user, err := scanUser(r.pool.QueryRow(ctx, sb.String(), args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
