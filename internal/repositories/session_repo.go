package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/controlx/backoffice/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:"
const userSessionsPrefix = "user:%s:sessions"

type RedisSessionRepository struct {
	client *redis.Client
}

func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func (r *RedisSessionRepository) Create(ctx context.Context, session *models.Session) error {
	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// TTL tracks the token expiry so revocation state cleans itself up.
	ttl := time.Until(session.ExpiresAt)
	key := fmt.Sprintf("%s%s", sessionPrefix, session.ID)

	err = r.client.Set(ctx, key, jsonData, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	userKey := fmt.Sprintf(userSessionsPrefix, session.UserID)
	err = r.client.SAdd(ctx, userKey, session.ID).Err()
	if err != nil {
		return fmt.Errorf("failed to add session to user sessions: %w", err)
	}
	return nil
}

func (r *RedisSessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	key := fmt.Sprintf("%s%s", sessionPrefix, id)

	jsonData, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.Session
	err = json.Unmarshal([]byte(jsonData), &session)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

func (r *RedisSessionRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Session, error) {
	userKey := fmt.Sprintf(userSessionsPrefix, userID)
	sessionIDs, err := r.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get user sessions: %w", err)
	}

	var sessions []*models.Session
	var expiredIDs []interface{}

	for _, id := range sessionIDs {
		jsonData, err := r.client.Get(ctx, fmt.Sprintf("%s%s", sessionPrefix, id)).Result()
		if err == redis.Nil {
			expiredIDs = append(expiredIDs, id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get session %s: %w", id, err)
		}

		var session models.Session
		if err := json.Unmarshal([]byte(jsonData), &session); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session %s: %w", id, err)
		}
		sessions = append(sessions, &session)
	}

	// Lazy cleanup of expired members from the secondary index
	if len(expiredIDs) > 0 {
		err = r.client.SRem(ctx, userKey, expiredIDs...).Err()
		if err != nil {
			return nil, fmt.Errorf("failed to remove expired sessions: %w", err)
		}
	}
	return sessions, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	key := fmt.Sprintf("%s%s", sessionPrefix, id)

	session, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	userKey := fmt.Sprintf(userSessionsPrefix, session.UserID)
	err = r.client.SRem(ctx, userKey, id).Err()
	if err != nil {
		return fmt.Errorf("failed to remove session from user sessions: %w", err)
	}

	err = r.client.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *RedisSessionRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	userKey := fmt.Sprintf(userSessionsPrefix, userID)
	sessionIDs, err := r.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get user sessions: %w", err)
	}
	for _, id := range sessionIDs {
		if err := r.Delete(ctx, id); err != nil && err != ErrNotFound {
			return fmt.Errorf("failed to delete session %s: %w", id, err)
		}
	}
	return nil
}
