package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/controlx/backoffice/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping Redis integration test")
	}

	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   1, // separate DB from production
	})

	require.NoError(t, client.Ping(context.Background()).Err(), "Failed to connect to test Redis")
	return client
}

func cleanupTestSessions(t *testing.T, client *redis.Client, ctx context.Context) {
	require.NoError(t, client.FlushDB(ctx).Err())
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	client := getTestRedisClient(t)
	repo := NewRedisSessionRepository(client)
	ctx := context.Background()

	defer cleanupTestSessions(t, client, ctx)

	userID := uuid.New()
	session := &models.Session{
		ID:        "session-123",
		UserID:    userID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		CreatedAt: time.Now(),
	}

	require.NoError(t, repo.Create(ctx, session))

	retrieved, err := repo.GetByID(ctx, "session-123")
	require.NoError(t, err)
	assert.Equal(t, userID, retrieved.UserID)

	// Secondary index tracks the user's sessions
	sessions, err := repo.ListByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "session-123", sessions[0].ID)
}

func TestSessionRepository_Expiration(t *testing.T) {
	client := getTestRedisClient(t)
	repo := NewRedisSessionRepository(client)
	ctx := context.Background()

	defer cleanupTestSessions(t, client, ctx)

	userID := uuid.New()
	require.NoError(t, repo.Create(ctx, &models.Session{
		ID:        "expired-session",
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Second),
		CreatedAt: time.Now(),
	}))
	require.NoError(t, repo.Create(ctx, &models.Session{
		ID:        "valid-session",
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}))

	time.Sleep(1500 * time.Millisecond)

	_, err := repo.GetByID(ctx, "expired-session")
	assert.ErrorIs(t, err, ErrNotFound)

	// Lazy cleanup drops the expired member from the secondary index
	sessions, err := repo.ListByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "valid-session", sessions[0].ID)
}

func TestSessionRepository_Delete(t *testing.T) {
	client := getTestRedisClient(t)
	repo := NewRedisSessionRepository(client)
	ctx := context.Background()

	defer cleanupTestSessions(t, client, ctx)

	userID := uuid.New()
	require.NoError(t, repo.Create(ctx, &models.Session{
		ID:        "session-del",
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}))

	require.NoError(t, repo.Delete(ctx, "session-del"))

	_, err := repo.GetByID(ctx, "session-del")
	assert.ErrorIs(t, err, ErrNotFound)

	sessions, err := repo.ListByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSessionRepository_DeleteAllForUser(t *testing.T) {
	client := getTestRedisClient(t)
	repo := NewRedisSessionRepository(client)
	ctx := context.Background()

	defer cleanupTestSessions(t, client, ctx)

	userID := uuid.New()
	for _, id := range []string{"s1", "s2", "s3"} {
		require.NoError(t, repo.Create(ctx, &models.Session{
			ID:        id,
			UserID:    userID,
			ExpiresAt: time.Now().Add(time.Hour),
			CreatedAt: time.Now(),
		}))
	}

	require.NoError(t, repo.DeleteAllForUser(ctx, userID))

	sessions, err := repo.ListByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
