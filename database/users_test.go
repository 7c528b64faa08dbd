package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/princinho/urbanthreads/auth"
	"github.com/princinho/urbanthreads/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(id, email string) *models.User {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.User{
		ID:           id,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		FullName:     "Sam Shopper",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// exerciseUserStore runs the auth.UserStore contract against one backend.
func exerciseUserStore(t *testing.T, users auth.UserStore) {
	t.Helper()
	ctx := context.Background()

	_, err := users.FindByEmail(ctx, "sam@example.com")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
	_, err = users.FindByID(ctx, "u1")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)

	want := newUser("u1", "sam@example.com")
	require.NoError(t, users.Create(ctx, want))
	assert.ErrorIs(t, users.Create(ctx, newUser("u2", "sam@example.com")), auth.ErrEmailTaken)

	got, err := users.FindByEmail(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, want.PasswordHash, got.PasswordHash)
	assert.Equal(t, "Sam Shopper", got.FullName)
	assert.True(t, got.IsActive)
	assert.WithinDuration(t, want.CreatedAt, got.CreatedAt, time.Second)

	byID, err := users.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", byID.Email)

	require.NoError(t, users.SavePasswordReset(ctx, models.PasswordReset{
		ID:        "r1",
		UserID:    "u1",
		TokenHash: "abc",
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}))
}

func TestMemoryUserStore(t *testing.T) {
	exerciseUserStore(t, auth.NewMemoryUserStore())
}

func TestSQLiteUsers(t *testing.T) {
	s, err := OpenSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	users, err := s.Users(context.Background())
	require.NoError(t, err)

	exerciseUserStore(t, users)

	var resets int
	require.NoError(t, s.db.Get(&resets, `SELECT COUNT(*) FROM password_resets WHERE used_at IS NULL`))
	assert.Equal(t, 1, resets)
}

func TestSQLiteUsersSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shop.db")
	s, err := OpenSQLiteStorage(path)
	require.NoError(t, err)
	users, err := s.Users(ctx)
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, newUser("u1", "sam@example.com")))
	require.NoError(t, s.Close())

	s, err = OpenSQLiteStorage(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	users, err = s.Users(ctx)
	require.NoError(t, err)
	got, err := users.FindByEmail(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
}

func TestRedisUsers(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStorageFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "shop")
	t.Cleanup(func() { _ = s.Close() })

	exerciseUserStore(t, s.Users())

	assert.True(t, mr.Exists("shop:users:u1"))
	assert.True(t, mr.Exists("shop:users:email:sam@example.com"))
	assert.False(t, mr.Exists("shop:users:u2"))
	assert.Greater(t, mr.TTL("shop:password-resets:r1"), time.Duration(0))
}
