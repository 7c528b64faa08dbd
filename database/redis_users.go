package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/princinho/urbanthreads/auth"
	"github.com/princinho/urbanthreads/models"
)

// RedisUsers implements auth.UserStore next to a RedisStorage. Each account
// is a JSON record under <prefix>:users:<id>; <prefix>:users:email:<email>
// points at it and doubles as the uniqueness lock.
type RedisUsers struct {
	client    *redis.Client
	keyPrefix string
}

// redisUser mirrors models.User with the password hash kept.
type redisUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	FullName     string    `json:"fullName,omitempty"`
	Username     string    `json:"username,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (r *RedisStorage) Users() *RedisUsers {
	return &RedisUsers{client: r.client, keyPrefix: r.keyPrefix}
}

func (u *RedisUsers) userKey(id string) string {
	return u.keyPrefix + ":users:" + id
}

func (u *RedisUsers) emailKey(email string) string {
	return u.keyPrefix + ":users:email:" + email
}

func (u *RedisUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	data, err := u.client.Get(ctx, u.userKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	var rec redisUser
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", id, err)
	}
	user := models.User(rec)
	return &user, nil
}

func (u *RedisUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	id, err := u.client.Get(ctx, u.emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u.FindByID(ctx, id)
}

func (u *RedisUsers) Create(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(redisUser(*user))
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	claimed, err := u.client.SetNX(ctx, u.emailKey(user.Email), user.ID, 0).Result()
	if err != nil {
		return err
	}
	if !claimed {
		return auth.ErrEmailTaken
	}
	if err := u.client.Set(ctx, u.userKey(user.ID), data, 0).Err(); err != nil {
		u.client.Del(ctx, u.emailKey(user.Email))
		return err
	}
	return nil
}

// SavePasswordReset stores the request until it expires.
func (u *RedisUsers) SavePasswordReset(ctx context.Context, reset models.PasswordReset) error {
	data, err := json.Marshal(reset)
	if err != nil {
		return fmt.Errorf("encode password reset: %w", err)
	}
	ttl := time.Until(reset.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return u.client.Set(ctx, u.keyPrefix+":password-resets:"+reset.ID, data, ttl).Err()
}
