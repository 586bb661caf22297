package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRefreshTokenNotFound signals a refresh token that was never issued,
// expired out of Redis, or was revoked on logout.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

const refreshKeyPrefix = "refresh:"

// RefreshTokenStore tracks issued refresh tokens so they can be revoked
// before their JWT expiry.
type RefreshTokenStore interface {
	Save(ctx context.Context, jti, userID string, ttl time.Duration) error
	Validate(ctx context.Context, jti string) (string, error)
	Revoke(ctx context.Context, jti string) error
}

type refreshTokenStore struct {
	client *redis.Client
}

// NewRefreshTokenStore returns a Redis-backed implementation.
func NewRefreshTokenStore(client *redis.Client) RefreshTokenStore {
	return &refreshTokenStore{client: client}
}

func (s *refreshTokenStore) Save(ctx context.Context, jti, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, refreshKeyPrefix+jti, userID, ttl).Err()
}

func (s *refreshTokenStore) Validate(ctx context.Context, jti string) (string, error) {
	userID, err := s.client.Get(ctx, refreshKeyPrefix+jti).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrRefreshTokenNotFound
		}
		return "", err
	}
	return userID, nil
}

func (s *refreshTokenStore) Revoke(ctx context.Context, jti string) error {
	return s.client.Del(ctx, refreshKeyPrefix+jti).Err()
}
