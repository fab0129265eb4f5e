package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenStore is the allowlist of issued access tokens. A token whose key is
// gone is treated as revoked even if its signature is still valid.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func accessTokenKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", userID, tokenID)
}

func (s *TokenStore) Register(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return s.client.Set(ctx, accessTokenKey(userID, tokenID), "1", ttl).Err()
}

func (s *TokenStore) Exists(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	_, err := s.client.Get(ctx, accessTokenKey(userID, tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
