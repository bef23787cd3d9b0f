package cooldown

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cooldownKeyPrefix = "verify:cooldown:"

// RedisStore is the production cooldown store. One SETEX-style key per
// email; key existence is what matters, Redis expiry does the bookkeeping.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func keyFor(email string) string {
	return cooldownKeyPrefix + strings.ToLower(email)
}

// Arm sets the cooldown marker with its TTL, overwriting any previous one.
func (s *RedisStore) Arm(ctx context.Context, email string, ttl time.Duration) error {
	return s.client.Set(ctx, keyFor(email), "1", ttl).Err()
}

// Active reports whether a cooldown marker currently exists for email.
func (s *RedisStore) Active(ctx context.Context, email string) (bool, error) {
	_, err := s.client.Get(ctx, keyFor(email)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Clear removes the cooldown marker. Clearing an absent key is a no-op.
func (s *RedisStore) Clear(ctx context.Context, email string) error {
	return s.client.Del(ctx, keyFor(email)).Err()
}
