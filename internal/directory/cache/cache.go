package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"comercio/internal/directory/models"
	"comercio/internal/verification/ports"
)

const profileKeyPrefix = "directory:nid:"

// ProfileTTL bounds how long a cached identity read-model may be served.
var ProfileTTL = 5 * time.Minute

// RedisCache is a Redis-backed read-model cache for profiles keyed by
// national ID. The verification coordinator invalidates entries when an
// identity is approved so stale pre-verification data is never served.
type RedisCache struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// SaveProfile caches a profile under its national ID.
func (c *RedisCache) SaveProfile(ctx context.Context, profile *models.Profile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return c.client.Set(ctx, profileKeyPrefix+profile.NationalID, payload, ProfileTTL).Err()
}

// FindProfile returns the cached profile or nil on a miss.
func (c *RedisCache) FindProfile(ctx context.Context, nationalID string) (*models.Profile, error) {
	payload, err := c.client.Get(ctx, profileKeyPrefix+nationalID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var profile models.Profile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return nil, fmt.Errorf("unmarshal cached profile: %w", err)
	}
	return &profile, nil
}

// InvalidateNationalID drops the cached read-model for a national ID.
func (c *RedisCache) InvalidateNationalID(ctx context.Context, nationalID string) error {
	return c.client.Del(ctx, profileKeyPrefix+nationalID).Err()
}

// CachedDirectory decorates a Directory with read-through caching of
// national-ID lookups. Only hits are cached; a miss always consults the
// store so a newly created profile is seen immediately.
type CachedDirectory struct {
	ports.Directory
	cache  *RedisCache
	logger *slog.Logger
}

func NewCachedDirectory(directory ports.Directory, cache *RedisCache, logger *slog.Logger) *CachedDirectory {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedDirectory{Directory: directory, cache: cache, logger: logger}
}

func (d *CachedDirectory) FindProfileByNationalID(ctx context.Context, nationalID string) (*models.Profile, error) {
	cached, err := d.cache.FindProfile(ctx, nationalID)
	if err != nil {
		d.logger.WarnContext(ctx, "identity cache read failed", "error", err)
	} else if cached != nil {
		return cached, nil
	}

	profile, err := d.Directory.FindProfileByNationalID(ctx, nationalID)
	if err != nil || profile == nil {
		return profile, err
	}
	if err := d.cache.SaveProfile(ctx, profile); err != nil {
		d.logger.WarnContext(ctx, "identity cache write failed", "error", err)
	}
	return profile, nil
}
