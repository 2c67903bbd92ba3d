package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Default Redis cache configuration constants.
const (
	defaultKeyPrefix = "matchengine:fp:"
	defaultTTL       = 7 * 24 * time.Hour
)

// redisCache implements Cache on Redis, sharing fingerprint state between
// engine instances. Entries expire so a cold document is eventually
// reindexed even without an explicit invalidation.
type redisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	size   atomic.Int64
}

// NewRedis connects to redisURL and verifies connectivity.
func NewRedis(ctx context.Context, redisURL string) (Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &redisCache{client: client, prefix: defaultKeyPrefix, ttl: defaultTTL}, nil
}

func (c *redisCache) SeenAndRecord(ctx context.Context, key string) bool {
	set, err := c.client.SetNX(ctx, c.prefix+key, 1, c.ttl).Result()
	if err != nil {
		// Treat an unreachable cache as a miss: worst case we reindex
		// content that had not actually changed.
		return false
	}
	if set {
		c.size.Add(1)
		return false
	}
	return true
}

func (c *redisCache) Forget(ctx context.Context, key string) {
	if n, err := c.client.Del(ctx, c.prefix+key).Result(); err == nil && n > 0 {
		c.size.Add(-1)
	}
}

func (c *redisCache) Size() int64 {
	return c.size.Load()
}
