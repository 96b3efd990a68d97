// Package cache provides the Redis-backed cache used for generation-status
// lookups and API rate-limit counters.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache is the caching interface. Implementations must be safe for
// concurrent use.
type Cache interface {
	Ping(ctx context.Context) error
	Close() error

	// SetEventStatus caches the generation status of a detection event so
	// pollers do not hit the store on every request.
	SetEventStatus(ctx context.Context, eventID uuid.UUID, status string, ttl time.Duration) error
	GetEventStatus(ctx context.Context, eventID uuid.UUID) (string, bool, error)

	// IncrWithExpiry increments a counter, setting its expiry, and returns the
	// new value. Used by the HTTP rate-limit middleware.
	IncrWithExpiry(ctx context.Context, key string, expiry time.Duration) (int64, error)
}

// RedisCache implements Cache using go-redis/v9.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new RedisCache from a Redis URL.
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) SetEventStatus(ctx context.Context, eventID uuid.UUID, status string, ttl time.Duration) error {
	return c.client.Set(ctx, EventStatusKey(eventID), status, ttl).Err()
}

func (c *RedisCache) GetEventStatus(ctx context.Context, eventID uuid.UUID) (string, bool, error) {
	val, err := c.client.Get(ctx, EventStatusKey(eventID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisCache) IncrWithExpiry(ctx context.Context, key string, expiry time.Duration) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, expiry)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}
