// AngelaMos | 2026
// cache.go

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/house-of-bloom/internal/core"
)

const (
	cachePrefix   = "catalog"
	generationKey = cachePrefix + ":generation"
)

// Cache stores read results under a generation number. Invalidate moves to
// a new generation so entries written for an older one are never read
// again and simply expire.
type Cache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64, key string, dest any) (bool, error)
	Set(ctx context.Context, gen int64, key string, value any) error
	Invalidate(ctx context.Context) error
}

// NewCache returns a redis backed cache, or a cache that stores nothing
// when redis is not configured.
func NewCache(r *core.Redis, ttl time.Duration) Cache {
	if r == nil || r.Client == nil || ttl <= 0 {
		return noopCache{}
	}
	return &redisCache{client: r.Client, ttl: ttl}
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func (c *redisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get cache generation: %w", err)
	}
	return gen, nil
}

func (c *redisCache) Get(
	ctx context.Context,
	gen int64,
	key string,
	dest any,
) (bool, error) {
	raw, err := c.client.Get(ctx, entryKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get cache entry %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return true, nil
}

func (c *redisCache) Set(
	ctx context.Context,
	gen int64,
	key string,
	value any,
) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}

	if err := c.client.Set(ctx, entryKey(gen, key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cache entry %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("bump cache generation: %w", err)
	}
	return nil
}

func entryKey(gen int64, key string) string {
	return fmt.Sprintf("%s:%d:%s", cachePrefix, gen, key)
}

type noopCache struct{}

func (noopCache) Generation(context.Context) (int64, error) { return 0, nil }

func (noopCache) Get(context.Context, int64, string, any) (bool, error) {
	return false, nil
}

func (noopCache) Set(context.Context, int64, string, any) error { return nil }

func (noopCache) Invalidate(context.Context) error { return nil }
