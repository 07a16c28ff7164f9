package customer

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisCache caches userID to customer reference. References never change
// once stored, so entries only expire to bound memory.
type RedisCache struct {
	client redis.Cmdable
	cfg    Config
}

func NewRedisCache(client redis.Cmdable, cfg Config) *RedisCache {
	return &RedisCache{client: client, cfg: cfg.withDefaults()}
}

func (c *RedisCache) key(userID string) string {
	return c.cfg.CachePrefix + userID
}

func (c *RedisCache) Get(ctx context.Context, userID string) (string, error) {
	id, err := c.client.Get(ctx, c.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return id, err
}

func (c *RedisCache) Set(ctx context.Context, userID, customerID string) error {
	return c.client.Set(ctx, c.key(userID), customerID, c.cfg.CacheTTL).Err()
}
