package geo

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	json "github.com/goccy/go-json"

	"logistics-console/internal/logx"
)

// CacheKey is the redis key the catalog is stored under.
const CacheKey = "geo:colombia:v1"

// RedisCache keeps the catalog in redis in front of another Source.
// Cache errors are logged and fall through to the underlying source.
type RedisCache struct {
	client *redis.Client
	next   Source
	ttl    time.Duration
	logger logx.Logger
}

// NewRedisClient connects and pings redis at addr.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

// NewRedisCache wraps next with a redis cache entry living ttl.
func NewRedisCache(client *redis.Client, next Source, ttl time.Duration, logger logx.Logger) *RedisCache {
	if logger == nil {
		logger = logx.Nop()
	}
	return &RedisCache{client: client, next: next, ttl: ttl, logger: logger}
}

// Load implements Source.
func (c *RedisCache) Load(ctx context.Context) (Catalog, error) {
	data, err := c.client.Get(ctx, CacheKey).Bytes()
	switch {
	case err == nil:
		var deps []Department
		decodeErr := json.Unmarshal(data, &deps)
		if decodeErr == nil {
			c.logger.Debug("geo cache hit")
			return Catalog{Departments: deps}, nil
		}
		c.logger.Warn("geo cache entry unreadable", logx.Err(decodeErr))
	case err == redis.Nil:
		c.logger.Debug("geo cache miss")
	default:
		c.logger.Warn("geo cache get failed", logx.Err(err))
	}

	cat, err := c.next.Load(ctx)
	if err != nil {
		return Catalog{}, err
	}
	data, err = json.Marshal(cat.Departments)
	if err != nil {
		return cat, nil
	}
	if err := c.client.Set(ctx, CacheKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("geo cache set failed", logx.Err(err))
	}
	return cat, nil
}
