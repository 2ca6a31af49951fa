package cache

import (
	"context"
	"crypto/sha1"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"ecosprout/pkg/config"
	"ecosprout/pkg/logger"
)

// NewRedisClient connects to Redis and pings it. It returns nil when Redis is
// not configured or unreachable so callers run without caching.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable at %s, caching disabled: %v", cfg.Addr, err)
		_ = client.Close()
		return nil
	}
	return client
}

// ListingCache stores rendered listing responses. Entries are namespaced by a
// generation counter, so Invalidate drops every entry at once by bumping it.
type ListingCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewListingCache(rdb *redis.Client, ttl time.Duration) *ListingCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ListingCache{rdb: rdb, ttl: ttl, prefix: "ecosprout:items"}
}

func (c *ListingCache) generation(ctx context.Context) int64 {
	v, err := c.rdb.Get(ctx, c.prefix+":gen").Result()
	if err != nil {
		return 0
	}
	n, _ := strconv.ParseInt(v, 10, 64)
	return n
}

// Key derives a stable key from the request path and raw query.
func (c *ListingCache) Key(ctx context.Context, path, rawQuery string) string {
	sum := sha1.Sum([]byte(path + "?" + rawQuery))
	return fmt.Sprintf("%s:%d:%x", c.prefix, c.generation(ctx), sum[:])
}

func (c *ListingCache) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("Listing cache read failed: %v", err)
		}
		return nil, false
	}
	return b, true
}

func (c *ListingCache) Set(ctx context.Context, key string, body []byte) {
	if err := c.rdb.Set(ctx, key, body, c.ttl).Err(); err != nil {
		logger.Warn("Listing cache write failed: %v", err)
	}
}

// Invalidate makes every cached listing stale.
func (c *ListingCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Incr(ctx, c.prefix+":gen").Err(); err != nil {
		logger.Warn("Listing cache invalidation failed: %v", err)
	}
}
