package utils

import (
	"context"
	"encoding/json"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chulcheck/chulcheck/config"
)

const defaultCacheTTL = 30 * time.Second

// Cache is an explicit handle over Redis used for read-through caching of
// report queries. It is constructed once at boot and passed to whoever needs
// it; a nil *Cache is valid and behaves as a permanent miss so the service
// can run without Redis.
type Cache struct {
	rdb *redis.Client
}

// NewCache builds the Redis client from configuration. Connectivity problems
// are logged, not fatal: caching is an optimization, never a correctness
// dependency.
func NewCache(cfg config.AppConfig) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil && Sugar != nil {
		Sugar.Warnf("redis unreachable, report caching degraded: %v", err)
	}
	return &Cache{rdb: rdb}
}

// GetJSON loads a cached JSON value into out. Returns false on any miss or
// error.
func (c *Cache) GetJSON(ctx context.Context, key string, out interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(b, out) == nil
}

// SetJSON stores v as JSON under key.
func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil && Sugar != nil {
		Sugar.Warnf("cache set failed key=%s err=%v", key, err)
	}
}

// InvalidatePrefix deletes keys matching the prefix using SCAN, bounded to a
// few rounds so a huge keyspace cannot stall a request.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	if c == nil || c.rdb == nil {
		return
	}
	var cursor uint64
	for i := 0; i < 10; i++ {
		keys, cur, err := c.rdb.Scan(ctx, cursor, prefix+"*", 1000).Result()
		if err != nil {
			return
		}
		cursor = cur
		if len(keys) > 0 {
			pipe := c.rdb.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			_, _ = pipe.Exec(ctx)
		}
		if cursor == 0 {
			return
		}
	}
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
