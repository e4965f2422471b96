package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin JSON cache over go-redis. A Cache with a nil client is
// valid and turns every operation into a no-op, so the service keeps working
// when Redis is down.
type Cache struct {
	client *redis.Client
}

// NewCache connects to Redis at addr. If the server is unreachable the
// returned Cache degrades to no-op instead of failing startup.
func NewCache(addr string) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Println("Redis not available. Running without cache.")
		return &Cache{}
	}
	log.Println("Redis connected successfully.")
	return &Cache{client: client}
}

// NewCacheFromClient wraps an existing client (used by tests with miniredis).
func NewCacheFromClient(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get unmarshals the cached JSON value into dest. The bool reports a hit.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores val as JSON with the given TTL. Failures are logged, not returned;
// the cache is best effort.
func (c *Cache) Set(ctx context.Context, key string, val any, ttl time.Duration) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		log.Printf("cache marshal failed for %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Printf("cache set failed for %s: %v", key, err)
	}
}

// GetVersion returns the current value of a version key (0 when unset).
// Version keys let list caches invalidate wholesale: bump the version and
// every derived cache key changes.
func (c *Cache) GetVersion(ctx context.Context, key string) int64 {
	if c.client == nil {
		return 0
	}
	v, err := c.client.Get(ctx, key).Int64()
	if err != nil {
		return 0
	}
	return v
}

// IncrementVersion bumps a version key.
func (c *Cache) IncrementVersion(ctx context.Context, key string) {
	if c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, key).Err(); err != nil {
		log.Printf("cache version bump failed for %s: %v", key, err)
	}
}
