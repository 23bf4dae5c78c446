// Package cache keeps per-salon JSON snapshots in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cached collections. Keys are namespaced per salon as easyhora:<salon id>:<name>.
const (
	KeyClients       = "clients"
	KeyBlockedDates  = "blocked_dates"
	KeySalonSettings = "salon_settings"
)

const keyPrefix = "easyhora"

// TenantCache is a read-through store for small per-salon collections.
type TenantCache interface {
	Get(ctx context.Context, salonID uuid.UUID, name string, dst any) (bool, error)
	Set(ctx context.Context, salonID uuid.UUID, name string, value any) error
	Invalidate(ctx context.Context, salonID uuid.UUID, names ...string) error
}

// Key builds the Redis key for a salon collection.
func Key(salonID uuid.UUID, name string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, salonID, name)
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get decodes the cached value into dst. It reports false on a miss.
func (c *RedisCache) Get(ctx context.Context, salonID uuid.UUID, name string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, Key(salonID, name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", name, err)
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, salonID uuid.UUID, name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", name, err)
	}
	if err := c.client.Set(ctx, Key(salonID, name), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", name, err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, salonID uuid.UUID, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, Key(salonID, name))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// Noop is used when Redis is not configured. Every Get misses.
type Noop struct{}

func (Noop) Get(context.Context, uuid.UUID, string, any) (bool, error) { return false, nil }
func (Noop) Set(context.Context, uuid.UUID, string, any) error         { return nil }
func (Noop) Invalidate(context.Context, uuid.UUID, ...string) error    { return nil }
