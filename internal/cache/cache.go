package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/roadtrip-planner/internal/weather"
)

// WeatherCache stores weather snapshots in Redis, keyed by coordinate bucket.
// Expiry is left to Redis TTLs.
type WeatherCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewWeatherCache constructs a WeatherCache whose entries live for
// weather.FreshFor.
func NewWeatherCache(client *redis.Client) *WeatherCache {
	return &WeatherCache{client: client, ttl: weather.FreshFor}
}

// key returns the Redis key for the given bucket.
func key(bucket string) string {
	return "weather:" + bucket
}

// Get retrieves a snapshot from cache.
// Returns nil, nil on a cache miss (not an error).
func (c *WeatherCache) Get(ctx context.Context, bucket string) (*weather.Snapshot, error) {
	val, err := c.client.Get(ctx, key(bucket)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get for bucket %s: %w", bucket, err)
	}

	var s weather.Snapshot
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("unmarshaling cached weather for bucket %s: %w", bucket, err)
	}

	return &s, nil
}

// Set stores a snapshot with the configured TTL.
func (c *WeatherCache) Set(ctx context.Context, bucket string, s weather.Snapshot) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling weather for bucket %s: %w", bucket, err)
	}

	if err := c.client.Set(ctx, key(bucket), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set for bucket %s: %w", bucket, err)
	}

	return nil
}

// Delete removes the cached entry for the given bucket.
func (c *WeatherCache) Delete(ctx context.Context, bucket string) error {
	if err := c.client.Del(ctx, key(bucket)).Err(); err != nil {
		return fmt.Errorf("cache delete for bucket %s: %w", bucket, err)
	}
	return nil
}
