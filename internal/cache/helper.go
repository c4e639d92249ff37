package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// GetJSON looks up key and decodes the stored JSON into dest. The boolean
// reports whether a value was found; a nil client and a missing key both
// read as a miss, never an error.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	raw, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
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

// SetJSON stores v under key as JSON with the given TTL. A nil client is a
// no-op.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, encoded, ttl).Err()
}

// CacheAside reads key into dest, falling back to fetch on a miss. fetch
// must populate dest itself; the result is then written back under key.
// The write-back is best-effort, a cache failure never fails the read.
func CacheAside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	hit, err := GetJSON(ctx, key, dest)
	if err != nil {
		return err
	}
	if hit {
		return nil
	}
	if err := fetch(); err != nil {
		return err
	}
	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}
