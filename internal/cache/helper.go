package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	s, err := client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside tries Redis first; on a miss it calls fetch, which must populate dest,
// then stores dest with ttl. Cache failures fall through to fetch.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	if found, err := GetJSON(ctx, key, dest); err == nil && found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	_ = SetJSON(ctx, key, dest, ttl)
	return nil
}

// RevokeToken blacklists a token id until its natural expiry.
func RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if client == nil || jti == "" {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	return client.Set(ctx, RevokedTokenKey(jti), "1", ttl).Err()
}

// IsRevoked reports whether the token id has been blacklisted.
// Without Redis nothing is ever revoked.
func IsRevoked(ctx context.Context, jti string) (bool, error) {
	if client == nil || jti == "" {
		return false, nil
	}
	n, err := client.Exists(ctx, RevokedTokenKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
