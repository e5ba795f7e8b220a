package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrEmptyCacheKey is returned before any round trip when a caller passes "".
var ErrEmptyCacheKey = errors.New("cache key cannot be empty")

// RedisCacheRepo implements core.CacheRepository on Redis. It stores opaque
// payloads such as the JSON advisor directory; callers own key prefixes.
type RedisCacheRepo struct {
	client redis.UniversalClient
}

// NewRedisCacheRepo creates a new RedisCacheRepo.
func NewRedisCacheRepo(client redis.UniversalClient) *RedisCacheRepo {
	return &RedisCacheRepo{client: client}
}

// Set stores value under key for ttl. A zero ttl keeps the key until deleted.
func (r *RedisCacheRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyCacheKey
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// Get returns the payload under key, or nil without error on a miss.
func (r *RedisCacheRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyCacheKey
	}
	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("cache get %q: %w", key, err)
	}
	return raw, nil
}

// Delete removes key and reports whether it existed.
func (r *RedisCacheRepo) Delete(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyCacheKey
	}
	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("cache delete %q: %w", key, err)
	}
	return n > 0, nil
}

// Health pings Redis.
func (r *RedisCacheRepo) Health(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache ping: %w", err)
	}
	return nil
}
