// Package core defines the ports between services and the data layer, plus
// the small caching services that sit between them.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ibmec/pict-api/internal/domain/model"
)

// CacheRepository defines the interface for caching operations.
// This follows the hexagonal architecture pattern where the core defines interfaces
// and the data layer provides implementations.
type CacheRepository interface {
	// Set stores a value in the cache with the given key and TTL.
	// If TTL is 0, the key will not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value from the cache by key.
	// Returns nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}

// AdvisorDirectoryKey is the cache key (before prefixing) of the advisor listing.
const AdvisorDirectoryKey = "advisors:directory"

// AdvisorDirectoryCache caches the advisor listing students browse when
// choosing an advisor. A nil cache disables caching.
type AdvisorDirectoryCache struct {
	cache CacheRepository
	key   string
	ttl   time.Duration
}

// AdvisorDirectoryCacheOptions bundles dependencies for NewAdvisorDirectoryCache.
type AdvisorDirectoryCacheOptions struct {
	Cache     CacheRepository
	KeyPrefix string
	TTL       time.Duration
}

// NewAdvisorDirectoryCache creates a new AdvisorDirectoryCache.
func NewAdvisorDirectoryCache(opts AdvisorDirectoryCacheOptions) *AdvisorDirectoryCache {
	return &AdvisorDirectoryCache{
		cache: opts.Cache,
		key:   opts.KeyPrefix + AdvisorDirectoryKey,
		ttl:   opts.TTL,
	}
}

// Enabled reports whether a backing cache is configured.
func (c *AdvisorDirectoryCache) Enabled() bool {
	return c != nil && c.cache != nil && c.ttl > 0
}

// Key returns the fully prefixed cache key.
func (c *AdvisorDirectoryCache) Key() string { return c.key }

// Get returns the cached listing. ok is false on a miss.
func (c *AdvisorDirectoryCache) Get(ctx context.Context) (entries []model.AdvisorDirectoryEntry, ok bool, err error) {
	if !c.Enabled() {
		return nil, false, nil
	}
	raw, err := c.cache.Get(ctx, c.key)
	if err != nil || len(raw) == 0 {
		return nil, false, err
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("decode cached advisor directory: %w", err)
	}
	return entries, true, nil
}

// Set stores the listing for the configured TTL.
func (c *AdvisorDirectoryCache) Set(ctx context.Context, entries []model.AdvisorDirectoryEntry) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode advisor directory: %w", err)
	}
	return c.cache.Set(ctx, c.key, raw, c.ttl)
}

// Invalidate drops the cached listing. Call after approvals and advisor profile edits.
func (c *AdvisorDirectoryCache) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	_, err := c.cache.Delete(ctx, c.key)
	return err
}
