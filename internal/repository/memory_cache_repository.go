package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	gocache "github.com/patrickmn/go-cache"

	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

// MemoryCacheRepository is the in-process cache used when Redis is disabled.
// Values are stored as JSON so callers observe the same copy semantics as with Redis.
type MemoryCacheRepository struct {
	store *gocache.Cache
}

// NewMemoryCacheRepository builds an in-memory cache purging expired entries every cleanup interval.
func NewMemoryCacheRepository(defaultTTL, cleanup time.Duration) *MemoryCacheRepository {
	return &MemoryCacheRepository{store: gocache.New(defaultTTL, cleanup)}
}

// Get unmarshals the cached value into dest or returns appErrors.ErrCacheMiss.
func (r *MemoryCacheRepository) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := r.store.Get(key)
	if !ok {
		return appErrors.ErrCacheMiss
	}
	payload, ok := raw.([]byte)
	if !ok {
		r.store.Delete(key)
		return appErrors.ErrCacheMiss
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

// Set stores value as JSON for ttl.
func (r *MemoryCacheRepository) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}
	r.store.Set(key, payload, ttl)
	return nil
}

// DeleteByPattern removes every key matching the glob pattern.
func (r *MemoryCacheRepository) DeleteByPattern(_ context.Context, pattern string) error {
	for key := range r.store.Items() {
		matched, err := path.Match(pattern, key)
		if err != nil {
			return fmt.Errorf("match cache pattern %s: %w", pattern, err)
		}
		if matched {
			r.store.Delete(key)
		}
	}
	return nil
}
