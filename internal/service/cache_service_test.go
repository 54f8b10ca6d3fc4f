package service

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type mapCache struct {
	items   map[string][]byte
	ttls    map[string]time.Duration
	failGet bool
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mapCache) Get(ctx context.Context, key string, dest interface{}) error {
	if m.failGet {
		return errors.New("connection refused")
	}
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	m.ttls[key] = ttl
	return nil
}

func (m *mapCache) DeleteByPattern(ctx context.Context, pattern string) error {
	for key := range m.items {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.items, key)
		}
	}
	return nil
}

func TestCacheServiceRoundTripAndMetrics(t *testing.T) {
	repo := newMapCache()
	metrics := NewMetricsService()
	svc := NewCacheService(repo, metrics, time.Minute, nil, true)
	ctx := context.Background()

	var out []string
	assert.False(t, svc.Get(ctx, "k", &out))

	svc.Set(ctx, "k", []string{"a"}, 0)
	require.True(t, svc.Get(ctx, "k", &out))
	assert.Equal(t, []string{"a"}, out)
	assert.Equal(t, time.Minute, repo.ttls["k"])

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.CacheHits)
	assert.Equal(t, uint64(1), snapshot.CacheMisses)
	assert.InDelta(t, 0.5, snapshot.CacheHitRatio, 0.0001)
}

func TestCacheServiceInvalidateGeneration(t *testing.T) {
	repo := newMapCache()
	svc := NewCacheService(repo, nil, time.Minute, nil, true)
	ctx := context.Background()

	for _, key := range []string{generationListKey, GenerationKey("g1"), GenerationKey("g2")} {
		svc.Set(ctx, key, "x", 0)
	}

	svc.InvalidateGeneration(ctx, "g1")
	assert.NotContains(t, repo.items, generationListKey)
	assert.NotContains(t, repo.items, GenerationKey("g1"))
	assert.Contains(t, repo.items, GenerationKey("g2"))

	svc.Set(ctx, generationListKey, "x", 0)
	svc.InvalidateGeneration(ctx, "")
	assert.Empty(t, repo.items)
}

func TestCacheServiceDisabledAndFailures(t *testing.T) {
	ctx := context.Background()
	var out string

	disabled := NewCacheService(newMapCache(), nil, 0, nil, false)
	disabled.Set(ctx, "k", "v", 0)
	assert.False(t, disabled.Get(ctx, "k", &out))
	assert.False(t, disabled.Enabled())

	var nilSvc *CacheService
	assert.False(t, nilSvc.Get(ctx, "k", &out))
	nilSvc.InvalidateGeneration(ctx, "g1")

	broken := newMapCache()
	broken.failGet = true
	svc := NewCacheService(broken, nil, 0, nil, true)
	svc.Set(ctx, "k", "v", 0)
	assert.False(t, svc.Get(ctx, "k", &out))
}
