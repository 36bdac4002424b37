package querytokens

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/redis"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "tokens:"

// Store is the subset of the Redis client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

// Cache keeps weight maps in Redis, keyed by analyzer policy and query text.
// Cache failures are logged and treated as misses.
type Cache struct {
	store     Store
	namespace string
	ttl       time.Duration
	metrics   *metrics.Metrics
	group     singleflight.Group
	logger    *slog.Logger
	hits      atomic.Int64
	misses    atomic.Int64
}

// NewCache creates a Cache. namespace must change whenever the analyzer
// policy changes so that stale maps are never served.
func NewCache(store Store, namespace string, ttl time.Duration, m *metrics.Metrics) *Cache {
	return &Cache{
		store:     store,
		namespace: namespace,
		ttl:       ttl,
		metrics:   m,
		logger:    slog.Default().With("component", "token-cache"),
	}
}

func (c *Cache) Get(ctx context.Context, text string) (WeightMap, bool) {
	key := c.buildKey(text)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.miss()
		return nil, false
	}
	var weights WeightMap
	if err := json.Unmarshal([]byte(data), &weights); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.miss()
		return nil, false
	}
	c.hits.Add(1)
	c.metrics.CacheHitsTotal.Inc()
	c.logger.Debug("cache hit", "key", key)
	return weights, true
}

func (c *Cache) Set(ctx context.Context, text string, weights WeightMap) {
	key := c.buildKey(text)
	data, err := json.Marshal(weights)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached map for text or computes and stores it.
// The boolean reports a cache hit.
func (c *Cache) GetOrCompute(
	ctx context.Context,
	text string,
	computeFn func() (WeightMap, error),
) (WeightMap, bool, error) {
	if weights, ok := c.Get(ctx, text); ok {
		return weights, true, nil
	}
	val, err, _ := c.group.Do(c.buildKey(text), func() (interface{}, error) {
		weights, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, text, weights)
		return weights, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(WeightMap), false, nil
}

// Invalidate removes every cached weight map regardless of namespace.
func (c *Cache) Invalidate(ctx context.Context) (int64, error) {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return deleted, fmt.Errorf("invalidating token cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return deleted, nil
}

func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *Cache) miss() {
	c.misses.Add(1)
	c.metrics.CacheMissesTotal.Inc()
}

func (c *Cache) buildKey(text string) string {
	hash := sha256.Sum256([]byte(c.namespace + "\x00" + text))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
