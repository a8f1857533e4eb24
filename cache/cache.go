package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog/log"

	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/config"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/model"
)

// Cache wraps Ristretto with Kennzahl-specific methods: one entry per
// metric code holding its full point array.
type Cache struct {
	client *ristretto.Cache
	ttl    time.Duration
}

// New creates a new cache instance with the given configuration
func New(cfg config.CacheConfig) (*Cache, error) {
	// Calculate max cost in bytes (convert MB to bytes)
	maxCost := int64(cfg.MaxSizeMB) * 1024 * 1024

	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: int64(cfg.CounterSize), // Number of keys to track frequency for admission
		MaxCost:     maxCost,                // Maximum cache size in bytes
		BufferItems: 64,                     // Number of keys per Get buffer
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("max_size_mb", cfg.MaxSizeMB).
		Int("ttl_seconds", cfg.TTLSeconds).
		Int("counter_size", cfg.CounterSize).
		Msg("Data cache initialized")

	return &Cache{
		client: client,
		ttl:    time.Duration(cfg.TTLSeconds) * time.Second,
	}, nil
}

// GetPoints retrieves the cached point set of a metric code.
// Returns (nil, false) on a miss.
func (c *Cache) GetPoints(code string) ([]model.DataPoint, bool) {
	if c.client == nil {
		return nil, false
	}
	v, found := c.client.Get(code)
	if !found {
		return nil, false
	}
	points, ok := v.([]model.DataPoint)
	return points, ok
}

// SetPoints stores the point set of a metric code. Cost is the point
// count so eviction pressure scales with dataset size. Writes are
// applied asynchronously by Ristretto; Wait makes the entry visible to
// the next GetPoints, which the loader's "second call hits the cache"
// contract depends on.
func (c *Cache) SetPoints(code string, points []model.DataPoint) bool {
	if c.client == nil {
		return false
	}
	cost := int64(len(points))
	if cost == 0 {
		cost = 1
	}
	ok := c.client.SetWithTTL(code, points, cost, c.ttl)
	c.client.Wait()
	return ok
}

// Delete removes one metric code from the cache.
func (c *Cache) Delete(code string) {
	if c.client == nil {
		return
	}
	c.client.Del(code)
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	if c.client == nil {
		return
	}
	c.client.Clear()
}

// Close cleanly shuts down the cache.
func (c *Cache) Close() {
	if c.client != nil {
		c.client.Close()
		log.Info().Msg("Cache closed")
	}
}

// MetricsSnapshot is a point-in-time view of cache performance.
type MetricsSnapshot struct {
	Hits        uint64  `json:"hits"`
	Misses      uint64  `json:"misses"`
	KeysAdded   uint64  `json:"keys_added"`
	KeysEvicted uint64  `json:"keys_evicted"`
	HitRatio    float64 `json:"hit_ratio"`
	TTLSeconds  int     `json:"ttl_seconds"`
}

// GetMetricsSnapshot returns current cache metrics as a snapshot
func (c *Cache) GetMetricsSnapshot() MetricsSnapshot {
	if c.client == nil || c.client.Metrics == nil {
		return MetricsSnapshot{TTLSeconds: int(c.ttl.Seconds())}
	}

	m := c.client.Metrics
	hits := m.Hits()
	misses := m.Misses()
	total := hits + misses

	hitRatio := 0.0
	if total > 0 {
		hitRatio = float64(hits) / float64(total)
	}

	return MetricsSnapshot{
		Hits:        hits,
		Misses:      misses,
		KeysAdded:   m.KeysAdded(),
		KeysEvicted: m.KeysEvicted(),
		HitRatio:    hitRatio,
		TTLSeconds:  int(c.ttl.Seconds()),
	}
}
