// Package cache provides caching for rendered swatches and sampled palettes.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Config contains cache configuration.
type Config struct {
	SwatchCacheSizeMB int
	SwatchTTL         time.Duration
	SampleCacheSize   int
}

// Manager manages swatch and sample caches.
type Manager struct {
	swatchCache *bigcache.BigCache
	sampleCache *lru.Cache[string, []string]
}

// NewManager creates a new cache manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.SwatchTTL <= 0 {
		cfg.SwatchTTL = 10 * time.Minute
	}
	if cfg.SampleCacheSize <= 0 {
		cfg.SampleCacheSize = 1000
	}

	// Swatches are small PNG strips; 64 shards is plenty.
	swatchCacheConfig := bigcache.Config{
		Shards:             64,
		LifeWindow:         cfg.SwatchTTL,
		CleanWindow:        cfg.SwatchTTL / 2,
		MaxEntriesInWindow: 10000,
		MaxEntrySize:       16 * 1024,
		HardMaxCacheSize:   cfg.SwatchCacheSizeMB,
		Verbose:            false,
	}

	swatchCache, err := bigcache.New(context.Background(), swatchCacheConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create swatch cache: %w", err)
	}

	sampleCache, err := lru.New[string, []string](cfg.SampleCacheSize)
	if err != nil {
		swatchCache.Close()
		return nil, fmt.Errorf("failed to create sample cache: %w", err)
	}

	return &Manager{
		swatchCache: swatchCache,
		sampleCache: sampleCache,
	}, nil
}

// GetSwatch retrieves a rendered swatch from cache.
func (m *Manager) GetSwatch(key string) ([]byte, bool) {
	data, err := m.swatchCache.Get(key)
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetSwatch stores a rendered swatch in cache.
func (m *Manager) SetSwatch(key string, data []byte) error {
	return m.swatchCache.Set(key, data)
}

// GetSample retrieves a color list from cache.
// Callers must not modify the returned slice.
func (m *Manager) GetSample(key string) ([]string, bool) {
	return m.sampleCache.Get(key)
}

// SetSample stores a color list in cache. The cache takes ownership of colors.
func (m *Manager) SetSample(key string, colors []string) {
	m.sampleCache.Add(key, colors)
}

// SampleKey generates a cache key for a sampled palette.
func SampleKey(palette string, n int) string {
	return fmt.Sprintf("sample:%s:%d", palette, n)
}

// GradientKey generates a cache key for an interpolated palette.
func GradientKey(palette string, steps int) string {
	return fmt.Sprintf("gradient:%s:%d", palette, steps)
}

// AssignKey generates a cache key for a category assignment.
// The hash is order-sensitive: the same categories in another order assign
// different colors and get a different key.
func AssignKey(palette string, categories []string) string {
	base := fmt.Sprintf("assign:%s:%d", palette, len(categories))

	h := sha256.New()
	h.Write([]byte(base))
	for _, c := range categories {
		// Length-prefix each value so {"ab","c"} and {"a","bc"} differ.
		h.Write([]byte(fmt.Sprintf("%d:%s;", len(c), c)))
	}
	return base + ":" + hex.EncodeToString(h.Sum(nil))[:16]
}

// SwatchKey generates a cache key for a rendered swatch.
func SwatchKey(palette string, n, width, height int, vertical bool) string {
	orient := "h"
	if vertical {
		orient = "v"
	}
	return fmt.Sprintf("swatch:%s:%d:%dx%d:%s", palette, n, width, height, orient)
}

// Stats returns cache statistics.
func (m *Manager) Stats() map[string]interface{} {
	return map[string]interface{}{
		"swatch_cache_len": m.swatchCache.Len(),
		"swatch_cache_cap": m.swatchCache.Capacity(),
		"sample_cache_len": m.sampleCache.Len(),
	}
}

// Close closes the cache manager.
func (m *Manager) Close() error {
	return m.swatchCache.Close()
}
