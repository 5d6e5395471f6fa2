// Package cache holds small in-memory caches used by the dashboard and API.
package cache

import (
	"time"
)

// Cache is a keyed store with per-entry expiry.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	SetWithTTL(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	// Purge drops every entry.
	Purge()
	Len() int
	Stats() Stats
}

// Stats represents cache performance metrics
type Stats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	Size      int     `json:"size"`
	MaxSize   int     `json:"max_size"`
	HitRate   float64 `json:"hit_rate"`
}

// Config sizes a cache. A zero DefaultTTL means entries never expire.
type Config struct {
	MaxSize    int           `yaml:"max_size" json:"max_size"`
	DefaultTTL time.Duration `yaml:"default_ttl" json:"default_ttl"`
}

// DefaultConfig suits one entry per worktree on a developer machine.
func DefaultConfig() Config {
	return Config{
		MaxSize:    256,
		DefaultTTL: 30 * time.Second,
	}
}
