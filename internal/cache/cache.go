// Package cache provides the response cache for third-party lookups. Sold
// prices, rental valuations and transport lookups change slowly, so repeat
// requests within the TTL are served locally instead of re-hitting the
// upstream APIs and their rate limits.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/metusa-property/deal-analyzer/internal/config"
)

// Cache stores string payloads (typically JSON) under a key with a TTL.
// A miss and an expired entry are indistinguishable to callers.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// New builds the configured backend. Memory is the default; redis is for
// multi-instance deployments where caches should be shared.
func New(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(), nil
	case "redis":
		return NewRedis(cfg.RedisURL)
	default:
		return nil, eris.Errorf("cache: unknown backend %q", cfg.Backend)
	}
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// Memory is an in-process cache with lazy expiry. Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", false
	}
	return e.value, true
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}
