package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metusa-property/deal-analyzer/internal/config"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok := m.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", "v", 0))
	got, ok := m.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	require.NoError(t, m.Set(ctx, "k", "v2", 0))
	got, _ = m.Get(ctx, "k")
	assert.Equal(t, "v2", got)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	now := time.Now()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", "v", time.Hour))

	_, ok := m.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(2 * time.Hour)
	_, ok = m.Get(ctx, "k")
	assert.False(t, ok, "entry must lapse after its ttl")
}

func TestNewBackendSelection(t *testing.T) {
	c, err := New(config.CacheConfig{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	c, err = New(config.CacheConfig{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	_, err = New(config.CacheConfig{Backend: "memcached"})
	assert.Error(t, err)
}
