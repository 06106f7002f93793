package config

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, *CacheService) {
	server := miniredis.RunT(t)

	t.Setenv("REDIS_HOST", server.Host())
	t.Setenv("REDIS_PORT", server.Port())

	require.NoError(t, NewCacheService())
	cache := Redis
	t.Cleanup(func() {
		cache.Connection.Close()
		Redis = nil
	})

	return server, cache
}

func TestReleaseLockKeepsForeignOwner(t *testing.T) {
	server, cache := newTestCache(t)
	key := "mlm:jobs:rank_upgrade:lock"

	ok, err := cache.AcquireLock(key, "first", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = cache.AcquireLock(key, "second", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.ReleaseLock(key, "second"))
	assert.True(t, server.Exists(key))

	require.NoError(t, cache.ReleaseLock(key, "first"))
	assert.False(t, server.Exists(key))
}

func TestReleaseLockAfterExpiry(t *testing.T) {
	server, cache := newTestCache(t)
	key := "mlm:jobs:club_royalty:lock"

	ok, err := cache.AcquireLock(key, "first", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	server.FastForward(2 * time.Minute)

	ok, err = cache.AcquireLock(key, "second", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, cache.ReleaseLock(key, "first"))

	owner, err := server.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "second", owner)

	require.NoError(t, cache.ReleaseLock("mlm:jobs:missing:lock", "first"))
}
