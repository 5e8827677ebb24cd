package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Symbol string    `json:"symbol"`
	Closes []float64 `json:"closes"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	in := payload{Symbol: "EURUSD=X", Closes: []float64{1.08, 1.09}}
	require.NoError(t, mc.Set(ctx, "prices:EURUSD=X", in, time.Minute))

	var out payload
	require.NoError(t, mc.Get(ctx, "prices:EURUSD=X", &out))
	assert.Equal(t, in, out)

	var s string
	require.NoError(t, mc.Set(ctx, "raw", "hello", 0))
	require.NoError(t, mc.Get(ctx, "raw", &s))
	assert.Equal(t, "hello", s)
}

func TestMemoryCacheMissAndExpiry(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }

	var out payload
	assert.ErrorIs(t, mc.Get(ctx, "missing", &out), ErrCacheMiss)

	require.NoError(t, mc.Set(ctx, "k", payload{Symbol: "A"}, time.Second))
	ok, err := mc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	assert.ErrorIs(t, mc.Get(ctx, "k", &out), ErrCacheMiss)
	assert.Equal(t, 0, mc.Len())
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { now = now.Add(time.Millisecond); return now }

	require.NoError(t, mc.Set(ctx, "a", 1, 0))
	require.NoError(t, mc.Set(ctx, "b", 2, 0))
	var v int
	require.NoError(t, mc.Get(ctx, "a", &v))
	require.NoError(t, mc.Set(ctx, "c", 3, 0))

	assert.NoError(t, mc.Get(ctx, "a", &v))
	assert.ErrorIs(t, mc.Get(ctx, "b", &v), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "c", &v))
	assert.Equal(t, 3, v)
}

func TestLayeredCachePromotesFromRemote(t *testing.T) {
	ctx := context.Background()
	remote := NewMemoryCache()
	lc := NewLayeredCache(remote)
	defer lc.Close()

	require.NoError(t, remote.Set(ctx, "k", payload{Symbol: "MSFT"}, time.Hour))

	var out payload
	require.NoError(t, lc.Get(ctx, "k", &out))
	assert.Equal(t, "MSFT", out.Symbol)

	// served from L1 once the remote entry is gone
	require.NoError(t, remote.Delete(ctx, "k"))
	out = payload{}
	require.NoError(t, lc.Get(ctx, "k", &out))
	assert.Equal(t, "MSFT", out.Symbol)

	require.NoError(t, lc.Delete(ctx, "k"))
	assert.ErrorIs(t, lc.Get(ctx, "k", &out), ErrCacheMiss)
}

func TestLayeredCacheWriteThrough(t *testing.T) {
	ctx := context.Background()
	remote := NewMemoryCache()
	lc := NewLayeredCache(remote, WithLayeredMemoryTTL(time.Minute))
	defer lc.Close()

	require.NoError(t, lc.Set(ctx, "k", payload{Symbol: "AAPL"}, time.Hour))

	var out payload
	require.NoError(t, remote.Get(ctx, "k", &out))
	assert.Equal(t, "AAPL", out.Symbol)

	ok, err := lc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisKeyWrapping(t *testing.T) {
	c := &RedisCache{prefix: "fundamentals"}
	assert.Equal(t, "fundamentals:prices:AAPL", c.wrapKey(Key("prices", "AAPL")))
	assert.Equal(t, []string{"fundamentals:a", "fundamentals:b"}, c.wrapKeys("a", "b"))

	bare := &RedisCache{}
	assert.Equal(t, "k", bare.wrapKey("k"))
}
