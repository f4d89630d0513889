package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	value := map[string]int64{"pending": 3, "approved": 1}
	c.Set(ctx, SummaryKey(42), value)

	var got map[string]int64
	require.NoError(t, c.Get(ctx, SummaryKey(42), &got))
	assert.Equal(t, value, got)
}

func TestCacheMiss(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	var got map[string]int64
	assert.ErrorIs(t, c.Get(ctx, SummaryKey(1), &got), ErrMiss)
}

func TestCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	c.Set(ctx, SummaryKey(0), map[string]int64{"pending": 9})
	c.Set(ctx, SummaryKey(7), map[string]int64{"pending": 2})
	c.Delete(ctx, SummaryKey(0), SummaryKey(7))

	var got map[string]int64
	assert.ErrorIs(t, c.Get(ctx, SummaryKey(0), &got), ErrMiss)
	assert.ErrorIs(t, c.Get(ctx, SummaryKey(7), &got), ErrMiss)
}

func TestCacheEntriesExpire(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c := NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	c.Set(ctx, TagSearchKey("wifi"), []string{"wifi", "wifi-dorm"})

	mr.FastForward(DefaultTTL * 2)

	var got []string
	assert.ErrorIs(t, c.Get(ctx, TagSearchKey("wifi"), &got), ErrMiss)
}

func TestDisabledCacheIsSafe(t *testing.T) {
	ctx := context.Background()

	var c *Cache
	assert.False(t, c.Enabled())
	assert.ErrorIs(t, c.Get(ctx, "k", nil), ErrMiss)
	c.Set(ctx, "k", "v")
	c.Delete(ctx, "k")
	assert.NoError(t, c.Close())

	disabled, err := New(ctx, Config{})
	require.NoError(t, err)
	assert.False(t, disabled.Enabled())
	assert.ErrorIs(t, disabled.Get(ctx, "k", nil), ErrMiss)
}

func TestKeyHelpers(t *testing.T) {
	assert.Equal(t, "summary:all", SummaryKey(0))
	assert.Equal(t, "summary:user:12", SummaryKey(12))
	assert.Equal(t, "tags:search:wifi", TagSearchKey("wifi"))
}
