package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewWithClient(client), mr
}

func TestKeyIsPrefixedAndStable(t *testing.T) {
	k1 := Key(PrefixSentiment, "some article text")
	k2 := Key(PrefixSentiment, "some article text")
	k3 := Key(PrefixTranslate, "some article text")

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Contains(t, k1, "sentiment:")
	// prefix + ":" + 64 hex chars
	assert.Len(t, k1, len(PrefixSentiment)+1+64)
}

func TestJSONRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	type result struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}

	var got result
	assert.False(t, c.GetJSON(ctx, PrefixSentiment, "text", &got))

	c.SetJSON(ctx, PrefixSentiment, "text", result{Label: "negative", Score: 0.82})
	require.True(t, c.GetJSON(ctx, PrefixSentiment, "text", &got))
	assert.Equal(t, "negative", got.Label)
	assert.InDelta(t, 0.82, got.Score, 1e-9)
}

func TestStringRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, ok := c.GetString(ctx, PrefixTranslate, "मनरेगा")
	assert.False(t, ok)

	c.SetString(ctx, PrefixTranslate, "मनरेगा", "MGNREGA")
	got, ok := c.GetString(ctx, PrefixTranslate, "मनरेगा")
	require.True(t, ok)
	assert.Equal(t, "MGNREGA", got)
}

func TestTTLPerOperation(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.SetString(ctx, PrefixTranslate, "a", "x")
	c.SetString(ctx, PrefixSchemes, "a", "y")

	assert.Equal(t, 24*time.Hour, mr.TTL(Key(PrefixTranslate, "a")))
	assert.Equal(t, 7*24*time.Hour, mr.TTL(Key(PrefixSchemes, "a")))
}

func TestExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.SetString(ctx, PrefixSentiment, "a", "x")
	mr.FastForward(25 * time.Hour)

	_, ok := c.GetString(ctx, PrefixSentiment, "a")
	assert.False(t, ok)
}

func TestDegradedCacheIsMissOnly(t *testing.T) {
	c := &Cache{} // no client attached
	ctx := context.Background()

	assert.False(t, c.Enabled())
	c.SetString(ctx, PrefixSentiment, "a", "x")
	_, ok := c.GetString(ctx, PrefixSentiment, "a")
	assert.False(t, ok)

	var dst map[string]any
	assert.False(t, c.GetJSON(ctx, PrefixSentiment, "a", &dst))
	assert.NoError(t, c.Close())
}

func TestUnreachableServerDegrades(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewWithClient(client)
	ctx := context.Background()

	c.SetString(ctx, PrefixSentiment, "a", "x")
	mr.Close()

	// Operations after the server goes away are misses, not failures.
	_, ok := c.GetString(ctx, PrefixSentiment, "a")
	assert.False(t, ok)
	c.SetString(ctx, PrefixSentiment, "b", "y")
}
