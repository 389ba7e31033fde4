package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetSet(t *testing.T) {
	c := New()

	c.Set("k", "v", time.Minute)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCache_TTLExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := NewWithClock(clock)

	c.Set("k", 42, time.Second)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	clock.Advance(1100 * time.Millisecond)

	_, ok = c.Get("k")
	assert.False(t, ok, "entry should expire after its TTL")
	assert.Zero(t, c.Len(), "expired entry should be deleted on read")
}

func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := NewWithClock(clock)

	c.Set("k", "forever", 0)
	clock.Advance(24 * time.Hour)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "forever", v)
}

func TestWrap_MemoizesByArgument(t *testing.T) {
	c := New()
	calls := 0
	fn := Wrap(c, "test", time.Minute, func(_ context.Context, arg string) (string, error) {
		calls++
		return "result-" + arg, nil
	})

	r1, err := fn(context.Background(), "a")
	require.NoError(t, err)
	r2, err := fn(context.Background(), "a")
	require.NoError(t, err)

	assert.Equal(t, "result-a", r1)
	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, calls, "second identical call should hit the cache")

	_, err = fn(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "different argument should miss")
}

func TestWrap_DoesNotCacheErrors(t *testing.T) {
	c := New()
	calls := 0
	fn := Wrap(c, "test", time.Minute, func(_ context.Context, _ string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("upstream down")
		}
		return "ok", nil
	})

	_, err := fn(context.Background(), "a")
	require.Error(t, err)

	r, err := fn(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "ok", r)
	assert.Equal(t, 2, calls, "a failed call must be retried, not served from cache")
}

func TestWrap_ExpiryRefetches(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := NewWithClock(clock)
	calls := 0
	fn := Wrap(c, "test", time.Second, func(_ context.Context, _ int) (int, error) {
		calls++
		return calls, nil
	})

	r, err := fn(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, r)

	clock.Advance(2 * time.Second)

	r, err = fn(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, r)
}

func TestOnGet_ObservesHitsAndMisses(t *testing.T) {
	c := New()
	hits, misses := 0, 0
	c.OnGet(func(hit bool) {
		if hit {
			hits++
		} else {
			misses++
		}
	})

	c.Set("k", 1, time.Minute)
	c.Get("k")
	c.Get("other")

	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}
