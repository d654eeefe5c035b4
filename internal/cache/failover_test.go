package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFailover(t *testing.T) (*FailoverViewCache, *miniredis.Miniredis, *MemoryViewCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	primary := NewRedisViewCache(client, time.Minute)
	fallback := NewMemoryViewCache(time.Minute)
	logger := zerolog.Nop()
	return NewFailoverViewCache(primary, fallback, &logger), mr, fallback
}

func TestFailover_PrimaryHealthy(t *testing.T) {
	c, _, fallback := setupFailover(t)
	ctx := context.Background()

	require.NoError(t, c.SetItemView(ctx, testView(1)))

	got, err := c.GetItemView(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)

	// Healthy primary keeps the fallback empty.
	inFallback, err := fallback.GetItemView(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, inFallback)
}

func TestFailover_FallsBackWhenPrimaryDies(t *testing.T) {
	c, mr, fallback := setupFailover(t)
	ctx := context.Background()

	mr.Close()

	// The write lands in the fallback and reads keep working.
	require.NoError(t, c.SetItemView(ctx, testView(1)))

	got, err := c.GetItemView(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)

	inFallback, err := fallback.GetItemView(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, inFallback)

	allowed, err := c.CheckRateLimit(ctx, 7, 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestFailover_InvalidateReachesBothSides(t *testing.T) {
	c, _, fallback := setupFailover(t)
	ctx := context.Background()

	require.NoError(t, fallback.SetItemView(ctx, testView(1)))
	require.NoError(t, c.SetItemView(ctx, testView(1)))

	require.NoError(t, c.InvalidateItemView(ctx, 1))

	got, err := c.GetItemView(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	inFallback, err := fallback.GetItemView(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, inFallback)
}
