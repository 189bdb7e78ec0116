package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real server when REDIS_ADDR is set, e.g. REDIS_ADDR=localhost:6379.
func TestRedisSlidingWindow(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	ctx := context.Background()
	limiter := NewRedisSlidingWindow(client, "test:ratelimit:", 2, time.Minute)
	key := uuid.NewString()

	first, err := limiter.Check(ctx, key)
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 2, first.Remaining)
	assert.Equal(t, 60, first.ResetSeconds)

	second, err := limiter.Check(ctx, key)
	require.NoError(t, err)
	assert.True(t, second.Allowed)
	assert.Equal(t, 1, second.Remaining)

	third, err := limiter.Check(ctx, key)
	require.NoError(t, err)
	assert.False(t, third.Allowed)
	assert.Equal(t, 0, third.Remaining)
	assert.LessOrEqual(t, third.ResetSeconds, 60)
}
