package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestWindow(limit int, window time.Duration) (*SlidingWindow, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	limiter := NewSlidingWindow(limit, window)
	limiter.now = clock.Now
	return limiter, clock
}

func TestSlidingWindow_AllowsUpToLimit(t *testing.T) {
	ctx := context.Background()
	limiter, clock := newTestWindow(5, 15*time.Minute)

	for i := 0; i < 5; i++ {
		res, err := limiter.Check(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i+1)
		assert.Equal(t, 5-i, res.Remaining)
		clock.Advance(time.Minute)
	}

	res, err := limiter.Check(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, 5, res.Limit)
	// The first request was 5 minutes ago, so it leaves the window in 10.
	assert.Equal(t, 600, res.ResetSeconds)

	other, err := limiter.Check(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, other.Allowed)
	assert.Equal(t, 900, other.ResetSeconds)
}

func TestSlidingWindow_SlidesOldRequestsOut(t *testing.T) {
	ctx := context.Background()
	limiter, clock := newTestWindow(2, time.Minute)

	_, _ = limiter.Check(ctx, "k")
	clock.Advance(30 * time.Second)
	_, _ = limiter.Check(ctx, "k")

	res, _ := limiter.Check(ctx, "k")
	assert.False(t, res.Allowed)
	assert.Equal(t, 30, res.ResetSeconds)

	clock.Advance(30 * time.Second)
	res, _ = limiter.Check(ctx, "k")
	assert.True(t, res.Allowed)
}

func TestSlidingWindow_RejectedRequestsAreNotRecorded(t *testing.T) {
	ctx := context.Background()
	limiter, clock := newTestWindow(1, time.Minute)

	_, _ = limiter.Check(ctx, "k")
	for i := 0; i < 10; i++ {
		clock.Advance(time.Second)
		res, _ := limiter.Check(ctx, "k")
		assert.False(t, res.Allowed)
	}

	clock.Advance(50 * time.Second)
	res, _ := limiter.Check(ctx, "k")
	assert.True(t, res.Allowed)
}

func TestSlidingWindow_Prune(t *testing.T) {
	ctx := context.Background()
	limiter, clock := newTestWindow(3, time.Minute)

	_, _ = limiter.Check(ctx, "a")
	clock.Advance(45 * time.Second)
	_, _ = limiter.Check(ctx, "b")
	clock.Advance(30 * time.Second)

	limiter.Prune()
	assert.Equal(t, 1, limiter.size())
}

func TestSlidingWindow_PruneInterval(t *testing.T) {
	short := NewSlidingWindow(1, time.Second)
	assert.Equal(t, time.Minute, short.PruneInterval())

	long := NewSlidingWindow(1, 15*time.Minute)
	assert.Equal(t, 30*time.Minute, long.PruneInterval())
}

func TestSlidingWindow_ConcurrentChecksNeverExceedLimit(t *testing.T) {
	ctx := context.Background()
	limiter := NewSlidingWindow(5, time.Minute)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := limiter.Check(ctx, "shared")
			if err == nil && res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 5, allowed)
}

func TestSlidingWindow_RunStopsOnCancel(t *testing.T) {
	limiter := NewSlidingWindow(1, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		limiter.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
