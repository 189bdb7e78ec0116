package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindowScript trims the window, counts what is left and records the
// request when under the limit, all in one round trip.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')

local allowed = 0
if count < limit then
  redis.call('ZADD', key, now, ARGV[4])
  allowed = 1
end
redis.call('PEXPIRE', key, window)

local oldestScore = -1
if oldest[2] then
  oldestScore = tonumber(oldest[2])
end
return {allowed, count, oldestScore}
`)

// RedisSlidingWindow shares limiter state between instances through a Redis sorted set per key.
type RedisSlidingWindow struct {
	client redis.Scripter
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisSlidingWindow(client redis.Scripter, prefix string, limit int, window time.Duration) *RedisSlidingWindow {
	return &RedisSlidingWindow{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (r *RedisSlidingWindow) Check(ctx context.Context, key string) (Result, error) {
	now := r.now()
	nowMs := now.UnixMilli()

	values, err := slidingWindowScript.Run(ctx, r.client,
		[]string{r.prefix + key},
		nowMs, r.window.Milliseconds(), r.limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(values) != 3 {
		return Result{}, fmt.Errorf("rate limit script: unexpected reply %v", values)
	}

	allowed, count, oldest := values[0] == 1, int(values[1]), values[2]
	reset := r.window
	if oldest >= 0 {
		reset = time.UnixMilli(oldest).Add(r.window).Sub(now)
	}

	return Result{
		Allowed:      allowed,
		Limit:        r.limit,
		Remaining:    remaining(r.limit, count),
		ResetSeconds: ceilSeconds(reset),
	}, nil
}
