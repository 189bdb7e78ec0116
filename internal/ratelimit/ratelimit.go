package ratelimit

import (
	"context"
	"math"
	"time"
)

// Result is the outcome of a single limiter check.
type Result struct {
	Allowed      bool
	Limit        int
	Remaining    int
	ResetSeconds int
}

// Limiter records a request for key and reports whether it is allowed.
type Limiter interface {
	Check(ctx context.Context, key string) (Result, error)
}

func ceilSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

func remaining(limit, used int) int {
	if used >= limit {
		return 0
	}
	return limit - used
}
