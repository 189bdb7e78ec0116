package ratelimit

import (
	"context"
	"sync"
	"time"
)

// SlidingWindow is an in-process sliding window limiter. It is correct for a
// single instance; use RedisSlidingWindow when several instances share traffic.
type SlidingWindow struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string][]time.Time
}

func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:   limit,
		window:  window,
		now:     time.Now,
		entries: make(map[string][]time.Time),
	}
}

func (s *SlidingWindow) Check(ctx context.Context, key string) (Result, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	timestamps := s.live(s.entries[key], now)
	reset := s.window
	if len(timestamps) > 0 {
		reset = timestamps[0].Add(s.window).Sub(now)
	}
	result := Result{
		Limit:        s.limit,
		Remaining:    remaining(s.limit, len(timestamps)),
		ResetSeconds: ceilSeconds(reset),
	}

	if len(timestamps) >= s.limit {
		s.entries[key] = timestamps
		return result, nil
	}

	s.entries[key] = append(timestamps, now)
	result.Allowed = true
	return result, nil
}

// live drops timestamps that have left the window. Timestamps are kept in
// insertion order so the first one is always the oldest.
func (s *SlidingWindow) live(timestamps []time.Time, now time.Time) []time.Time {
	i := 0
	for i < len(timestamps) && now.Sub(timestamps[i]) >= s.window {
		i++
	}
	return timestamps[i:]
}

// Prune removes keys with no requests inside the window.
func (s *SlidingWindow) Prune() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, timestamps := range s.entries {
		timestamps = s.live(timestamps, now)
		if len(timestamps) == 0 {
			delete(s.entries, key)
			continue
		}
		s.entries[key] = timestamps
	}
}

// PruneInterval is twice the window, but never under a minute.
func (s *SlidingWindow) PruneInterval() time.Duration {
	interval := 2 * s.window
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}

// Run prunes stale keys until ctx is cancelled.
func (s *SlidingWindow) Run(ctx context.Context) {
	ticker := time.NewTicker(s.PruneInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Prune()
		}
	}
}

func (s *SlidingWindow) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
