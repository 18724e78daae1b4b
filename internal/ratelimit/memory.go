package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is a sliding-window log limiter. A request is accepted when
// fewer than max accepted requests for the same key fall inside the trailing
// window. Rejected requests are not counted.
type MemoryLimiter struct {
	mu           sync.Mutex
	max          int
	window       time.Duration
	hits         map[string][]time.Time
	now          func() time.Time
	cleanupEvery time.Duration
}

type MemoryOption func(*MemoryLimiter)

func WithClock(now func() time.Time) MemoryOption {
	return func(l *MemoryLimiter) { l.now = now }
}

func WithCleanupEvery(d time.Duration) MemoryOption {
	return func(l *MemoryLimiter) { l.cleanupEvery = d }
}

func NewMemoryLimiter(max int, window time.Duration, opts ...MemoryOption) *MemoryLimiter {
	l := &MemoryLimiter{
		max:          max,
		window:       window,
		hits:         make(map[string][]time.Time),
		now:          time.Now,
		cleanupEvery: time.Minute,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Read the clock under the lock so each log stays sorted.
	now := l.now()

	hits := prune(l.hits[key], now.Add(-l.window))

	dec := Decision{Limit: l.max}
	if len(hits) < l.max {
		hits = append(hits, now)
		dec.Allowed = true
	}
	dec.Remaining = l.max - len(hits)
	if len(hits) > 0 {
		dec.ResetAfter = hits[0].Add(l.window).Sub(now)
	}

	if len(hits) == 0 {
		delete(l.hits, key)
	} else {
		l.hits[key] = hits
	}

	return dec, nil
}

// prune drops the hits at or before cutoff. hits is sorted oldest first.
func prune(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}

// Cleanup forgets keys whose every hit has left the window.
func (l *MemoryLimiter) Cleanup() {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, hits := range l.hits {
		if hits = prune(hits, cutoff); len(hits) == 0 {
			delete(l.hits, key)
		} else {
			l.hits[key] = hits
		}
	}
}

// Len reports the number of tracked keys.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.hits)
}

// StartJanitor runs Cleanup periodically until ctx is done.
func (l *MemoryLimiter) StartJanitor(ctx context.Context) {
	if l.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(l.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Cleanup()
			}
		}
	}()
}
