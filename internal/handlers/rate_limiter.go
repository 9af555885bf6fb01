package handlers

import (
	"sync"
	"time"
)

// rateLimiter is a fixed-window per-key counter. Windows are pruned lazily
// on each Allow call, so idle keys cost nothing between requests.
type rateLimiter struct {
	limit  int
	window time.Duration
	clock  func() time.Time

	mu      sync.Mutex
	buckets map[string]*rateBucket
}

type rateBucket struct {
	windowStart time.Time
	count       int
}

func newRateLimiter(limit int, window time.Duration, clock func() time.Time) *rateLimiter {
	if clock == nil {
		clock = time.Now
	}
	return &rateLimiter{
		limit:   limit,
		window:  window,
		clock:   clock,
		buckets: make(map[string]*rateBucket),
	}
}

// Allow reports whether the key may proceed and counts the attempt.
func (l *rateLimiter) Allow(key string) bool {
	if l.limit <= 0 {
		return true
	}
	now := l.clock()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(now)

	bucket, ok := l.buckets[key]
	if !ok || now.Sub(bucket.windowStart) >= l.window {
		l.buckets[key] = &rateBucket{windowStart: now, count: 1}
		return true
	}
	if bucket.count >= l.limit {
		return false
	}
	bucket.count++
	return true
}

func (l *rateLimiter) prune(now time.Time) {
	for key, bucket := range l.buckets {
		if now.Sub(bucket.windowStart) >= l.window {
			delete(l.buckets, key)
		}
	}
}
