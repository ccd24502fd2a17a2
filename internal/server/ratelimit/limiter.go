// Package ratelimit enforces a per-client request budget: an in-process
// token bucket per key, or a fixed window shared through Redis.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter decides whether another request from key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter grants each key a burst of n requests refilled evenly
// over window. Keys idle for a whole window are dropped, since their
// bucket is full again by then.
type MemoryLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*bucket
	limit     rate.Limit
	burst     int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryLimiter(n int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limiters:  make(map[string]*bucket),
		limit:     rate.Every(window / time.Duration(n)),
		burst:     n,
		window:    window,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(now)
	}

	b, ok := l.limiters[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = b
	}
	b.lastSeen = now

	return b.limiter.AllowN(now, 1), nil
}

func (l *MemoryLimiter) sweep(now time.Time) {
	for k, b := range l.limiters {
		if now.Sub(b.lastSeen) >= l.window {
			delete(l.limiters, k)
		}
	}
	l.lastSweep = now
}
