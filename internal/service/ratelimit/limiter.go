// Package ratelimit keeps one token bucket per key on top of x/time/rate.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter hands out tokens per key. Every key shares the same capacity and
// refill rate.
type Limiter struct {
	mu     sync.Mutex
	m      map[string]*rate.Limiter
	burst  int
	refill rate.Limit // tokens per second
	now    func() time.Time
}

// New returns a limiter whose buckets hold capacity tokens (at least one)
// and regain refillPerSec tokens per second.
func New(capacity, refillPerSec float64) *Limiter {
	return &Limiter{
		m:      make(map[string]*rate.Limiter),
		burst:  max(1, int(capacity)),
		refill: rate.Limit(refillPerSec),
		now:    time.Now,
	}
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.m[key]
	if !ok {
		lim = rate.NewLimiter(l.refill, l.burst)
		l.m[key] = lim
	}
	return lim
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string) bool {
	return l.get(key).AllowN(l.now(), 1)
}

// Prune drops buckets that have refilled completely, since a fresh bucket
// behaves the same.
func (l *Limiter) Prune() int {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for k, lim := range l.m {
		if lim.TokensAt(now) >= float64(l.burst) {
			delete(l.m, k)
			n++
		}
	}
	return n
}

// Len reports how many keys currently hold a bucket.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
