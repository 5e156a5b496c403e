// Package ratelimit provides per-client rate limiting using the token
// bucket algorithm.
package ratelimit

import (
	"sync"
	"time"
)

// bucket tracks tokens for a single client. Tokens refill continuously
// at the configured rate up to the burst capacity.
type bucket struct {
	tokens     float64
	lastRefill time.Time
	lastAccess time.Time
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter manages token buckets for multiple clients. A zero or
// negative limit disables limiting.
type Limiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	limit      int     // requests per minute, also burst capacity
	refillRate float64 // tokens per second
	stop       chan struct{}
	stopOnce   sync.Once
}

// staleAfter is how long an idle client's bucket survives before the
// cleanup goroutine drops it.
const staleAfter = 10 * time.Minute

// NewLimiter creates a limiter allowing perMinute requests per client.
func NewLimiter(perMinute int) *Limiter {
	l := &Limiter{
		buckets:    make(map[string]*bucket),
		limit:      perMinute,
		refillRate: float64(perMinute) / 60.0,
		stop:       make(chan struct{}),
	}
	if perMinute > 0 {
		go l.cleanupLoop()
	}
	return l
}

// Allow reports whether the client may proceed, consuming one token if
// so, and returns rate limit status for response headers.
func (l *Limiter) Allow(clientID string) (bool, Info) {
	if l.limit <= 0 {
		return true, Info{Allowed: true}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[clientID]
	if !ok {
		b = &bucket{tokens: float64(l.limit), lastRefill: now}
		l.buckets[clientID] = b
	}

	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = min(float64(l.limit), b.tokens+elapsed*l.refillRate)
	b.lastRefill = now
	b.lastAccess = now

	info := Info{Limit: l.limit}
	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		info.Allowed = true
		info.Remaining = int(b.tokens)
		info.ResetTime = refillTime(now, float64(l.limit)-b.tokens, l.refillRate)
		return true, info
	}

	info.Remaining = 0
	info.RetryAfter = time.Duration((1.0 - b.tokens) / l.refillRate * float64(time.Second))
	info.ResetTime = refillTime(now, float64(l.limit)-b.tokens, l.refillRate)
	return false, info
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(staleAfter / 2)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case now := <-ticker.C:
			l.mu.Lock()
			for id, b := range l.buckets {
				if now.Sub(b.lastAccess) > staleAfter {
					delete(l.buckets, id)
				}
			}
			l.mu.Unlock()
		}
	}
}

// refillTime returns when the bucket will be full again.
func refillTime(now time.Time, missing, rate float64) time.Time {
	if missing <= 0 {
		return now
	}
	return now.Add(time.Duration(missing / rate * float64(time.Second)))
}
