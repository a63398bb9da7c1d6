package otp

import (
	"sync"
	"time"

	"starmobiles/internal/domain/service"

	"golang.org/x/time/rate"
)

// idleEvictAfter drops limiters for recipients that have been quiet this long.
const idleEvictAfter = time.Hour

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// keyedLimiter keeps one token bucket per recipient.
type keyedLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	entries  map[string]*limiterEntry
	now      func() time.Time
	lastScan time.Time
}

// NewSendLimiter allows burst sends per key, refilling one every interval.
func NewSendLimiter(interval time.Duration, burst int) service.SendLimiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}

	return &keyedLimiter{
		limit:   limit,
		burst:   burst,
		entries: make(map[string]*limiterEntry),
		now:     time.Now,
	}
}

func (l *keyedLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictIdle(now)

	entry, ok := l.entries[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

func (l *keyedLimiter) evictIdle(now time.Time) {
	if now.Sub(l.lastScan) < idleEvictAfter {
		return
	}
	l.lastScan = now

	for key, entry := range l.entries {
		if now.Sub(entry.lastSeen) >= idleEvictAfter {
			delete(l.entries, key)
		}
	}
}
