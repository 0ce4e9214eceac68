package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter decides whether a client may make another request
type RateLimiter interface {
	Allow(key string) bool
}

// IPRateLimiter keeps one token bucket per client key. Buckets idle for
// longer than idleTTL are dropped on the next sweep.
type IPRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientBucket
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter allows rps requests per second per client with the given
// burst. A zero rps disables limiting and returns nil.
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = int(rps)
		if burst < 1 {
			burst = 1
		}
	}
	return &IPRateLimiter{
		clients: make(map[string]*clientBucket),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: 10 * time.Minute,
		now:     time.Now,
	}
}

// Allow consumes one token for key. A nil limiter allows everything.
func (l *IPRateLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	now := l.now()
	if now.Sub(l.lastSweep) > l.idleTTL {
		for k, b := range l.clients {
			if now.Sub(b.lastSeen) > l.idleTTL {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.clients[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	return b.limiter.AllowN(now, 1)
}
