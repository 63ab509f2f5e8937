package ratelimiter

import (
	"medibook-service/internal/app/contracts"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultIdleTTL = 10 * time.Minute

type actorLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ActorRateLimiter keeps one token bucket per actor id. Buckets idle for
// longer than idleTTL are dropped on the next Allow call.
type ActorRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*actorLimiter
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
	lastGC   time.Time
}

// NewActorRateLimiter allows perMinute events per actor with the given burst.
// A non-positive perMinute disables throttling.
func NewActorRateLimiter(perMinute, burst int) contracts.ActorRateLimiter {
	return newActorRateLimiter(perMinute, burst, time.Now)
}

func newActorRateLimiter(perMinute, burst int, now func() time.Time) *ActorRateLimiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	if burst < 1 {
		burst = 1
	}
	return &ActorRateLimiter{
		limiters: make(map[string]*actorLimiter),
		limit:    limit,
		burst:    burst,
		idleTTL:  defaultIdleTTL,
		now:      now,
		lastGC:   now(),
	}
}

func (l *ActorRateLimiter) Allow(actorID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictIdle(now)

	entry, exists := l.limiters[actorID]
	if !exists {
		entry = &actorLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[actorID] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

func (l *ActorRateLimiter) evictIdle(now time.Time) {
	if now.Sub(l.lastGC) < l.idleTTL {
		return
	}
	for actorID, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > l.idleTTL {
			delete(l.limiters, actorID)
		}
	}
	l.lastGC = now
}
