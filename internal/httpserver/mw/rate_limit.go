package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrSnakeDoc/campstats/internal/utils"
)

// RateLimitConfig sizes the per-client token buckets guarding page renders.
// Every page request may trigger a metadata fetch, so the limit is per client IP.
type RateLimitConfig struct {
	Burst             int           // bucket capacity
	RefillPerIPPerMin int           // tokens added per minute
	MaxEntries        int           // idle buckets are evicted early once the table reaches this size, 0 = unbounded
	SweepInterval     time.Duration // default 1m
	IdleTTL           time.Duration // default 15m
	TrustProxy        bool          // resolve IP from proxy headers when true

	now func() time.Time // tests only
}

type bucket struct {
	mu      sync.Mutex
	tokens  float64
	lastRef time.Time

	// read by the sweeper without holding mu
	lastSeen atomic.Int64
}

type pageLimiter struct {
	cfg      RateLimitConfig
	rate     float64 // tokens per second
	capacity float64

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newLimiter(cfg RateLimitConfig) *pageLimiter {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	cfg.Burst = max(cfg.Burst, 1)
	cfg.RefillPerIPPerMin = max(cfg.RefillPerIPPerMin, 1)
	if cfg.now == nil {
		cfg.now = time.Now
	}
	return &pageLimiter{
		cfg:       cfg,
		rate:      float64(cfg.RefillPerIPPerMin) / 60.0,
		capacity:  float64(cfg.Burst),
		buckets:   make(map[string]*bucket, 256),
		lastSweep: cfg.now(),
	}
}

// bucketFor returns the client's bucket, creating a full one on first sight.
func (l *pageLimiter) bucketFor(key string, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.cfg.SweepInterval ||
		(l.cfg.MaxEntries > 0 && len(l.buckets) >= l.cfg.MaxEntries) {
		l.evictIdleLocked(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.capacity, lastRef: now}
		b.lastSeen.Store(now.UnixNano())
		l.buckets[key] = b
	}
	return b
}

// take spends one token for key. remaining is what is left after this request,
// retryAfter is only set when the request is refused.
func (l *pageLimiter) take(key string, now time.Time) (ok bool, remaining int, retryAfter int) {
	b := l.bucketFor(key, now)

	b.mu.Lock()
	defer b.mu.Unlock()

	if elapsed := now.Sub(b.lastRef).Seconds(); elapsed > 0 {
		b.tokens = math.Min(l.capacity, b.tokens+elapsed*l.rate)
		b.lastRef = now
	}
	b.lastSeen.Store(now.UnixNano())

	if b.tokens < 1 {
		return false, 0, max(int(math.Ceil((1-b.tokens)/l.rate)), 1)
	}
	b.tokens--
	return true, int(b.tokens), 0
}

// evictIdleLocked drops buckets nobody has touched for IdleTTL. Caller holds l.mu.
func (l *pageLimiter) evictIdleLocked(now time.Time) {
	cutoff := now.Add(-l.cfg.IdleTTL).UnixNano()
	for key, b := range l.buckets {
		if b.lastSeen.Load() < cutoff {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

func (l *pageLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// RateLimit refuses page requests beyond the client's bucket with 429.
// Every response carries X-RateLimit-Limit and X-RateLimit-Remaining.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newLimiter(cfg)
	limit := strconv.Itoa(l.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, remaining, retry := l.take(utils.ClientIP(r, l.cfg.TrustProxy), l.cfg.now())

			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !ok {
				h.Set("Retry-After", strconv.Itoa(retry))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
