package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// KeyFunc extracts the bucket key for a request.
type KeyFunc func(*http.Request) string

// RateLimiter hands out one token bucket per key.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMinute events per key, with a burst of one.
// Buckets idle for longer than ten minutes are dropped on access.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    1,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

func (rl *RateLimiter) limiter(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for k, e := range rl.limiters {
		if now.Sub(e.lastSeen) > rl.idle {
			delete(rl.limiters, k)
		}
	}
	e, ok := rl.limiters[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = e
	}
	e.lastSeen = now
	return e.lim
}

// Allow reports whether an event for key may happen now, and charges it if so.
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.now()
	return rl.limiter(key, now).AllowN(now, 1)
}

// Ready reports whether key has a token available without spending it.
func (rl *RateLimiter) Ready(key string) bool {
	now := rl.now()
	return rl.limiter(key, now).TokensAt(now) >= 1
}

// Charge spends one token for key.
func (rl *RateLimiter) Charge(key string) {
	now := rl.now()
	rl.limiter(key, now).AllowN(now, 1)
}

// Middleware rejects requests over the limit with 429. Only requests that end
// in a 2xx status are charged, so a failed attempt can be retried at once.
func (rl *RateLimiter) Middleware(key KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if !rl.Ready(k) {
				slog.Warn("Rate limit exceeded", "key", k, "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"too many submissions, try again shortly"}`))
				return
			}

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status >= 200 && status < 300 {
				rl.Charge(k)
			}
		})
	}
}
