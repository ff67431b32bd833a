package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimit limits mutating requests per client address. A limit of 0
// disables the middleware entirely.
func RateLimit(limit float64, burst int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}

		limiters := sync.Map{} // client host -> *cachedLimiter

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			limiter := getOrCreateLimiter(&limiters, host, limit, burst, 5*time.Minute)
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type cachedLimiter struct {
	limiter   *rate.Limiter
	expiresAt time.Time
}

func getOrCreateLimiter(limiters *sync.Map, key string, limit float64, burst int, ttl time.Duration) *rate.Limiter {
	if cached, ok := limiters.Load(key); ok {
		c := cached.(*cachedLimiter)
		if time.Now().Before(c.expiresAt) {
			return c.limiter
		}
		// expired, need to create new
	}

	limiter := rate.NewLimiter(rate.Limit(limit), burst)
	limiters.Store(key, &cachedLimiter{
		limiter:   limiter,
		expiresAt: time.Now().Add(ttl),
	})
	return limiter
}
