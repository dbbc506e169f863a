package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// RateLimiter throttles form submissions to one per window per remote
// address. It protects the quote and contact endpoints from repeat posts.
type RateLimiter struct {
	visitors sync.Map
	window   time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter starts a limiter with a background sweep of stale entries.
// Call Stop when the limiter is no longer needed.
func NewRateLimiter(window time.Duration) *RateLimiter {
	rl := &RateLimiter{window: window, stop: make(chan struct{})}
	go rl.sweep()
	return rl
}

// Stop ends the background sweep. Idempotent.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			now := time.Now()
			rl.visitors.Range(func(key, value any) bool {
				if now.Sub(value.(time.Time)) > rl.window {
					rl.visitors.Delete(key)
				}
				return true
			})
		}
	}
}

// Limit wraps a handler with the per-address throttle.
func (rl *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if last, ok := rl.visitors.Load(ip); ok {
			if time.Since(last.(time.Time)) < rl.window {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				http.Error(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}
		rl.visitors.Store(ip, time.Now())
		next(w, r)
	}
}
