package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
	"textile-qc/inspections/internal/metrics"
)

const (
	limiterIdleTTL     = 10 * time.Minute
	limiterCleanupTick = 5 * time.Minute
)

// IPRateLimiter keeps one token bucket per client IP. Buckets that stay idle
// for limiterIdleTTL are evicted by go-cache.
type IPRateLimiter struct {
	limiters *cache.Cache
	rps      rate.Limit
	burst    int
	metrics  *metrics.MetricsRegistry
}

// NewIPRateLimiter returns nil when rps is not positive, which disables limiting.
func NewIPRateLimiter(rps float64, burst int, metricsReg *metrics.MetricsRegistry) *IPRateLimiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{
		limiters: cache.New(limiterIdleTTL, limiterCleanupTick),
		rps:      rate.Limit(rps),
		burst:    burst,
		metrics:  metricsReg,
	}
}

func (l *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if v, found := l.limiters.Get(ip); found {
		limiter := v.(*rate.Limiter)
		// touch so active clients are not evicted
		l.limiters.SetDefault(ip, limiter)
		return limiter
	}

	limiter := rate.NewLimiter(l.rps, l.burst)
	// Add fails if another request created the bucket first; use that one
	if err := l.limiters.Add(ip, limiter, cache.DefaultExpiration); err != nil {
		if v, found := l.limiters.Get(ip); found {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

// Middleware rejects requests above the configured rate with 429.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !l.getLimiter(ip).Allow() {
			if l.metrics != nil {
				l.metrics.RateLimitedTotal.Inc()
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too many requests"}` + "\n"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
