package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"atscore/internal/errors"

	"golang.org/x/time/rate"
)

// limiterEvictionInterval controls how often idle per-key limiters are
// dropped. A key idle for longer than one interval loses its bucket.
const limiterEvictionInterval = 10 * time.Minute

// RateLimiter hands out one token bucket per key (client IP or API key)
// and evicts buckets that have gone idle.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*rate.Limiter
	lastSeen map[string]time.Time

	perSecond rate.Limit
	burst     int

	stop   chan struct{}
	logger *errors.Logger
}

// NewRateLimiter creates a limiter admitting requestsPerMin requests per
// minute per key with the given burst capacity. The window argument is
// accepted for config compatibility but the token bucket defines the
// effective window.
func NewRateLimiter(requestsPerMin int, window time.Duration, burstCapacity int, logger *errors.Logger) *RateLimiter {
	_ = window

	rl := &RateLimiter{
		buckets:   make(map[string]*rate.Limiter),
		lastSeen:  make(map[string]time.Time),
		perSecond: rate.Limit(float64(requestsPerMin) / 60.0),
		burst:     burstCapacity,
		stop:      make(chan struct{}),
		logger:    logger,
	}

	go rl.evictLoop()
	return rl
}

// GetLimiter returns the bucket for key, creating it on first use.
func (rl *RateLimiter) GetLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	bucket, ok := rl.buckets[key]
	if !ok {
		bucket = rate.NewLimiter(rl.perSecond, rl.burst)
		rl.buckets[key] = bucket
	}
	rl.lastSeen[key] = time.Now()
	return bucket
}

// Allow reports whether a request under key may proceed right now.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.GetLimiter(key).Allow()
}

// GetStats returns limiter statistics for the stats endpoint.
func (rl *RateLimiter) GetStats() map[string]any {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]any{
		"active_limiters": len(rl.buckets),
		"rate_per_second": float64(rl.perSecond),
		"rate_per_minute": float64(rl.perSecond) * 60.0,
		"burst_capacity":  rl.burst,
	}
}

func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(limiterEvictionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle(limiterEvictionInterval)
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) evictIdle(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	for key, seen := range rl.lastSeen {
		if seen.Before(cutoff) {
			delete(rl.buckets, key)
			delete(rl.lastSeen, key)
		}
	}

	if rl.logger != nil {
		rl.logger.Debug("Rate limiter eviction completed",
			"remaining_limiters", len(rl.buckets))
	}
}

// Close stops the eviction goroutine.
func (rl *RateLimiter) Close() {
	close(rl.stop)
}

// rateLimitMiddleware rejects requests whose key has exhausted its bucket.
// With rate limiting disabled it is a pass-through.
func (s *Server) rateLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	if s.RateLimit == nil || !s.RateLimit.Enabled {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key := getRateLimitKey(r, s.RateLimit.ByAPIKey, s.RateLimit.ByIP)
			if key == "" {
				next(w, r)
				return
			}

			if !s.RateLimiter.Allow(key) {
				s.Logger.Info("Rate limit exceeded",
					"key", key,
					"endpoint", r.URL.Path,
					"client_ip", getClientIP(r))
				writeErrorResponse(w, "Rate limit exceeded", "Too many requests", http.StatusTooManyRequests)
				return
			}

			next(w, r)
		}
	}
}

// getRateLimitKey picks the limiting dimension for a request. API key wins
// over IP when both dimensions are enabled and a key is present.
func getRateLimitKey(r *http.Request, byAPIKey, byIP bool) string {
	if byAPIKey {
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
				apiKey = after
			}
		}
		if apiKey != "" {
			return "api:" + apiKey
		}
	}

	if byIP {
		return "ip:" + getClientIP(r)
	}

	return ""
}

// getClientIP resolves the client address, preferring proxy headers over
// the raw connection address.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := parseFirstIP(xff); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// parseFirstIP returns the first syntactically valid IP in a
// comma-separated list, as found in X-Forwarded-For.
func parseFirstIP(list string) string {
	for candidate := range strings.SplitSeq(list, ",") {
		candidate = strings.TrimSpace(candidate)
		if net.ParseIP(candidate) != nil {
			return candidate
		}
	}
	return ""
}
