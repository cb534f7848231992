package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/phrazzld/scry-jsonapi/internal/jsonapi"
	"github.com/phrazzld/scry-jsonapi/internal/platform/logger"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	Rate    float64                      // requests per second
	Burst   int                          // max burst; defaults to max(1, ceil(Rate))
	KeyFunc func(r *http.Request) string // default: client IP
	// CleanupInterval is how often idle limiters are pruned (default 1m).
	CleanupInterval time.Duration
	// MaxIdle is how long a limiter may go unused before it is pruned (default 5m).
	MaxIdle time.Duration
	// Now is the clock; tests override it.
	Now func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit applies a token bucket per client. Rejected requests receive a
// JSON:API 429 document and a Retry-After header. A non-positive Rate
// disables limiting.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Rate <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	if cfg.Burst <= 0 {
		cfg.Burst = max(1, int(math.Ceil(cfg.Rate)))
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Minute
	}
	if cfg.MaxIdle <= 0 {
		cfg.MaxIdle = 5 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	retryAfter := strconv.Itoa(max(1, int(math.Ceil(1/cfg.Rate))))

	var (
		mu          sync.Mutex
		limiters    = make(map[string]*limiterEntry)
		lastCleanup time.Time
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := cfg.KeyFunc(r)

			mu.Lock()
			now := cfg.Now()
			if now.Sub(lastCleanup) >= cfg.CleanupInterval {
				for k, e := range limiters {
					if now.Sub(e.lastSeen) > cfg.MaxIdle {
						delete(limiters, k)
					}
				}
				lastCleanup = now
			}
			entry, ok := limiters[key]
			if !ok {
				entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst)}
				limiters[key] = entry
			}
			entry.lastSeen = now
			mu.Unlock()

			if !entry.limiter.AllowN(now, 1) {
				logger.FromContextOrDefault(r.Context(), nil).Warn("rate limit exceeded",
					slog.String("client", key),
					slog.String("path", r.URL.Path))

				w.Header().Set("Retry-After", retryAfter)
				resp := &jsonapi.ErrorResponse{Err: jsonapi.NewError(http.StatusTooManyRequests,
					"Too many requests.", "Rate limit exceeded.")}
				_ = resp.Write(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
