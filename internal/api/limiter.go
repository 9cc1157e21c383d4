package api

import (
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/metrics"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an unused bucket is kept before Sweep drops it.
const limiterIdleTTL = 10 * time.Minute

// RateLimiter keeps one token bucket per client host.
type RateLimiter struct {
	limiters sync.Map // map[string]*limiterEntry
	cfg      config.APIRateLimitConfig
	now      func() time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64
}

func newRateLimiter(cfg config.APIRateLimitConfig) *RateLimiter {
	return &RateLimiter{cfg: cfg, now: time.Now}
}

func (l *RateLimiter) enabled() bool {
	return l != nil && l.cfg.RPS > 0
}

func (l *RateLimiter) getLimiter(key string) *rate.Limiter {
	now := l.now().UnixNano()
	if v, ok := l.limiters.Load(key); ok {
		if entry, ok := v.(*limiterEntry); ok {
			entry.lastSeen.Store(now)
			return entry.lim
		}
	}

	burst := l.cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	entry := &limiterEntry{lim: rate.NewLimiter(rate.Limit(l.cfg.RPS), burst)}
	entry.lastSeen.Store(now)
	actual, loaded := l.limiters.LoadOrStore(key, entry)
	if loaded {
		if actualEntry, ok := actual.(*limiterEntry); ok {
			actualEntry.lastSeen.Store(now)
			return actualEntry.lim
		}
	}
	return entry.lim
}

// Sweep drops buckets unused for limiterIdleTTL and returns how many were removed.
func (l *RateLimiter) Sweep() int {
	cutoff := l.now().Add(-limiterIdleTTL).UnixNano()
	removed := 0
	l.limiters.Range(func(key, v any) bool {
		if entry, ok := v.(*limiterEntry); ok && entry.lastSeen.Load() < cutoff {
			l.limiters.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// Len returns the number of buckets currently held.
func (l *RateLimiter) Len() int {
	n := 0
	l.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// quota is a fixed-window counter on mutating requests, kept in a shared
// store so that several API instances see the same numbers.
type quota struct {
	store  domain.RateLimitStore
	limit  int
	window time.Duration
	logger *zerolog.Logger
}

func newQuota(cfg config.APIQuotaConfig, store domain.RateLimitStore, logger *zerolog.Logger) *quota {
	if !cfg.Enabled || store == nil {
		return nil
	}
	return &quota{
		store:  store,
		limit:  cfg.Limit,
		window: time.Duration(cfg.WindowSeconds) * time.Second,
		logger: logger,
	}
}

func (q *quota) allow(r *http.Request, key string) bool {
	allowed, err := q.store.CheckRateLimit(r.Context(), "quota:"+key, q.limit, q.window)
	if err != nil {
		// не блокируем клиента из-за недоступного хранилища
		q.logger.Warn().Err(err).Str("key", key).Msg("quota check failed")
		return true
	}
	return allowed
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// limitMiddleware applies the per-host token bucket to every request and
// the shared quota to mutating ones.
func (s *HTTPServer) limitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := s.clientKey(r)

		if s.limiter.enabled() && !s.limiter.getLimiter(key).Allow() {
			metrics.IncRateLimited("token_bucket")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		if s.quota != nil && isMutating(r.Method) && !s.quota.allow(r, key) {
			metrics.IncRateLimited("quota")
			writeError(w, http.StatusTooManyRequests, "request quota exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientKey identifies the caller for limiting by remote host. The identity
// header is caller-chosen, so it never takes part in the key.
func (s *HTTPServer) clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return "ip:" + host
	}
	if r.RemoteAddr != "" {
		return "ip:" + r.RemoteAddr
	}
	return "unknown"
}
