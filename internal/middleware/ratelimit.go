package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/cursos-tv/enrollment-api/pkg/config"
	appErrors "github.com/cursos-tv/enrollment-api/pkg/errors"
	"github.com/cursos-tv/enrollment-api/pkg/response"
)

const limiterIdleTTL = 15 * time.Minute

// limiterStore keeps a token bucket per client IP and drops idle entries.
type limiterStore struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rps     rate.Limit
	burst   int
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(rps float64, burst int) *limiterStore {
	if rps <= 0 {
		rps = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &limiterStore{
		entries: make(map[string]*limiterEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

func (s *limiterStore) get(key string) *rate.Limiter {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[key]; ok {
		entry.lastSeen = now
		return entry.lim
	}

	cutoff := now.Add(-limiterIdleTTL)
	for k, entry := range s.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}

	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

// SubmitRateLimit throttles enrollment submissions per client IP. It guards
// the upstream against rapid resubmission of the same form.
func SubmitRateLimit(cfg config.SubmitConfig) gin.HandlerFunc {
	store := newLimiterStore(cfg.RatePerSecond, cfg.Burst)
	return func(c *gin.Context) {
		if !store.get(c.ClientIP()).Allow() {
			response.Error(c, appErrors.ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
