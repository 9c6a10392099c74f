package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/technotes/pkg/logging"
)

type window struct {
	start time.Time
	hits  int
}

// FixedWindowStore counts hits per identifier in fixed windows that start at
// the first hit. It satisfies echo's RateLimiterStore.
type FixedWindowStore struct {
	mu        sync.Mutex
	limit     int
	period    time.Duration
	windows   map[string]*window
	lastSweep time.Time
	now       func() time.Time
}

func NewFixedWindowStore(limit int, period time.Duration) *FixedWindowStore {
	return &FixedWindowStore{
		limit:   limit,
		period:  period,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (s *FixedWindowStore) Allow(identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	w, ok := s.windows[identifier]
	if !ok || now.Sub(w.start) >= s.period {
		w = &window{start: now}
		s.windows[identifier] = w
	}
	if w.hits >= s.limit {
		return false, nil
	}
	w.hits++
	return true, nil
}

// RetryAfter reports how long identifier has to wait for its window to reset.
func (s *FixedWindowStore) RetryAfter(identifier string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[identifier]
	if !ok {
		return 0
	}
	left := s.period - s.now().Sub(w.start)
	if left < 0 {
		return 0
	}
	return left
}

func (s *FixedWindowStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.period {
		return
	}
	for id, w := range s.windows {
		if now.Sub(w.start) >= s.period {
			delete(s.windows, id)
		}
	}
	s.lastSweep = now
}

// LoginLimiter throttles login attempts per client IP.
func LoginLimiter(limit int, period time.Duration) echo.MiddlewareFunc {
	store := NewFixedWindowStore(limit, period)
	message := fmt.Sprintf("Too many login attempts from this IP, please try again after %d seconds", int(period.Seconds()))

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "cannot identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			l := logging.FromContext(c.Request().Context())
			l.Warn("login_rate_limited",
				"status", 429,
				"message", message,
				"method", c.Request().Method,
				"url", c.Request().URL.String(),
				"origin", c.Request().Header.Get(echo.HeaderOrigin),
			)
			retry := int(store.RetryAfter(identifier).Seconds()) + 1
			c.Response().Header().Set(echo.HeaderRetryAfter, strconv.Itoa(retry))
			return echo.NewHTTPError(http.StatusTooManyRequests, message)
		},
	})
}
