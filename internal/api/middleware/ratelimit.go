package middleware

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"hireflow/internal/logging"
	"hireflow/pkg/models"
)

// clientLimiter is the token bucket of one client
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client key
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	clients map[string]*clientLimiter
	mu      sync.Mutex
	now     func() time.Time
	logger  logging.Logger

	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	stopOnce      sync.Once
}

// NewRateLimiter allows requestsPerMinute per client with the given burst.
// Clients idle for longer than idleTTL are forgotten.
func NewRateLimiter(requestsPerMinute, burst int, idleTTL time.Duration, logger logging.Logger) *RateLimiter {
	rl := &RateLimiter{
		limit:         rate.Limit(float64(requestsPerMinute) / 60),
		burst:         burst,
		idleTTL:       idleTTL,
		clients:       make(map[string]*clientLimiter),
		now:           time.Now,
		logger:        logger.WithField("component", "rate_limiter"),
		cleanupTicker: time.NewTicker(time.Minute),
		stopCleanup:   make(chan struct{}),
	}

	go rl.cleanupRoutine()

	return rl
}

// Allow reports whether the client identified by key may proceed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = cl
	}
	now := rl.now()
	cl.lastSeen = now
	rl.mu.Unlock()

	return cl.limiter.AllowN(now, 1)
}

// Clients returns the number of tracked clients
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Stop ends the cleanup routine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		rl.cleanupTicker.Stop()
		close(rl.stopCleanup)
	})
}

func (rl *RateLimiter) cleanupRoutine() {
	for {
		select {
		case <-rl.cleanupTicker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.idleTTL)
	removed := 0
	for key, cl := range rl.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
			removed++
		}
	}
	if removed > 0 {
		rl.logger.Debug("Cleaned up idle rate limiters", map[string]interface{}{
			"removed":   removed,
			"remaining": len(rl.clients),
		})
	}
}

// IPExtractor decides how c.RealIP finds the client address. Without
// trusted proxies the peer address is used and forwarding headers are
// ignored, so clients cannot pick their own rate limit key.
func IPExtractor(trustedProxies []string) (echo.IPExtractor, error) {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect(), nil
	}

	options := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range trustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", cidr, err)
		}
		options = append(options, echo.TrustIPRange(network))
	}
	return echo.ExtractIPFromXFFHeader(options...), nil
}

// RateLimit rejects requests from clients over their limit with 429
func RateLimit(rl *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Allow(c.RealIP()) {
				rl.logger.Warn("Request rejected by rate limiter", map[string]interface{}{
					"request_id": RequestID(c),
					"client_ip":  c.RealIP(),
					"path":       c.Request().URL.Path,
				})
				c.Response().Header().Set("Retry-After", "60")
				return c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
					Error:     "rate_limited",
					Message:   "Too many requests, slow down",
					RequestID: RequestID(c),
					Timestamp: time.Now(),
				})
			}
			return next(c)
		}
	}
}
