package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"hireflow/internal/api/middleware"
	"hireflow/internal/logging"
	"hireflow/pkg/models"
)

// Version is reported by the health endpoints
var Version = "1.0.0"

var startTime = time.Now()

// Check probes one dependency
type Check func(ctx context.Context) error

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	logging.GetGlobalLogger().Debug("Health check requested", map[string]interface{}{"request_id": middleware.RequestID(c)})

	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
		Checks:    map[string]string{"api": "ok"},
	})
}

// ReadinessHandler reports ready only when every required check passes.
// Optional checks are reported but never fail readiness.
func ReadinessHandler(required, optional map[string]Check) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{"api": "ok"}
		status, code := "ready", http.StatusOK

		for _, name := range sortedNames(required) {
			if err := required[name](ctx); err != nil {
				checks[name] = err.Error()
				status, code = "not_ready", http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}
		for _, name := range sortedNames(optional) {
			if err := optional[name](ctx); err != nil {
				checks[name] = "degraded: " + err.Error()
				continue
			}
			checks[name] = "ok"
		}

		if code != http.StatusOK {
			logging.GetGlobalLogger().Warn("Readiness check failed", map[string]interface{}{
				"request_id": middleware.RequestID(c),
				"checks":     checks,
			})
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
	})
}

func sortedNames(checks map[string]Check) []string {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
