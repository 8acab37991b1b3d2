package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hireflow/internal/analytics"
	"hireflow/internal/api/middleware"
)

// AnalyticsHandler handles GET /analytics
func AnalyticsHandler(svc *analytics.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		overview, err := svc.Overview(c.Request().Context())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, overview)
	}
}

// DashboardHandler handles GET / for signed-in staff
func DashboardHandler(svc *analytics.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		overview, err := svc.Overview(c.Request().Context())
		if err != nil {
			return respondError(c, err)
		}

		actor := middleware.Actor(c)
		return c.JSON(http.StatusOK, map[string]interface{}{
			"service":  "hireflow",
			"version":  Version,
			"user":     actor.UserID,
			"role":     actor.Role,
			"overview": overview,
		})
	}
}
