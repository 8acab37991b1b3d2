package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"hireflow/internal/access"
	"hireflow/internal/identity"
	"hireflow/internal/logging"
	"hireflow/pkg/models"
)

// Access applies the route access procedure. Denied requests are redirected
// to sign-in or to the careers site; allowed requests carry their session
// and actor in the context.
func Access(gate *access.Gate, logger logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res, err := gate.Check(c.Request())
			if err != nil {
				logger.Error("Access check failed", map[string]interface{}{
					"request_id": RequestID(c),
					"path":       c.Request().URL.Path,
					"error":      err.Error(),
				})
				return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
					Error:     "internal_error",
					Message:   "Unable to verify access",
					RequestID: RequestID(c),
					Timestamp: time.Now(),
				})
			}

			switch res.Outcome {
			case access.RedirectSignIn, access.RedirectCareers:
				logger.Debug("Access redirected", map[string]interface{}{
					"request_id": RequestID(c),
					"path":       c.Request().URL.Path,
					"class":      res.Class.String(),
					"location":   res.Location,
				})
				return c.Redirect(http.StatusTemporaryRedirect, res.Location)
			}

			if res.Session != nil {
				c.Set(SessionKey, res.Session)
				c.Set(ActorKey, models.Actor{UserID: res.Session.UserID, Role: res.Role})
			}
			return next(c)
		}
	}
}

// Session returns the verified session of the request, if any
func Session(c echo.Context) *identity.Session {
	s, _ := c.Get(SessionKey).(*identity.Session)
	return s
}

// Actor returns the signed-in staff member of the request
func Actor(c echo.Context) models.Actor {
	a, _ := c.Get(ActorKey).(models.Actor)
	return a
}
