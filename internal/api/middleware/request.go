package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"hireflow/pkg/models"
	"hireflow/pkg/utils"
)

// Context keys set by the middleware chain
const (
	RequestIDKey = "request_id"
	SessionKey   = "session"
	ActorKey     = "actor"
)

// MaxBodyBytes is the largest request body accepted
const MaxBodyBytes = 1024 * 1024

// RequestValidation assigns a request ID and rejects oversized bodies
func RequestValidation() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := utils.GenerateRequestID()
			c.Set(RequestIDKey, requestID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			req := c.Request()
			if req.ContentLength > MaxBodyBytes {
				return c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
					Error:     "request_too_large",
					Message:   "Request body too large",
					RequestID: requestID,
					Timestamp: time.Now(),
				})
			}
			if req.Body != nil {
				req.Body = http.MaxBytesReader(c.Response(), req.Body, MaxBodyBytes)
			}

			return next(c)
		}
	}
}

// RequestID returns the ID assigned to the current request
func RequestID(c echo.Context) string {
	if id, ok := c.Get(RequestIDKey).(string); ok {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
