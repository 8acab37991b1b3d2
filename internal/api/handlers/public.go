package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"hireflow/internal/api/middleware"
	"hireflow/internal/candidates"
	"hireflow/internal/identity"
	"hireflow/internal/jobs"
	"hireflow/internal/logging"
	"hireflow/internal/storage"
	"hireflow/pkg/models"
)

// ListPublicJobsHandler handles GET /api/public/jobs
func ListPublicJobsHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := svc.ListPublic(c.Request().Context())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

// GetPublicJobHandler handles GET /api/public/jobs/:id. Jobs that are not
// active are reported as missing.
func GetPublicJobHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		job, err := svc.GetPublicByID(c.Request().Context(), c.Param("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, job)
	}
}

// SubmitApplicationHandler handles POST /api/public/jobs/:id/applications
func SubmitApplicationHandler(svc *candidates.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.LogWithRequestID(middleware.RequestID(c))

		var req models.SubmitApplicationRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid_request", "Invalid request format")
		}
		req.JobID = c.Param("id")
		if err := validate.Struct(&req); err != nil {
			logger.Warn("Application validation failed", map[string]interface{}{"job_id": req.JobID, "error": err.Error()})
			return errorJSON(c, http.StatusBadRequest, "validation_failed", "Please fill in all required fields")
		}

		result, err := svc.SubmitApplication(c.Request().Context(), req)
		if err != nil {
			if errors.Is(err, candidates.ErrJobNotAccepting) {
				logger.Info("Application rejected", map[string]interface{}{"job_id": req.JobID})
			}
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, result)
	}
}

// UploadURLHandler handles POST /api/public/uploads
func UploadURLHandler(objects storage.ObjectStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.UploadURLRequest
		if c.Request().ContentLength != 0 {
			if err := c.Bind(&req); err != nil {
				return errorJSON(c, http.StatusBadRequest, "invalid_request", "Invalid request format")
			}
		}

		upload, err := objects.PresignUpload(c.Request().Context(), req.ContentType)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, models.UploadURLResponse{
			UploadURL:   upload.URL,
			StorageID:   upload.Key,
			Method:      http.MethodPut,
			ContentType: upload.ContentType,
			ExpiresAt:   upload.ExpiresAt,
		})
	}
}

// DebugClaimsHandler handles GET /api/debug-claims, echoing the caller's
// user ID and session claims. Anonymous callers get nulls.
func DebugClaimsHandler(verifier *identity.Verifier) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := models.ClaimsResponse{Keys: []string{}}

		session, err := verifier.FromRequest(c.Request())
		if err == nil {
			resp.UserID = &session.UserID
			resp.SessionClaims = session.Claims
			resp.Keys = session.ClaimKeys()
		}
		return c.JSON(http.StatusOK, resp)
	}
}
