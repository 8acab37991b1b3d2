package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"hireflow/internal/api/middleware"
	"hireflow/internal/jobs"
	"hireflow/internal/logging"
	"hireflow/pkg/models"
)

// ListJobsHandler handles GET /jobs?status=&search=
func ListJobsHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := svc.List(c.Request().Context(), c.QueryParam("status"), c.QueryParam("search"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

// GetJobHandler handles GET /jobs/:id
func GetJobHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		job, err := svc.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, job)
	}
}

// CreateJobHandler handles POST /jobs
func CreateJobHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.CreateJobRequest
		if err := bindAndValidate(c, &req); err != nil {
			logging.GetGlobalLogger().Warn("Job request validation failed", map[string]interface{}{
				"request_id": middleware.RequestID(c),
				"error":      err.Error(),
			})
			return respondError(c, err)
		}

		job, err := svc.Create(c.Request().Context(), middleware.Actor(c), req)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, job)
	}
}

// UpdateJobStatusHandler handles PATCH /jobs/:id/status
func UpdateJobStatusHandler(svc *jobs.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.UpdateJobStatusRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}

		if err := svc.UpdateStatus(c.Request().Context(), middleware.Actor(c), c.Param("id"), req.Status); err != nil {
			return respondError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}
