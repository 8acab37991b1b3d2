package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"hireflow/internal/api/middleware"
	"hireflow/internal/candidates"
	"hireflow/internal/export"
	"hireflow/internal/storage"
	"hireflow/pkg/models"
	"hireflow/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ListCandidatesHandler handles GET /candidates?status=&search=
func ListCandidatesHandler(svc *candidates.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := svc.List(c.Request().Context(), c.QueryParam("status"), c.QueryParam("search"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}
}

// GetCandidateHandler handles GET /candidates/:id
func GetCandidateHandler(svc *candidates.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		detail, err := svc.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, detail)
	}
}

// CreateCandidateHandler handles POST /candidates
func CreateCandidateHandler(svc *candidates.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.CreateCandidateRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}

		candidate, err := svc.Create(c.Request().Context(), middleware.Actor(c), req)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, candidate)
	}
}

// UpdateCandidateStatusHandler handles PATCH /candidates/:id/status
func UpdateCandidateStatusHandler(svc *candidates.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.UpdateCandidateStatusRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}

		if err := svc.UpdateStatus(c.Request().Context(), middleware.Actor(c), c.Param("id"), req.Status); err != nil {
			return respondError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// UpdateEvaluationHandler handles PUT /candidates/:id/evaluation
func UpdateEvaluationHandler(svc *candidates.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.UpdateEvaluationRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}

		if err := svc.UpdateEvaluation(c.Request().Context(), middleware.Actor(c), c.Param("id"), req.Evaluation); err != nil {
			return respondError(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// AddNoteHandler handles POST /candidates/:id/notes
func AddNoteHandler(svc *candidates.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.AddNoteRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}

		note, err := svc.AddNote(c.Request().Context(), middleware.Actor(c), c.Param("id"), req)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusCreated, note)
	}
}

// DocumentHandler handles GET /candidates/:id/documents/:kind by
// redirecting to a short-lived download URL. kind is resume or cover-letter.
func DocumentHandler(svc *candidates.Service, objects storage.ObjectStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		detail, err := svc.Get(ctx, c.Param("id"))
		if err != nil {
			return respondError(c, err)
		}

		var key string
		switch c.Param("kind") {
		case "resume":
			key = detail.ResumeStorageID
		case "cover-letter":
			key = detail.CoverLetterStorageID
		default:
			return respondError(c, utils.NewBadRequestError("Document kind must be resume or cover-letter"))
		}
		if key == "" {
			return respondError(c, utils.NewNotFoundError("Document"))
		}

		link, err := objects.PresignDownload(ctx, key)
		if err != nil {
			return respondError(c, err)
		}
		return c.Redirect(http.StatusFound, link)
	}
}

// ExportCandidatesHandler handles GET /candidates/export.xlsx with the
// same filters as the list endpoint
func ExportCandidatesHandler(svc *candidates.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := svc.List(c.Request().Context(), c.QueryParam("status"), c.QueryParam("search"))
		if err != nil {
			return respondError(c, err)
		}

		now := time.Now()
		var buf bytes.Buffer
		if err := export.WriteCandidates(&buf, list, now); err != nil {
			return respondError(c, err)
		}

		filename := fmt.Sprintf("candidates-%s.xlsx", now.UTC().Format(models.DateLayout))
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}
