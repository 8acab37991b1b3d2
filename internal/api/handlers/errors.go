package handlers

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"hireflow/internal/api/middleware"
	"hireflow/internal/api/validation"
	"hireflow/internal/candidates"
	"hireflow/internal/jobs"
	"hireflow/internal/logging"
	"hireflow/internal/storage"
	"hireflow/pkg/models"
	"hireflow/pkg/utils"
)

var validate = validation.New()

// errorJSON writes the standard error body
func errorJSON(c echo.Context, status int, errType, message string) error {
	return c.JSON(status, models.ErrorResponse{
		Error:     errType,
		Message:   message,
		RequestID: middleware.RequestID(c),
		Timestamp: time.Now(),
	})
}

// respondError maps service errors to HTTP responses
func respondError(c echo.Context, err error) error {
	var customErr *utils.CustomError
	switch {
	case errors.As(err, &customErr):
		return writeCustom(c, customErr)
	case errors.Is(err, jobs.ErrNotFound):
		return writeCustom(c, utils.NewNotFoundError("Job"))
	case errors.Is(err, candidates.ErrNotFound):
		return writeCustom(c, utils.NewNotFoundError("Candidate"))
	case errors.Is(err, candidates.ErrJobNotAccepting):
		return writeCustom(c, utils.NewUnprocessableError("Job not found or not accepting applications"))
	case errors.Is(err, storage.ErrDisabled):
		return writeCustom(c, utils.NewServiceUnavailableError("File uploads are not available"))
	case errors.Is(err, storage.ErrContentType):
		return writeCustom(c, utils.NewValidationError(err.Error()))
	case errors.Is(err, storage.ErrInvalidKey):
		return writeCustom(c, utils.NewNotFoundError("Document"))
	}

	logging.GetGlobalLogger().Error("Request failed", map[string]interface{}{
		"request_id": middleware.RequestID(c),
		"path":       c.Request().URL.Path,
		"error":      err.Error(),
	})
	return writeCustom(c, utils.NewInternalServerError("Internal server error"))
}

func writeCustom(c echo.Context, e *utils.CustomError) error {
	message := e.Message
	if e.Detail != "" {
		message = e.Error()
	}
	return errorJSON(c, e.Code, e.Type, message)
}

// bindAndValidate decodes the request body into req and validates it
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return utils.NewBadRequestError("Invalid request format")
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return utils.NewValidationError(verrs.Error())
		}
		return utils.NewValidationError(err.Error())
	}
	return nil
}
