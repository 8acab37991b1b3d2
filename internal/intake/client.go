// Package intake submits job applications through the public API the same
// way the careers site form does.
package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hireflow/internal/logging"
	"hireflow/pkg/models"
	"hireflow/pkg/utils"
)

// MissingFieldsMessage is shown when a required form field is blank
const MissingFieldsMessage = "Please fill in all required fields"

// ErrMissingFields is returned before any network call when name, email,
// location or experience is blank
var ErrMissingFields = errors.New("missing required fields")

// File is a document attached to an application
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Form is an application as entered by the applicant. Skills is a comma
// separated list.
type Form struct {
	JobID          string
	Name           string
	Email          string
	Phone          string
	Location       string
	Experience     string
	Skills         string
	LinkedIn       string
	GitHub         string
	Portfolio      string
	Education      string
	CurrentCompany string
	Resume         *File
	CoverLetter    *File
}

// Validate checks the required fields
func (f Form) Validate() error {
	for _, v := range []string{f.Name, f.Email, f.Location, f.Experience} {
		if strings.TrimSpace(v) == "" {
			return ErrMissingFields
		}
	}
	return nil
}

// APIError is an error response from the public API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// ClientConfig holds configuration for the intake client
type ClientConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Client talks to the public application API
type Client struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
}

// NewClient creates an intake client
func NewClient(config ClientConfig, logger logging.Logger) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		http:    &http.Client{Timeout: config.Timeout},
		logger:  logger.WithField("component", "intake"),
	}, nil
}

// Submit validates the form, uploads the attached documents and submits
// the application. A document whose upload fails is dropped and the
// application goes ahead without it.
func (c *Client) Submit(ctx context.Context, form Form) (*models.SubmissionResult, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	req := models.SubmitApplicationRequest{
		JobID:          form.JobID,
		Name:           strings.TrimSpace(form.Name),
		Email:          strings.TrimSpace(form.Email),
		Phone:          strings.TrimSpace(form.Phone),
		Location:       strings.TrimSpace(form.Location),
		Experience:     strings.TrimSpace(form.Experience),
		Skills:         utils.SplitCSV(form.Skills),
		LinkedIn:       strings.TrimSpace(form.LinkedIn),
		GitHub:         strings.TrimSpace(form.GitHub),
		Portfolio:      strings.TrimSpace(form.Portfolio),
		Education:      strings.TrimSpace(form.Education),
		CurrentCompany: strings.TrimSpace(form.CurrentCompany),
	}

	if id, ok := c.upload(ctx, form.Resume); ok {
		req.ResumeStorageID, req.ResumeFilename = id, form.Resume.Name
	}
	if id, ok := c.upload(ctx, form.CoverLetter); ok {
		req.CoverLetterStorageID, req.CoverLetterFilename = id, form.CoverLetter.Name
	}

	var result models.SubmissionResult
	path := fmt.Sprintf("/api/public/jobs/%s/applications", url.PathEscape(form.JobID))
	if err := c.postJSON(ctx, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// upload stores one document and returns its storage reference. Failures
// are logged and reported as no file.
func (c *Client) upload(ctx context.Context, file *File) (string, bool) {
	if file == nil {
		return "", false
	}

	var target models.UploadURLResponse
	if err := c.postJSON(ctx, "/api/public/uploads", models.UploadURLRequest{ContentType: file.ContentType}, &target); err != nil {
		c.logger.Warn("File upload failed", map[string]interface{}{"file": file.Name, "error": err.Error()})
		return "", false
	}

	method := utils.GetStringOrDefault(target.Method, http.MethodPut)
	req, err := http.NewRequestWithContext(ctx, method, target.UploadURL, bytes.NewReader(file.Data))
	if err != nil {
		c.logger.Warn("File upload failed", map[string]interface{}{"file": file.Name, "error": err.Error()})
		return "", false
	}
	// the signature covers the content type the server chose
	if contentType := utils.GetStringOrDefault(target.ContentType, file.ContentType); contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("File upload failed", map[string]interface{}{"file": file.Name, "error": err.Error()})
		return "", false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("File upload failed", map[string]interface{}{"file": file.Name, "status": resp.StatusCode})
		return "", false
	}
	return target.StorageID, true
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr models.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Message == "" {
			return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Message}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
