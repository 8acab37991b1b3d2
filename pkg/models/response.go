package models

import "time"

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// UploadURLResponse is a short-lived direct upload target plus the storage
// reference to persist once the upload succeeds. When ContentType is set the
// upload must send it verbatim as its Content-Type header.
type UploadURLResponse struct {
	UploadURL   string    `json:"uploadUrl"`
	StorageID   string    `json:"storageId"`
	Method      string    `json:"method"`
	ContentType string    `json:"contentType,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// ClaimsResponse echoes the caller's identity for troubleshooting
type ClaimsResponse struct {
	UserID        *string                `json:"userId"`
	SessionClaims map[string]interface{} `json:"sessionClaims"`
	Keys          []string               `json:"keys"`
}

// StatusCount is a number of records in one status
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// JobApplications is the number of applications a job received
type JobApplications struct {
	JobID        string `json:"jobId"`
	Title        string `json:"title"`
	Applications int    `json:"applications"`
}

// AnalyticsResponse is the pipeline overview for staff
type AnalyticsResponse struct {
	Jobs              []StatusCount     `json:"jobs"`
	Candidates        []StatusCount     `json:"candidates"`
	TotalApplications int               `json:"totalApplications"`
	TopJobs           []JobApplications `json:"topJobs"`
	GeneratedAt       time.Time         `json:"generatedAt"`
}
