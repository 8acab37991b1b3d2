package models

import "time"

// SchemaVersion is the current record schema for every stored entity
const SchemaVersion = 1

// DateLayout is the calendar date format used for posted/applied dates
const DateLayout = "2006-01-02"

// JobType is the employment type of a posting
type JobType string

const (
	JobTypeFullTime JobType = "full-time"
	JobTypePartTime JobType = "part-time"
	JobTypeContract JobType = "contract"
)

// Urgency is the hiring urgency of a posting
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// JobStatus is the lifecycle status of a posting
type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusPaused JobStatus = "paused"
	JobStatusClosed JobStatus = "closed"
)

// JobStatuses lists every valid job status in display order
var JobStatuses = []JobStatus{JobStatusActive, JobStatusPaused, JobStatusClosed}

// Job represents a job posting
type Job struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Department    string    `json:"department"`
	Location      string    `json:"location"`
	Type          JobType   `json:"type"`
	Urgency       Urgency   `json:"urgency"`
	Description   string    `json:"description"`
	Requirements  []string  `json:"requirements"`
	SalaryMin     *float64  `json:"salaryMin,omitempty"`
	SalaryMax     *float64  `json:"salaryMax,omitempty"`
	Benefits      []string  `json:"benefits,omitempty"`
	Slug          string    `json:"slug"`
	IsPublic      bool      `json:"isPublic"`
	PostedDate    string    `json:"postedDate"`
	Status        JobStatus `json:"status"`
	SchemaVersion int       `json:"schemaVersion"`
	CreatedAt     time.Time `json:"createdAt"`
}

// JobSummary is a job annotated with its applicant count
type JobSummary struct {
	Job
	ApplicantCount int `json:"applicantCount"`
}

// Applicant is a candidate joined with one of their applications
type Applicant struct {
	Candidate
	ApplicationID     string `json:"applicationId"`
	ApplicationStatus string `json:"applicationStatus"`
	AppliedDate       string `json:"appliedDate"`
}

// JobDetail is a job with its ordered applicants
type JobDetail struct {
	Job
	Applicants []Applicant `json:"applicants"`
}

// PublicJob is the careers-site view of an active job
type PublicJob struct {
	Job
	Summary string `json:"summary"`
}
