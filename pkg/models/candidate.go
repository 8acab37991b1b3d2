package models

import "time"

// CandidateStatus is the pipeline stage of a candidate
type CandidateStatus string

const (
	CandidateStatusApplied   CandidateStatus = "applied"
	CandidateStatusScreening CandidateStatus = "screening"
	CandidateStatusInterview CandidateStatus = "interview"
	CandidateStatusOffer     CandidateStatus = "offer"
	CandidateStatusRejected  CandidateStatus = "rejected"
	CandidateStatusWithdrawn CandidateStatus = "withdrawn"
)

// CandidateStatuses lists every valid candidate status in pipeline order
var CandidateStatuses = []CandidateStatus{
	CandidateStatusApplied,
	CandidateStatusScreening,
	CandidateStatusInterview,
	CandidateStatusOffer,
	CandidateStatusRejected,
	CandidateStatusWithdrawn,
}

// ApplicationStatusPending is the status every new application starts in
const ApplicationStatusPending = "pending"

// Timeline entry types and statuses written by the candidate workflows
const (
	TimelineTypeApplied     = "applied"
	TimelineStatusCompleted = "completed"
)

// Evaluation holds the four reviewer scores of a candidate
type Evaluation struct {
	Overall       float64 `json:"overall"`
	Technical     float64 `json:"technical"`
	Cultural      float64 `json:"cultural"`
	Communication float64 `json:"communication"`
}

// Candidate represents a person in the hiring pipeline
type Candidate struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Email                string          `json:"email"`
	Phone                string          `json:"phone,omitempty"`
	Location             string          `json:"location"`
	Position             string          `json:"position"`
	Experience           string          `json:"experience"`
	Skills               []string        `json:"skills"`
	LinkedIn             string          `json:"linkedin,omitempty"`
	GitHub               string          `json:"github,omitempty"`
	Portfolio            string          `json:"portfolio,omitempty"`
	Education            string          `json:"education,omitempty"`
	CurrentCompany       string          `json:"currentCompany,omitempty"`
	ResumeStorageID      string          `json:"resumeStorageId,omitempty"`
	ResumeFilename       string          `json:"resumeFilename,omitempty"`
	CoverLetterStorageID string          `json:"coverLetterStorageId,omitempty"`
	CoverLetterFilename  string          `json:"coverLetterFilename,omitempty"`
	AppliedDate          string          `json:"appliedDate"`
	Status               CandidateStatus `json:"status"`
	Evaluation           Evaluation      `json:"evaluation"`
	SchemaVersion        int             `json:"schemaVersion"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// Application links a candidate to a job they applied for
type Application struct {
	ID            string    `json:"id"`
	CandidateID   string    `json:"candidateId"`
	JobID         string    `json:"jobId"`
	AppliedDate   string    `json:"appliedDate"`
	Status        string    `json:"status"`
	SchemaVersion int       `json:"schemaVersion"`
	CreatedAt     time.Time `json:"createdAt"`
}

// TimelineEntry is one append-only event in a candidate's history
type TimelineEntry struct {
	ID            string    `json:"id"`
	CandidateID   string    `json:"candidateId"`
	Date          string    `json:"date"`
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	SchemaVersion int       `json:"schemaVersion"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Note is a staff comment on a candidate
type Note struct {
	ID            string    `json:"id"`
	CandidateID   string    `json:"candidateId"`
	Author        string    `json:"author"`
	Role          string    `json:"role"`
	Content       string    `json:"content"`
	Date          string    `json:"date"`
	SchemaVersion int       `json:"schemaVersion"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Assessment is an externally recorded test result for a candidate
type Assessment struct {
	ID            string    `json:"id"`
	CandidateID   string    `json:"candidateId"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Score         *float64  `json:"score,omitempty"`
	MaxScore      *float64  `json:"maxScore,omitempty"`
	Status        string    `json:"status"`
	Date          string    `json:"date"`
	SchemaVersion int       `json:"schemaVersion"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Interview is an externally scheduled interview for a candidate
type Interview struct {
	ID            string    `json:"id"`
	CandidateID   string    `json:"candidateId"`
	Type          string    `json:"type"`
	Date          string    `json:"date"`
	Time          string    `json:"time,omitempty"`
	Interviewer   string    `json:"interviewer"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
	SchemaVersion int       `json:"schemaVersion"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CandidateDetail is a candidate with all records joined by candidate id
type CandidateDetail struct {
	Candidate
	Timeline    []TimelineEntry `json:"timeline"`
	Assessments []Assessment    `json:"assessments"`
	Notes       []Note          `json:"notes"`
	Interviews  []Interview     `json:"interviews"`
}

// SubmissionResult is returned after an application is accepted
type SubmissionResult struct {
	CandidateID   string `json:"candidateId"`
	ApplicationID string `json:"applicationId"`
	Success       bool   `json:"success"`
}
