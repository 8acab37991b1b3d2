// Package store defines the persistence boundary for jobs, candidates and
// the records owned by candidates.
package store

import (
	"context"
	"errors"

	"hireflow/pkg/models"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("store: record not found")
	// ErrConflict is returned when a write violates a uniqueness constraint
	ErrConflict = errors.New("store: conflicting record")
)

// Documents are the file references kept on a candidate
type Documents struct {
	ResumeStorageID      string
	ResumeFilename       string
	CoverLetterStorageID string
	CoverLetterFilename  string
}

// JobRepository stores job postings. An empty status lists every job.
type JobRepository interface {
	InsertJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id string) (*models.Job, error)
	ListJobs(ctx context.Context, status models.JobStatus) ([]models.Job, error)
	JobSlugExists(ctx context.Context, slug string) (bool, error)
	UpdateJobStatus(ctx context.Context, id string, status models.JobStatus) error
}

// CandidateRepository stores candidates. An empty status lists every candidate.
type CandidateRepository interface {
	InsertCandidate(ctx context.Context, candidate *models.Candidate) error
	GetCandidate(ctx context.Context, id string) (*models.Candidate, error)
	FindCandidateByEmail(ctx context.Context, email string) (*models.Candidate, error)
	ListCandidates(ctx context.Context, status models.CandidateStatus) ([]models.Candidate, error)
	UpdateCandidateStatus(ctx context.Context, id string, status models.CandidateStatus) error
	UpdateCandidateEvaluation(ctx context.Context, id string, evaluation models.Evaluation) error
	UpdateCandidateDocuments(ctx context.Context, id string, docs Documents) error
}

// ApplicationRepository stores applications in submission order
type ApplicationRepository interface {
	InsertApplication(ctx context.Context, app *models.Application) error
	ListApplicationsByJob(ctx context.Context, jobID string) ([]models.Application, error)
	CountApplicationsByJob(ctx context.Context) (map[string]int, error)
}

// ActivityRepository stores the append-only records keyed by candidate
type ActivityRepository interface {
	InsertTimelineEntry(ctx context.Context, entry *models.TimelineEntry) error
	ListTimeline(ctx context.Context, candidateID string) ([]models.TimelineEntry, error)
	InsertNote(ctx context.Context, note *models.Note) error
	ListNotes(ctx context.Context, candidateID string) ([]models.Note, error)
	InsertAssessment(ctx context.Context, assessment *models.Assessment) error
	ListAssessments(ctx context.Context, candidateID string) ([]models.Assessment, error)
	InsertInterview(ctx context.Context, interview *models.Interview) error
	ListInterviews(ctx context.Context, candidateID string) ([]models.Interview, error)
}

// Store is the full entity store. InTx runs fn atomically: every write made
// through the Store handed to fn commits together or not at all.
type Store interface {
	JobRepository
	CandidateRepository
	ApplicationRepository
	ActivityRepository

	InTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
	Close()
}
