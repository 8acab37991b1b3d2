// Package jobs implements the job posting workflows used by staff and by
// the public careers site.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"hireflow/internal/events"
	"hireflow/internal/logging"
	"hireflow/internal/store"
	"hireflow/pkg/models"
	"hireflow/pkg/utils"
)

// ErrNotFound is returned when a job does not exist or is hidden from the caller
var ErrNotFound = errors.New("job not found")

// StatusAll lists jobs regardless of status
const StatusAll = "all"

// Service manages job postings
type Service struct {
	store     store.Store
	publisher events.Publisher
	logger    logging.Logger
}

// NewService creates a job service. A nil publisher discards events.
func NewService(st store.Store, publisher events.Publisher, logger logging.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		store:     st,
		publisher: publisher,
		logger:    logger.WithField("component", "jobs"),
	}
}

// List returns jobs annotated with applicant counts, newest first. status
// "all" or empty disables the status filter; search matches title or
// department case-insensitively.
func (s *Service) List(ctx context.Context, status, search string) ([]models.JobSummary, error) {
	if status == StatusAll {
		status = ""
	}

	jobs, err := s.store.ListJobs(ctx, models.JobStatus(status))
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	counts, err := s.store.CountApplicationsByJob(ctx)
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}

	search = strings.TrimSpace(search)
	summaries := make([]models.JobSummary, 0, len(jobs))
	for _, job := range jobs {
		if search != "" && !utils.ContainsFold(job.Title, search) && !utils.ContainsFold(job.Department, search) {
			continue
		}
		summaries = append(summaries, models.JobSummary{Job: job, ApplicantCount: counts[job.ID]})
	}
	sortNewestFirst(summaries, func(i int) models.Job { return summaries[i].Job })
	return summaries, nil
}

// Get returns a job with every applicant, in submission order
func (s *Service) Get(ctx context.Context, id string) (*models.JobDetail, error) {
	job, err := s.getJob(ctx, id)
	if err != nil {
		return nil, err
	}

	apps, err := s.store.ListApplicationsByJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	applicants := make([]models.Applicant, 0, len(apps))
	for _, app := range apps {
		candidate, err := s.store.GetCandidate(ctx, app.CandidateID)
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("Application references missing candidate", map[string]interface{}{
				"job_id":         id,
				"application_id": app.ID,
				"candidate_id":   app.CandidateID,
			})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get candidate %s: %w", app.CandidateID, err)
		}
		applicants = append(applicants, models.Applicant{
			Candidate:         *candidate,
			ApplicationID:     app.ID,
			ApplicationStatus: app.Status,
			AppliedDate:       app.AppliedDate,
		})
	}

	return &models.JobDetail{Job: *job, Applicants: applicants}, nil
}

// ListPublic returns the active jobs shown on the careers site
func (s *Service) ListPublic(ctx context.Context) ([]models.PublicJob, error) {
	jobs, err := s.store.ListJobs(ctx, models.JobStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	public := make([]models.PublicJob, 0, len(jobs))
	for _, job := range jobs {
		public = append(public, toPublic(job))
	}
	sortNewestFirst(public, func(i int) models.Job { return public[i].Job })
	return public, nil
}

// GetPublicByID returns a job only while it is active
func (s *Service) GetPublicByID(ctx context.Context, id string) (*models.PublicJob, error) {
	job, err := s.getJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusActive {
		return nil, ErrNotFound
	}
	public := toPublic(*job)
	return &public, nil
}

// Create posts a new active job. The slug comes from the requested slug or
// the title and gets a random suffix if it is already taken.
func (s *Service) Create(ctx context.Context, actor models.Actor, req models.CreateJobRequest) (*models.Job, error) {
	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMin > *req.SalaryMax {
		return nil, utils.NewValidationError("salaryMin must not exceed salaryMax")
	}

	base := Slugify(utils.GetStringOrDefault(strings.TrimSpace(req.Slug), req.Title))
	if base == "" {
		base = fallbackSlug
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	job := models.Job{
		Title:        req.Title,
		Department:   req.Department,
		Location:     req.Location,
		Type:         req.Type,
		Urgency:      req.Urgency,
		Description:  req.Description,
		Requirements: nonNil(req.Requirements),
		SalaryMin:    req.SalaryMin,
		SalaryMax:    req.SalaryMax,
		Benefits:     req.Benefits,
		IsPublic:     isPublic,
		PostedDate:   utils.Today(),
		Status:       models.JobStatusActive,
	}

	err := s.store.InTx(ctx, func(tx store.Store) error {
		job.Slug = base
		exists, err := tx.JobSlugExists(ctx, base)
		if err != nil {
			return fmt.Errorf("check slug: %w", err)
		}
		if exists {
			job.Slug = withSuffix(base)
		}
		return tx.InsertJob(ctx, &job)
	})
	if errors.Is(err, store.ErrConflict) {
		return nil, utils.NewConflictError(fmt.Sprintf("slug %q is already in use", job.Slug))
	}
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.logger.Info("Job created", map[string]interface{}{
		"job_id":  job.ID,
		"slug":    job.Slug,
		"user_id": actor.UserID,
	})
	s.publish(ctx, events.New(events.JobCreated, actor.UserID, map[string]string{
		"jobId": job.ID,
		"slug":  job.Slug,
		"title": job.Title,
	}))
	return &job, nil
}

// UpdateStatus moves a job between active, paused and closed
func (s *Service) UpdateStatus(ctx context.Context, actor models.Actor, id string, status models.JobStatus) error {
	if !validStatus(status) {
		return utils.NewValidationError(fmt.Sprintf("invalid job status %q", status))
	}

	err := s.store.UpdateJobStatus(ctx, id, status)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}

	s.logger.Info("Job status changed", map[string]interface{}{
		"job_id":  id,
		"status":  string(status),
		"user_id": actor.UserID,
	})
	s.publish(ctx, events.New(events.JobStatusChanged, actor.UserID, map[string]string{
		"jobId":  id,
		"status": string(status),
	}))
	return nil
}

func (s *Service) getJob(ctx context.Context, id string) (*models.Job, error) {
	job, err := s.store.GetJob(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return job, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event", map[string]interface{}{
			"event": event.Type,
			"error": err.Error(),
		})
	}
}

func toPublic(job models.Job) models.PublicJob {
	return models.PublicJob{Job: job, Summary: Summary(job.Description, SummaryLength)}
}

func validStatus(status models.JobStatus) bool {
	for _, s := range models.JobStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// sortNewestFirst orders by posted date then creation time, newest first
func sortNewestFirst[T any](items []T, job func(i int) models.Job) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := job(i), job(j)
		if a.PostedDate != b.PostedDate {
			return a.PostedDate > b.PostedDate
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
