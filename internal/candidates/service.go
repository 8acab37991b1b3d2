// Package candidates implements the candidate pipeline: staff management of
// candidate profiles and the public application submission flow.
package candidates

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"hireflow/internal/events"
	"hireflow/internal/logging"
	"hireflow/internal/store"
	"hireflow/pkg/models"
	"hireflow/pkg/utils"
)

var (
	// ErrNotFound is returned when a candidate does not exist
	ErrNotFound = errors.New("candidate not found")
	// ErrJobNotAccepting is returned when an application targets a missing
	// or inactive job
	ErrJobNotAccepting = errors.New("job not found or not accepting applications")
)

// StatusAll lists candidates regardless of status
const StatusAll = "all"

// Service manages candidates and their owned records
type Service struct {
	store     store.Store
	publisher events.Publisher
	logger    logging.Logger
}

// NewService creates a candidate service. A nil publisher discards events.
func NewService(st store.Store, publisher events.Publisher, logger logging.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		store:     st,
		publisher: publisher,
		logger:    logger.WithField("component", "candidates"),
	}
}

// List returns candidates, newest first. status "all" or empty disables the
// status filter; search matches name, email or position case-insensitively.
func (s *Service) List(ctx context.Context, status, search string) ([]models.Candidate, error) {
	if status == StatusAll {
		status = ""
	}

	all, err := s.store.ListCandidates(ctx, models.CandidateStatus(status))
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	search = strings.TrimSpace(search)
	out := make([]models.Candidate, 0, len(all))
	for _, c := range all {
		if search != "" &&
			!utils.ContainsFold(c.Name, search) &&
			!utils.ContainsFold(c.Email, search) &&
			!utils.ContainsFold(c.Position, search) {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Get returns a candidate joined with timeline, assessments, notes and
// interviews. The five reads run concurrently.
func (s *Service) Get(ctx context.Context, id string) (*models.CandidateDetail, error) {
	var (
		candidate *models.Candidate
		detail    models.CandidateDetail
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		candidate, err = s.store.GetCandidate(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		detail.Timeline, err = s.store.ListTimeline(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		detail.Assessments, err = s.store.ListAssessments(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		detail.Notes, err = s.store.ListNotes(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		detail.Interviews, err = s.store.ListInterviews(gctx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get candidate %s: %w", id, err)
	}

	detail.Candidate = *candidate
	return &detail, nil
}

// Create adds a candidate in the applied stage and records the
// application in their timeline
func (s *Service) Create(ctx context.Context, actor models.Actor, req models.CreateCandidateRequest) (*models.Candidate, error) {
	today := utils.Today()
	candidate := models.Candidate{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Location:    req.Location,
		Position:    req.Position,
		Experience:  req.Experience,
		Skills:      nonNil(req.Skills),
		AppliedDate: today,
		Status:      models.CandidateStatusApplied,
	}

	err := s.store.InTx(ctx, func(tx store.Store) error {
		if err := tx.InsertCandidate(ctx, &candidate); err != nil {
			return err
		}
		return tx.InsertTimelineEntry(ctx, &models.TimelineEntry{
			CandidateID: candidate.ID,
			Date:        today,
			Type:        models.TimelineTypeApplied,
			Title:       "Application Received",
			Description: fmt.Sprintf("Applied for %s position", candidate.Position),
			Status:      models.TimelineStatusCompleted,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("create candidate: %w", err)
	}

	s.logger.Info("Candidate created", map[string]interface{}{
		"candidate_id": candidate.ID,
		"user_id":      actor.UserID,
	})
	s.publish(ctx, events.New(events.CandidateCreated, actor.UserID, map[string]string{
		"candidateId": candidate.ID,
		"position":    candidate.Position,
	}))
	return &candidate, nil
}

// UpdateStatus moves a candidate to any stage and records the change in
// their timeline. Any stage may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, actor models.Actor, id string, status models.CandidateStatus) error {
	if !validStatus(status) {
		return utils.NewValidationError(fmt.Sprintf("invalid candidate status %q", status))
	}

	err := s.store.InTx(ctx, func(tx store.Store) error {
		if err := tx.UpdateCandidateStatus(ctx, id, status); err != nil {
			return err
		}
		return tx.InsertTimelineEntry(ctx, &models.TimelineEntry{
			CandidateID: id,
			Date:        utils.Today(),
			Type:        string(status),
			Title:       fmt.Sprintf("Status changed to %s", status),
			Description: fmt.Sprintf("Candidate moved to %s stage", status),
			Status:      models.TimelineStatusCompleted,
		})
	})
	if err != nil {
		return s.mapNotFound("update candidate status", err)
	}

	s.logger.Info("Candidate status changed", map[string]interface{}{
		"candidate_id": id,
		"status":       string(status),
		"user_id":      actor.UserID,
	})
	s.publish(ctx, events.New(events.CandidateStatusChanged, actor.UserID, map[string]string{
		"candidateId": id,
		"status":      string(status),
	}))
	return nil
}

// UpdateEvaluation overwrites all four evaluation scores at once
func (s *Service) UpdateEvaluation(ctx context.Context, actor models.Actor, id string, evaluation models.Evaluation) error {
	if err := s.store.UpdateCandidateEvaluation(ctx, id, evaluation); err != nil {
		return s.mapNotFound("update evaluation", err)
	}

	s.logger.Info("Candidate evaluation updated", map[string]interface{}{
		"candidate_id": id,
		"overall":      evaluation.Overall,
		"user_id":      actor.UserID,
	})
	return nil
}

// AddNote appends a staff note dated today. Author and role default to the
// signed-in actor.
func (s *Service) AddNote(ctx context.Context, actor models.Actor, id string, req models.AddNoteRequest) (*models.Note, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, utils.NewValidationError("content is required")
	}

	note := models.Note{
		CandidateID: id,
		Author:      utils.GetStringOrDefault(strings.TrimSpace(req.Author), actor.UserID),
		Role:        utils.GetStringOrDefault(strings.TrimSpace(req.Role), actor.Role),
		Content:     content,
		Date:        utils.Today(),
	}
	if err := s.store.InsertNote(ctx, &note); err != nil {
		return nil, s.mapNotFound("add note", err)
	}
	return &note, nil
}

// SubmitApplication records an application from the careers site. The
// candidate is matched by exact email: a new one is created with the job
// title as position, an existing one only has its documents replaced when
// new ones are supplied. All writes commit together.
func (s *Service) SubmitApplication(ctx context.Context, req models.SubmitApplicationRequest) (*models.SubmissionResult, error) {
	var (
		result models.SubmissionResult
		job    *models.Job
	)
	today := utils.Today()

	err := s.store.InTx(ctx, func(tx store.Store) error {
		var err error
		job, err = tx.GetJob(ctx, req.JobID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrJobNotAccepting
		}
		if err != nil {
			return fmt.Errorf("get job: %w", err)
		}
		if job.Status != models.JobStatusActive {
			return ErrJobNotAccepting
		}

		candidateID, err := s.upsertApplicant(ctx, tx, job, req, today)
		if err != nil {
			return err
		}

		app := models.Application{
			CandidateID: candidateID,
			JobID:       job.ID,
			AppliedDate: today,
			Status:      models.ApplicationStatusPending,
		}
		if err := tx.InsertApplication(ctx, &app); err != nil {
			return fmt.Errorf("insert application: %w", err)
		}

		if err := tx.InsertTimelineEntry(ctx, &models.TimelineEntry{
			CandidateID: candidateID,
			Date:        today,
			Type:        models.TimelineTypeApplied,
			Title:       fmt.Sprintf("Applied for %s", job.Title),
			Description: fmt.Sprintf("Application submitted for %s position", job.Title),
			Status:      models.TimelineStatusCompleted,
		}); err != nil {
			return fmt.Errorf("insert timeline entry: %w", err)
		}

		result = models.SubmissionResult{CandidateID: candidateID, ApplicationID: app.ID, Success: true}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Application submitted", map[string]interface{}{
		"job_id":         job.ID,
		"candidate_id":   result.CandidateID,
		"application_id": result.ApplicationID,
	})
	s.publish(ctx, events.New(events.ApplicationSubmitted, "", map[string]string{
		"jobId":         job.ID,
		"candidateId":   result.CandidateID,
		"applicationId": result.ApplicationID,
	}))
	return &result, nil
}

// upsertApplicant returns the id of the candidate matching the applicant's
// email, creating one when none exists
func (s *Service) upsertApplicant(ctx context.Context, tx store.Store, job *models.Job, req models.SubmitApplicationRequest, today string) (string, error) {
	existing, err := tx.FindCandidateByEmail(ctx, req.Email)
	switch {
	case err == nil:
		docs, changed := mergeDocuments(existing, req)
		if changed {
			if err := tx.UpdateCandidateDocuments(ctx, existing.ID, docs); err != nil {
				return "", fmt.Errorf("update documents: %w", err)
			}
		}
		return existing.ID, nil
	case !errors.Is(err, store.ErrNotFound):
		return "", fmt.Errorf("find candidate: %w", err)
	}

	candidate := models.Candidate{
		Name:                 req.Name,
		Email:                req.Email,
		Phone:                req.Phone,
		Location:             req.Location,
		Position:             job.Title,
		Experience:           req.Experience,
		Skills:               nonNil(req.Skills),
		LinkedIn:             req.LinkedIn,
		GitHub:               req.GitHub,
		Portfolio:            req.Portfolio,
		Education:            req.Education,
		CurrentCompany:       req.CurrentCompany,
		ResumeStorageID:      req.ResumeStorageID,
		ResumeFilename:       req.ResumeFilename,
		CoverLetterStorageID: req.CoverLetterStorageID,
		CoverLetterFilename:  req.CoverLetterFilename,
		AppliedDate:          today,
		Status:               models.CandidateStatusApplied,
	}
	if err := tx.InsertCandidate(ctx, &candidate); err != nil {
		return "", fmt.Errorf("insert candidate: %w", err)
	}
	return candidate.ID, nil
}

// mergeDocuments overlays the supplied document references on the existing
// ones and reports whether anything was supplied
func mergeDocuments(c *models.Candidate, req models.SubmitApplicationRequest) (store.Documents, bool) {
	docs := store.Documents{
		ResumeStorageID:      c.ResumeStorageID,
		ResumeFilename:       c.ResumeFilename,
		CoverLetterStorageID: c.CoverLetterStorageID,
		CoverLetterFilename:  c.CoverLetterFilename,
	}
	changed := false
	overlay := func(dst *string, v string) {
		if v != "" {
			*dst = v
			changed = true
		}
	}
	overlay(&docs.ResumeStorageID, req.ResumeStorageID)
	overlay(&docs.ResumeFilename, req.ResumeFilename)
	overlay(&docs.CoverLetterStorageID, req.CoverLetterStorageID)
	overlay(&docs.CoverLetterFilename, req.CoverLetterFilename)
	return docs, changed
}

func (s *Service) mapNotFound(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event", map[string]interface{}{
			"event": event.Type,
			"error": err.Error(),
		})
	}
}

func validStatus(status models.CandidateStatus) bool {
	for _, s := range models.CandidateStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
