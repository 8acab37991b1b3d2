// Package memory is an in-process implementation of store.Store. It keeps
// every collection in maps guarded by a mutex and implements transactions
// by snapshotting state and restoring it when the transaction fails.
package memory

import (
	"context"
	"sync"

	"hireflow/internal/store"
	"hireflow/pkg/models"
)

type state struct {
	jobs         map[string]models.Job
	jobOrder     []string
	candidates   map[string]models.Candidate
	candOrder    []string
	applications []models.Application
	timeline     []models.TimelineEntry
	notes        []models.Note
	assessments  []models.Assessment
	interviews   []models.Interview
}

func newState() *state {
	return &state{
		jobs:       make(map[string]models.Job),
		candidates: make(map[string]models.Candidate),
	}
}

func (s *state) clone() *state {
	c := &state{
		jobs:         make(map[string]models.Job, len(s.jobs)),
		jobOrder:     append([]string(nil), s.jobOrder...),
		candidates:   make(map[string]models.Candidate, len(s.candidates)),
		candOrder:    append([]string(nil), s.candOrder...),
		applications: append([]models.Application(nil), s.applications...),
		timeline:     append([]models.TimelineEntry(nil), s.timeline...),
		notes:        append([]models.Note(nil), s.notes...),
		assessments:  append([]models.Assessment(nil), s.assessments...),
		interviews:   append([]models.Interview(nil), s.interviews...),
	}
	for k, v := range s.jobs {
		c.jobs[k] = v
	}
	for k, v := range s.candidates {
		c.candidates[k] = v
	}
	return c
}

// Store is a mutex-guarded in-memory entity store
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	st   *state
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{st: newState()}
}

// InTx runs fn with exclusive write access, rolling back on error
func (s *Store) InTx(ctx context.Context, fn func(tx store.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.st.clone()
	s.mu.RUnlock()

	if err := fn(&tx{s: s}); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error { return nil }

// Close is a no-op
func (s *Store) Close() {}

// write runs a single mutation outside of a caller transaction
func (s *Store) write(fn func(t *tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(&tx{s: s})
}

func (s *Store) read() *tx { return &tx{s: s} }

func (s *Store) InsertJob(ctx context.Context, job *models.Job) error {
	return s.write(func(t *tx) error { return t.InsertJob(ctx, job) })
}

func (s *Store) GetJob(ctx context.Context, id string) (*models.Job, error) {
	return s.read().GetJob(ctx, id)
}

func (s *Store) ListJobs(ctx context.Context, status models.JobStatus) ([]models.Job, error) {
	return s.read().ListJobs(ctx, status)
}

func (s *Store) JobSlugExists(ctx context.Context, slug string) (bool, error) {
	return s.read().JobSlugExists(ctx, slug)
}

func (s *Store) UpdateJobStatus(ctx context.Context, id string, status models.JobStatus) error {
	return s.write(func(t *tx) error { return t.UpdateJobStatus(ctx, id, status) })
}

func (s *Store) InsertCandidate(ctx context.Context, c *models.Candidate) error {
	return s.write(func(t *tx) error { return t.InsertCandidate(ctx, c) })
}

func (s *Store) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	return s.read().GetCandidate(ctx, id)
}

func (s *Store) FindCandidateByEmail(ctx context.Context, email string) (*models.Candidate, error) {
	return s.read().FindCandidateByEmail(ctx, email)
}

func (s *Store) ListCandidates(ctx context.Context, status models.CandidateStatus) ([]models.Candidate, error) {
	return s.read().ListCandidates(ctx, status)
}

func (s *Store) UpdateCandidateStatus(ctx context.Context, id string, status models.CandidateStatus) error {
	return s.write(func(t *tx) error { return t.UpdateCandidateStatus(ctx, id, status) })
}

func (s *Store) UpdateCandidateEvaluation(ctx context.Context, id string, e models.Evaluation) error {
	return s.write(func(t *tx) error { return t.UpdateCandidateEvaluation(ctx, id, e) })
}

func (s *Store) UpdateCandidateDocuments(ctx context.Context, id string, docs store.Documents) error {
	return s.write(func(t *tx) error { return t.UpdateCandidateDocuments(ctx, id, docs) })
}

func (s *Store) InsertApplication(ctx context.Context, app *models.Application) error {
	return s.write(func(t *tx) error { return t.InsertApplication(ctx, app) })
}

func (s *Store) ListApplicationsByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	return s.read().ListApplicationsByJob(ctx, jobID)
}

func (s *Store) CountApplicationsByJob(ctx context.Context) (map[string]int, error) {
	return s.read().CountApplicationsByJob(ctx)
}

func (s *Store) InsertTimelineEntry(ctx context.Context, e *models.TimelineEntry) error {
	return s.write(func(t *tx) error { return t.InsertTimelineEntry(ctx, e) })
}

func (s *Store) ListTimeline(ctx context.Context, candidateID string) ([]models.TimelineEntry, error) {
	return s.read().ListTimeline(ctx, candidateID)
}

func (s *Store) InsertNote(ctx context.Context, n *models.Note) error {
	return s.write(func(t *tx) error { return t.InsertNote(ctx, n) })
}

func (s *Store) ListNotes(ctx context.Context, candidateID string) ([]models.Note, error) {
	return s.read().ListNotes(ctx, candidateID)
}

func (s *Store) InsertAssessment(ctx context.Context, a *models.Assessment) error {
	return s.write(func(t *tx) error { return t.InsertAssessment(ctx, a) })
}

func (s *Store) ListAssessments(ctx context.Context, candidateID string) ([]models.Assessment, error) {
	return s.read().ListAssessments(ctx, candidateID)
}

func (s *Store) InsertInterview(ctx context.Context, i *models.Interview) error {
	return s.write(func(t *tx) error { return t.InsertInterview(ctx, i) })
}

func (s *Store) ListInterviews(ctx context.Context, candidateID string) ([]models.Interview, error) {
	return s.read().ListInterviews(ctx, candidateID)
}

// tx is the view of the store handed to transaction bodies. It only takes
// the state mutex; the caller already holds the transaction lock for writes.
type tx struct {
	s *Store
}

func (t *tx) InTx(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(t)
}

func (t *tx) Ping(ctx context.Context) error { return nil }

func (t *tx) Close() {}

func (t *tx) InsertJob(ctx context.Context, job *models.Job) error {
	store.Stamp(&job.ID, &job.CreatedAt, &job.SchemaVersion)

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, ok := t.s.st.jobs[job.ID]; ok {
		return store.ErrConflict
	}
	for _, existing := range t.s.st.jobs {
		if existing.Slug == job.Slug {
			return store.ErrConflict
		}
	}
	t.s.st.jobs[job.ID] = copyJob(*job)
	t.s.st.jobOrder = append(t.s.st.jobOrder, job.ID)
	return nil
}

func (t *tx) GetJob(ctx context.Context, id string) (*models.Job, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	job, ok := t.s.st.jobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := copyJob(job)
	return &out, nil
}

func (t *tx) ListJobs(ctx context.Context, status models.JobStatus) ([]models.Job, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	jobs := make([]models.Job, 0, len(t.s.st.jobOrder))
	for _, id := range t.s.st.jobOrder {
		job := t.s.st.jobs[id]
		if status != "" && job.Status != status {
			continue
		}
		jobs = append(jobs, copyJob(job))
	}
	return jobs, nil
}

func (t *tx) JobSlugExists(ctx context.Context, slug string) (bool, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	for _, job := range t.s.st.jobs {
		if job.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (t *tx) UpdateJobStatus(ctx context.Context, id string, status models.JobStatus) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	job, ok := t.s.st.jobs[id]
	if !ok {
		return store.ErrNotFound
	}
	job.Status = status
	t.s.st.jobs[id] = job
	return nil
}

func (t *tx) InsertCandidate(ctx context.Context, c *models.Candidate) error {
	store.Stamp(&c.ID, &c.CreatedAt, &c.SchemaVersion)

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, ok := t.s.st.candidates[c.ID]; ok {
		return store.ErrConflict
	}
	t.s.st.candidates[c.ID] = copyCandidate(*c)
	t.s.st.candOrder = append(t.s.st.candOrder, c.ID)
	return nil
}

func (t *tx) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	c, ok := t.s.st.candidates[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := copyCandidate(c)
	return &out, nil
}

// FindCandidateByEmail returns the earliest candidate with exactly this email
func (t *tx) FindCandidateByEmail(ctx context.Context, email string) (*models.Candidate, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	for _, id := range t.s.st.candOrder {
		c := t.s.st.candidates[id]
		if c.Email == email {
			out := copyCandidate(c)
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (t *tx) ListCandidates(ctx context.Context, status models.CandidateStatus) ([]models.Candidate, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	out := make([]models.Candidate, 0, len(t.s.st.candOrder))
	for _, id := range t.s.st.candOrder {
		c := t.s.st.candidates[id]
		if status != "" && c.Status != status {
			continue
		}
		out = append(out, copyCandidate(c))
	}
	return out, nil
}

func (t *tx) UpdateCandidateStatus(ctx context.Context, id string, status models.CandidateStatus) error {
	return t.patchCandidate(id, func(c *models.Candidate) { c.Status = status })
}

func (t *tx) UpdateCandidateEvaluation(ctx context.Context, id string, e models.Evaluation) error {
	return t.patchCandidate(id, func(c *models.Candidate) { c.Evaluation = e })
}

func (t *tx) UpdateCandidateDocuments(ctx context.Context, id string, docs store.Documents) error {
	return t.patchCandidate(id, func(c *models.Candidate) {
		c.ResumeStorageID = docs.ResumeStorageID
		c.ResumeFilename = docs.ResumeFilename
		c.CoverLetterStorageID = docs.CoverLetterStorageID
		c.CoverLetterFilename = docs.CoverLetterFilename
	})
}

func (t *tx) patchCandidate(id string, patch func(c *models.Candidate)) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	c, ok := t.s.st.candidates[id]
	if !ok {
		return store.ErrNotFound
	}
	patch(&c)
	t.s.st.candidates[id] = c
	return nil
}

func (t *tx) InsertApplication(ctx context.Context, app *models.Application) error {
	store.Stamp(&app.ID, &app.CreatedAt, &app.SchemaVersion)

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, ok := t.s.st.candidates[app.CandidateID]; !ok {
		return store.ErrNotFound
	}
	if _, ok := t.s.st.jobs[app.JobID]; !ok {
		return store.ErrNotFound
	}
	t.s.st.applications = append(t.s.st.applications, *app)
	return nil
}

func (t *tx) ListApplicationsByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	out := make([]models.Application, 0)
	for _, app := range t.s.st.applications {
		if app.JobID == jobID {
			out = append(out, app)
		}
	}
	return out, nil
}

func (t *tx) CountApplicationsByJob(ctx context.Context) (map[string]int, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()

	counts := make(map[string]int)
	for _, app := range t.s.st.applications {
		counts[app.JobID]++
	}
	return counts, nil
}

func (t *tx) InsertTimelineEntry(ctx context.Context, e *models.TimelineEntry) error {
	store.Stamp(&e.ID, &e.CreatedAt, &e.SchemaVersion)
	return t.owned(e.CandidateID, func(st *state) { st.timeline = append(st.timeline, *e) })
}

func (t *tx) ListTimeline(ctx context.Context, candidateID string) ([]models.TimelineEntry, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return filterByCandidate(t.s.st.timeline, candidateID, func(e models.TimelineEntry) string { return e.CandidateID }), nil
}

func (t *tx) InsertNote(ctx context.Context, n *models.Note) error {
	store.Stamp(&n.ID, &n.CreatedAt, &n.SchemaVersion)
	return t.owned(n.CandidateID, func(st *state) { st.notes = append(st.notes, *n) })
}

func (t *tx) ListNotes(ctx context.Context, candidateID string) ([]models.Note, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return filterByCandidate(t.s.st.notes, candidateID, func(n models.Note) string { return n.CandidateID }), nil
}

func (t *tx) InsertAssessment(ctx context.Context, a *models.Assessment) error {
	store.Stamp(&a.ID, &a.CreatedAt, &a.SchemaVersion)
	return t.owned(a.CandidateID, func(st *state) { st.assessments = append(st.assessments, *a) })
}

func (t *tx) ListAssessments(ctx context.Context, candidateID string) ([]models.Assessment, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return filterByCandidate(t.s.st.assessments, candidateID, func(a models.Assessment) string { return a.CandidateID }), nil
}

func (t *tx) InsertInterview(ctx context.Context, i *models.Interview) error {
	store.Stamp(&i.ID, &i.CreatedAt, &i.SchemaVersion)
	return t.owned(i.CandidateID, func(st *state) { st.interviews = append(st.interviews, *i) })
}

func (t *tx) ListInterviews(ctx context.Context, candidateID string) ([]models.Interview, error) {
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	return filterByCandidate(t.s.st.interviews, candidateID, func(i models.Interview) string { return i.CandidateID }), nil
}

// owned appends a record owned by candidateID, which must exist
func (t *tx) owned(candidateID string, add func(st *state)) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, ok := t.s.st.candidates[candidateID]; !ok {
		return store.ErrNotFound
	}
	add(t.s.st)
	return nil
}

func filterByCandidate[T any](items []T, candidateID string, key func(T) string) []T {
	out := make([]T, 0)
	for _, item := range items {
		if key(item) == candidateID {
			out = append(out, item)
		}
	}
	return out
}

func copyJob(j models.Job) models.Job {
	j.Requirements = cloneStrings(j.Requirements)
	j.Benefits = cloneStrings(j.Benefits)
	if j.SalaryMin != nil {
		v := *j.SalaryMin
		j.SalaryMin = &v
	}
	if j.SalaryMax != nil {
		v := *j.SalaryMax
		j.SalaryMax = &v
	}
	return j
}

func copyCandidate(c models.Candidate) models.Candidate {
	c.Skills = cloneStrings(c.Skills)
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
