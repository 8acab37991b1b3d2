// Package postgres implements store.Store on PostgreSQL through pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hireflow/internal/store"
	"hireflow/pkg/models"
)

// querier is satisfied by both the pool and an open transaction
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is a PostgreSQL backed entity store
type Store struct {
	pool *pgxpool.Pool
	q    querier
	inTx bool
}

// Open connects a pool to databaseURL, tuning its size when maxConns > 0
func Open(ctx context.Context, databaseURL string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return &Store{pool: pool, q: pool}, nil
}

// Migrate creates the schema if it does not exist yet
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// InTx runs fn inside one database transaction. Nested calls join the
// outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx store.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&Store{pool: s.pool, q: tx, inTx: true})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	if !s.inTx {
		s.pool.Close()
	}
}

// ─── Jobs ────────────────────────────────────────────────────────────────────

const jobColumns = `id::text, title, department, location, type, urgency, description,
	requirements, salary_min, salary_max, benefits, slug, is_public,
	to_char(posted_date, 'YYYY-MM-DD'), status, schema_version, created_at`

func scanJob(row pgx.Row) (models.Job, error) {
	var j models.Job
	err := row.Scan(
		&j.ID, &j.Title, &j.Department, &j.Location, &j.Type, &j.Urgency, &j.Description,
		&j.Requirements, &j.SalaryMin, &j.SalaryMax, &j.Benefits, &j.Slug, &j.IsPublic,
		&j.PostedDate, &j.Status, &j.SchemaVersion, &j.CreatedAt,
	)
	return j, err
}

func (s *Store) InsertJob(ctx context.Context, job *models.Job) error {
	store.Stamp(&job.ID, &job.CreatedAt, &job.SchemaVersion)

	_, err := s.q.Exec(ctx,
		`INSERT INTO jobs (id, title, department, location, type, urgency, description,
		                   requirements, salary_min, salary_max, benefits, slug, is_public,
		                   posted_date, status, schema_version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14::date, $15, $16, $17)`,
		job.ID, job.Title, job.Department, job.Location, string(job.Type), string(job.Urgency), job.Description,
		textArray(job.Requirements), job.SalaryMin, job.SalaryMax, job.Benefits, job.Slug, job.IsPublic,
		job.PostedDate, string(job.Status), job.SchemaVersion, job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insertJob: %w", mapError(err))
	}
	return nil
}

func (s *Store) GetJob(ctx context.Context, id string) (*models.Job, error) {
	if !store.IsID(id) {
		return nil, store.ErrNotFound
	}
	j, err := scanJob(s.q.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("getJob: %w", mapError(err))
	}
	return &j, nil
}

func (s *Store) ListJobs(ctx context.Context, status models.JobStatus) ([]models.Job, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status != "" {
		rows, err = s.q.Query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE status = $1 ORDER BY created_at, id`, string(status))
	} else {
		rows, err = s.q.Query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at, id`)
	}
	if err != nil {
		return nil, fmt.Errorf("listJobs query: %w", err)
	}
	defer rows.Close()

	jobs := make([]models.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("listJobs scan: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (s *Store) JobSlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	if err := s.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM jobs WHERE slug = $1)`, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("jobSlugExists: %w", err)
	}
	return exists, nil
}

func (s *Store) UpdateJobStatus(ctx context.Context, id string, status models.JobStatus) error {
	if !store.IsID(id) {
		return store.ErrNotFound
	}
	return s.execOne(ctx, "updateJobStatus", `UPDATE jobs SET status = $2 WHERE id = $1`, id, string(status))
}

// ─── Candidates ──────────────────────────────────────────────────────────────

const candidateColumns = `id::text, name, email, phone, location, position, experience, skills,
	linkedin, github, portfolio, education, current_company,
	resume_storage_id, resume_filename, cover_letter_storage_id, cover_letter_filename,
	to_char(applied_date, 'YYYY-MM-DD'), status,
	eval_overall, eval_technical, eval_cultural, eval_communication,
	schema_version, created_at`

func scanCandidate(row pgx.Row) (models.Candidate, error) {
	var c models.Candidate
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Location, &c.Position, &c.Experience, &c.Skills,
		&c.LinkedIn, &c.GitHub, &c.Portfolio, &c.Education, &c.CurrentCompany,
		&c.ResumeStorageID, &c.ResumeFilename, &c.CoverLetterStorageID, &c.CoverLetterFilename,
		&c.AppliedDate, &c.Status,
		&c.Evaluation.Overall, &c.Evaluation.Technical, &c.Evaluation.Cultural, &c.Evaluation.Communication,
		&c.SchemaVersion, &c.CreatedAt,
	)
	return c, err
}

func (s *Store) InsertCandidate(ctx context.Context, c *models.Candidate) error {
	store.Stamp(&c.ID, &c.CreatedAt, &c.SchemaVersion)

	_, err := s.q.Exec(ctx,
		`INSERT INTO candidates (id, name, email, phone, location, position, experience, skills,
		                         linkedin, github, portfolio, education, current_company,
		                         resume_storage_id, resume_filename, cover_letter_storage_id, cover_letter_filename,
		                         applied_date, status,
		                         eval_overall, eval_technical, eval_cultural, eval_communication,
		                         schema_version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
		         $18::date, $19, $20, $21, $22, $23, $24, $25)`,
		c.ID, c.Name, c.Email, c.Phone, c.Location, c.Position, c.Experience, textArray(c.Skills),
		c.LinkedIn, c.GitHub, c.Portfolio, c.Education, c.CurrentCompany,
		c.ResumeStorageID, c.ResumeFilename, c.CoverLetterStorageID, c.CoverLetterFilename,
		c.AppliedDate, string(c.Status),
		c.Evaluation.Overall, c.Evaluation.Technical, c.Evaluation.Cultural, c.Evaluation.Communication,
		c.SchemaVersion, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insertCandidate: %w", mapError(err))
	}
	return nil
}

func (s *Store) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	if !store.IsID(id) {
		return nil, store.ErrNotFound
	}
	c, err := scanCandidate(s.q.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("getCandidate: %w", mapError(err))
	}
	return &c, nil
}

func (s *Store) FindCandidateByEmail(ctx context.Context, email string) (*models.Candidate, error) {
	c, err := scanCandidate(s.q.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE email = $1 ORDER BY created_at, id LIMIT 1`, email))
	if err != nil {
		return nil, fmt.Errorf("findCandidateByEmail: %w", mapError(err))
	}
	return &c, nil
}

func (s *Store) ListCandidates(ctx context.Context, status models.CandidateStatus) ([]models.Candidate, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status != "" {
		rows, err = s.q.Query(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE status = $1 ORDER BY created_at, id`, string(status))
	} else {
		rows, err = s.q.Query(ctx, `SELECT `+candidateColumns+` FROM candidates ORDER BY created_at, id`)
	}
	if err != nil {
		return nil, fmt.Errorf("listCandidates query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Candidate, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("listCandidates scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateCandidateStatus(ctx context.Context, id string, status models.CandidateStatus) error {
	if !store.IsID(id) {
		return store.ErrNotFound
	}
	return s.execOne(ctx, "updateCandidateStatus", `UPDATE candidates SET status = $2 WHERE id = $1`, id, string(status))
}

func (s *Store) UpdateCandidateEvaluation(ctx context.Context, id string, e models.Evaluation) error {
	if !store.IsID(id) {
		return store.ErrNotFound
	}
	return s.execOne(ctx, "updateCandidateEvaluation",
		`UPDATE candidates
		 SET eval_overall = $2, eval_technical = $3, eval_cultural = $4, eval_communication = $5
		 WHERE id = $1`,
		id, e.Overall, e.Technical, e.Cultural, e.Communication)
}

func (s *Store) UpdateCandidateDocuments(ctx context.Context, id string, d store.Documents) error {
	if !store.IsID(id) {
		return store.ErrNotFound
	}
	return s.execOne(ctx, "updateCandidateDocuments",
		`UPDATE candidates
		 SET resume_storage_id = $2, resume_filename = $3,
		     cover_letter_storage_id = $4, cover_letter_filename = $5
		 WHERE id = $1`,
		id, d.ResumeStorageID, d.ResumeFilename, d.CoverLetterStorageID, d.CoverLetterFilename)
}

// ─── Applications ────────────────────────────────────────────────────────────

func (s *Store) InsertApplication(ctx context.Context, app *models.Application) error {
	if !store.IsID(app.CandidateID) || !store.IsID(app.JobID) {
		return store.ErrNotFound
	}
	store.Stamp(&app.ID, &app.CreatedAt, &app.SchemaVersion)

	_, err := s.q.Exec(ctx,
		`INSERT INTO applications (id, candidate_id, job_id, applied_date, status, schema_version, created_at)
		 VALUES ($1, $2, $3, $4::date, $5, $6, $7)`,
		app.ID, app.CandidateID, app.JobID, app.AppliedDate, app.Status, app.SchemaVersion, app.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insertApplication: %w", mapError(err))
	}
	return nil
}

func (s *Store) ListApplicationsByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	if !store.IsID(jobID) {
		return []models.Application{}, nil
	}
	rows, err := s.q.Query(ctx,
		`SELECT id::text, candidate_id::text, job_id::text, to_char(applied_date, 'YYYY-MM-DD'),
		        status, schema_version, created_at
		 FROM applications WHERE job_id = $1 ORDER BY created_at, id`, jobID)
	if err != nil {
		return nil, fmt.Errorf("listApplicationsByJob query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Application, 0)
	for rows.Next() {
		var a models.Application
		if err := rows.Scan(&a.ID, &a.CandidateID, &a.JobID, &a.AppliedDate, &a.Status, &a.SchemaVersion, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("listApplicationsByJob scan: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) CountApplicationsByJob(ctx context.Context) (map[string]int, error) {
	rows, err := s.q.Query(ctx, `SELECT job_id::text, count(*) FROM applications GROUP BY job_id`)
	if err != nil {
		return nil, fmt.Errorf("countApplicationsByJob query: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			jobID string
			n     int
		)
		if err := rows.Scan(&jobID, &n); err != nil {
			return nil, fmt.Errorf("countApplicationsByJob scan: %w", err)
		}
		counts[jobID] = n
	}
	return counts, rows.Err()
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// execOne runs a single-row mutation and reports store.ErrNotFound when no
// row matched
func (s *Store) execOne(ctx context.Context, op, sql string, args ...any) error {
	tag, err := s.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, store.ErrNotFound)
	}
	return nil
}

// mapError translates driver errors into store sentinels
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", store.ErrConflict, pgErr.ConstraintName)
		case "23503":
			return fmt.Errorf("%w: %s", store.ErrNotFound, pgErr.ConstraintName)
		}
	}
	return err
}

func textArray(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
