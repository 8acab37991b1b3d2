package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hireflow/internal/store"
	"hireflow/pkg/models"
)

func (s *Store) InsertTimelineEntry(ctx context.Context, e *models.TimelineEntry) error {
	if !store.IsID(e.CandidateID) {
		return store.ErrNotFound
	}
	store.Stamp(&e.ID, &e.CreatedAt, &e.SchemaVersion)

	_, err := s.q.Exec(ctx,
		`INSERT INTO timeline (id, candidate_id, date, type, title, description, status, schema_version, created_at)
		 VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.CandidateID, e.Date, e.Type, e.Title, e.Description, e.Status, e.SchemaVersion, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insertTimelineEntry: %w", mapError(err))
	}
	return nil
}

func (s *Store) ListTimeline(ctx context.Context, candidateID string) ([]models.TimelineEntry, error) {
	return listByCandidate(ctx, s.q, "listTimeline",
		`SELECT id::text, candidate_id::text, to_char(date, 'YYYY-MM-DD'), type, title, description,
		        status, schema_version, created_at
		 FROM timeline WHERE candidate_id = $1 ORDER BY created_at, id`,
		candidateID,
		func(rows pgx.Rows) (models.TimelineEntry, error) {
			var e models.TimelineEntry
			err := rows.Scan(&e.ID, &e.CandidateID, &e.Date, &e.Type, &e.Title, &e.Description,
				&e.Status, &e.SchemaVersion, &e.CreatedAt)
			return e, err
		})
}

func (s *Store) InsertNote(ctx context.Context, n *models.Note) error {
	if !store.IsID(n.CandidateID) {
		return store.ErrNotFound
	}
	store.Stamp(&n.ID, &n.CreatedAt, &n.SchemaVersion)

	_, err := s.q.Exec(ctx,
		`INSERT INTO notes (id, candidate_id, author, role, content, date, schema_version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8)`,
		n.ID, n.CandidateID, n.Author, n.Role, n.Content, n.Date, n.SchemaVersion, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insertNote: %w", mapError(err))
	}
	return nil
}

func (s *Store) ListNotes(ctx context.Context, candidateID string) ([]models.Note, error) {
	return listByCandidate(ctx, s.q, "listNotes",
		`SELECT id::text, candidate_id::text, author, role, content, to_char(date, 'YYYY-MM-DD'),
		        schema_version, created_at
		 FROM notes WHERE candidate_id = $1 ORDER BY created_at, id`,
		candidateID,
		func(rows pgx.Rows) (models.Note, error) {
			var n models.Note
			err := rows.Scan(&n.ID, &n.CandidateID, &n.Author, &n.Role, &n.Content, &n.Date,
				&n.SchemaVersion, &n.CreatedAt)
			return n, err
		})
}

func (s *Store) InsertAssessment(ctx context.Context, a *models.Assessment) error {
	if !store.IsID(a.CandidateID) {
		return store.ErrNotFound
	}
	store.Stamp(&a.ID, &a.CreatedAt, &a.SchemaVersion)

	_, err := s.q.Exec(ctx,
		`INSERT INTO assessments (id, candidate_id, name, type, score, max_score, status, date, schema_version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8::date, $9, $10)`,
		a.ID, a.CandidateID, a.Name, a.Type, a.Score, a.MaxScore, a.Status, a.Date, a.SchemaVersion, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insertAssessment: %w", mapError(err))
	}
	return nil
}

func (s *Store) ListAssessments(ctx context.Context, candidateID string) ([]models.Assessment, error) {
	return listByCandidate(ctx, s.q, "listAssessments",
		`SELECT id::text, candidate_id::text, name, type, score, max_score, status,
		        to_char(date, 'YYYY-MM-DD'), schema_version, created_at
		 FROM assessments WHERE candidate_id = $1 ORDER BY created_at, id`,
		candidateID,
		func(rows pgx.Rows) (models.Assessment, error) {
			var a models.Assessment
			err := rows.Scan(&a.ID, &a.CandidateID, &a.Name, &a.Type, &a.Score, &a.MaxScore, &a.Status,
				&a.Date, &a.SchemaVersion, &a.CreatedAt)
			return a, err
		})
}

func (s *Store) InsertInterview(ctx context.Context, i *models.Interview) error {
	if !store.IsID(i.CandidateID) {
		return store.ErrNotFound
	}
	store.Stamp(&i.ID, &i.CreatedAt, &i.SchemaVersion)

	_, err := s.q.Exec(ctx,
		`INSERT INTO interviews (id, candidate_id, type, date, time, interviewer, status, notes, schema_version, created_at)
		 VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9, $10)`,
		i.ID, i.CandidateID, i.Type, i.Date, i.Time, i.Interviewer, i.Status, i.Notes, i.SchemaVersion, i.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insertInterview: %w", mapError(err))
	}
	return nil
}

func (s *Store) ListInterviews(ctx context.Context, candidateID string) ([]models.Interview, error) {
	return listByCandidate(ctx, s.q, "listInterviews",
		`SELECT id::text, candidate_id::text, type, to_char(date, 'YYYY-MM-DD'), time, interviewer,
		        status, notes, schema_version, created_at
		 FROM interviews WHERE candidate_id = $1 ORDER BY created_at, id`,
		candidateID,
		func(rows pgx.Rows) (models.Interview, error) {
			var i models.Interview
			err := rows.Scan(&i.ID, &i.CandidateID, &i.Type, &i.Date, &i.Time, &i.Interviewer,
				&i.Status, &i.Notes, &i.SchemaVersion, &i.CreatedAt)
			return i, err
		})
}

func listByCandidate[T any](ctx context.Context, q querier, op, sql, candidateID string, scan func(pgx.Rows) (T, error)) ([]T, error) {
	out := make([]T, 0)
	if !store.IsID(candidateID) {
		return out, nil
	}

	rows, err := q.Query(ctx, sql, candidateID)
	if err != nil {
		return nil, fmt.Errorf("%s query: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
