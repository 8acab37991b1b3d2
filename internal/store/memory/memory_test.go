package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireflow/internal/store"
	"hireflow/pkg/models"
)

func newJob(slug string) *models.Job {
	return &models.Job{Title: "Engineer", Slug: slug, Status: models.JobStatusActive, Requirements: []string{"Go"}}
}

func TestInsertStampsRecords(t *testing.T) {
	s := New()
	job := newJob("engineer")

	require.NoError(t, s.InsertJob(context.Background(), job))

	assert.True(t, store.IsID(job.ID))
	assert.False(t, job.CreatedAt.IsZero())
	assert.Equal(t, models.SchemaVersion, job.SchemaVersion)
}

func TestSlugIsUnique(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.InsertJob(ctx, newJob("engineer")))
	err := s.InsertJob(ctx, newJob("engineer"))
	assert.ErrorIs(t, err, store.ErrConflict)

	exists, err := s.JobSlugExists(ctx, "engineer")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInTxRollsBack(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(tx store.Store) error {
		c := &models.Candidate{Name: "Ada", Email: "ada@example.com", Status: models.CandidateStatusApplied}
		require.NoError(t, tx.InsertCandidate(ctx, c))
		require.NoError(t, tx.InsertTimelineEntry(ctx, &models.TimelineEntry{CandidateID: c.ID, Title: "Applied"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := s.ListCandidates(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = s.FindCandidateByEmail(ctx, "ada@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInTxCommits(t *testing.T) {
	s := New()
	ctx := context.Background()

	var id string
	require.NoError(t, s.InTx(ctx, func(tx store.Store) error {
		c := &models.Candidate{Name: "Ada", Email: "ada@example.com", Status: models.CandidateStatusApplied}
		if err := tx.InsertCandidate(ctx, c); err != nil {
			return err
		}
		id = c.ID
		return tx.UpdateCandidateStatus(ctx, id, models.CandidateStatusScreening)
	}))

	got, err := s.GetCandidate(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateStatusScreening, got.Status)
}

func TestOwnedRecordsRequireCandidate(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.InsertNote(ctx, &models.Note{CandidateID: "00000000-0000-0000-0000-000000000000", Content: "hi"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = s.InsertApplication(ctx, &models.Application{CandidateID: "x", JobID: "y"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	job := newJob("engineer")
	require.NoError(t, s.InsertJob(ctx, job))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	got.Requirements[0] = "mutated"

	again, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", again.Requirements[0])
}

func TestCountApplicationsByJob(t *testing.T) {
	s := New()
	ctx := context.Background()
	job := newJob("engineer")
	require.NoError(t, s.InsertJob(ctx, job))
	c := &models.Candidate{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, s.InsertCandidate(ctx, c))

	for i := 0; i < 2; i++ {
		require.NoError(t, s.InsertApplication(ctx, &models.Application{CandidateID: c.ID, JobID: job.ID}))
	}

	counts, err := s.CountApplicationsByJob(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{job.ID: 2}, counts)
}
