package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"hireflow/internal/store"
	"hireflow/pkg/models"
)

// Malformed ids never reach the database, so a zero Store is enough.
func TestOwnedInsertsRejectMalformedIDs(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	assert.ErrorIs(t, s.InsertNote(ctx, &models.Note{CandidateID: "not-a-uuid", Content: "hi"}), store.ErrNotFound)
	assert.ErrorIs(t, s.InsertTimelineEntry(ctx, &models.TimelineEntry{CandidateID: "x"}), store.ErrNotFound)
	assert.ErrorIs(t, s.InsertAssessment(ctx, &models.Assessment{CandidateID: "x"}), store.ErrNotFound)
	assert.ErrorIs(t, s.InsertInterview(ctx, &models.Interview{CandidateID: "x"}), store.ErrNotFound)
	assert.ErrorIs(t, s.InsertApplication(ctx, &models.Application{CandidateID: "x", JobID: "y"}), store.ErrNotFound)
}

func TestGetsRejectMalformedIDs(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	_, err := s.GetJob(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetCandidate(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
