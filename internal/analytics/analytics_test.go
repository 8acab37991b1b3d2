package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireflow/internal/store/memory"
	"hireflow/pkg/models"
)

func TestOverview(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	var jobIDs []string
	for i, status := range []models.JobStatus{models.JobStatusActive, models.JobStatusActive, models.JobStatusClosed} {
		job := &models.Job{Title: fmt.Sprintf("Job %d", i), Slug: fmt.Sprintf("job-%d", i), Status: status, Requirements: []string{}}
		require.NoError(t, st.InsertJob(ctx, job))
		jobIDs = append(jobIDs, job.ID)
	}

	apply := func(jobID string, status models.CandidateStatus) {
		c := &models.Candidate{Name: "c", Email: fmt.Sprintf("%d@example.com", time.Now().UnixNano()), Status: status}
		require.NoError(t, st.InsertCandidate(ctx, c))
		require.NoError(t, st.InsertApplication(ctx, &models.Application{CandidateID: c.ID, JobID: jobID, Status: models.ApplicationStatusPending}))
	}
	apply(jobIDs[1], models.CandidateStatusApplied)
	apply(jobIDs[1], models.CandidateStatusInterview)
	apply(jobIDs[2], models.CandidateStatusRejected)

	svc := NewService(st)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	got, err := svc.Overview(ctx)
	require.NoError(t, err)

	assert.Equal(t, []models.StatusCount{
		{Status: "active", Count: 2},
		{Status: "paused", Count: 0},
		{Status: "closed", Count: 1},
	}, got.Jobs)
	assert.Len(t, got.Candidates, len(models.CandidateStatuses))
	assert.Equal(t, models.StatusCount{Status: "interview", Count: 1}, got.Candidates[2])
	assert.Equal(t, 3, got.TotalApplications)
	require.Len(t, got.TopJobs, 2)
	assert.Equal(t, jobIDs[1], got.TopJobs[0].JobID)
	assert.Equal(t, 2, got.TopJobs[0].Applications)
	assert.Equal(t, fixed, got.GeneratedAt)
}

func TestOverviewEmpty(t *testing.T) {
	got, err := NewService(memory.New()).Overview(context.Background())
	require.NoError(t, err)
	assert.Zero(t, got.TotalApplications)
	assert.NotNil(t, got.TopJobs)
	assert.Empty(t, got.TopJobs)
}
