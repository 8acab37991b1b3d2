// Package analytics summarises the hiring pipeline for the staff dashboard.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"hireflow/internal/store"
	"hireflow/pkg/models"
)

// TopJobsLimit is the number of jobs listed by application volume
const TopJobsLimit = 5

// Service computes pipeline statistics
type Service struct {
	store store.Store
	now   func() time.Time
}

// NewService creates an analytics service over st
func NewService(st store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// Overview counts jobs and candidates per status and ranks jobs by the
// number of applications they received
func (s *Service) Overview(ctx context.Context) (*models.AnalyticsResponse, error) {
	jobs, err := s.store.ListJobs(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	candidates, err := s.store.ListCandidates(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	counts, err := s.store.CountApplicationsByJob(ctx)
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}

	jobStatus := make(map[string]int)
	for _, j := range jobs {
		jobStatus[string(j.Status)]++
	}
	candidateStatus := make(map[string]int)
	for _, c := range candidates {
		candidateStatus[string(c.Status)]++
	}

	resp := &models.AnalyticsResponse{
		Jobs:        make([]models.StatusCount, 0, len(models.JobStatuses)),
		Candidates:  make([]models.StatusCount, 0, len(models.CandidateStatuses)),
		TopJobs:     make([]models.JobApplications, 0, TopJobsLimit),
		GeneratedAt: s.now().UTC(),
	}
	for _, st := range models.JobStatuses {
		resp.Jobs = append(resp.Jobs, models.StatusCount{Status: string(st), Count: jobStatus[string(st)]})
	}
	for _, st := range models.CandidateStatuses {
		resp.Candidates = append(resp.Candidates, models.StatusCount{Status: string(st), Count: candidateStatus[string(st)]})
	}

	ranked := make([]models.JobApplications, 0, len(jobs))
	for _, j := range jobs {
		n := counts[j.ID]
		resp.TotalApplications += n
		if n > 0 {
			ranked = append(ranked, models.JobApplications{JobID: j.ID, Title: j.Title, Applications: n})
		}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Applications > ranked[b].Applications
	})
	if len(ranked) > TopJobsLimit {
		ranked = ranked[:TopJobsLimit]
	}
	resp.TopJobs = append(resp.TopJobs, ranked...)

	return resp, nil
}
