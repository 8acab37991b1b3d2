package jobs

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireflow/internal/events"
	"hireflow/internal/logging"
	"hireflow/internal/store/memory"
	"hireflow/pkg/models"
	"hireflow/pkg/utils"
)

var recruiter = models.Actor{UserID: "user_1", Role: "recruiter"}

func newTestService(t *testing.T) (*Service, *memory.Store, *events.Recorder) {
	t.Helper()
	st := memory.New()
	rec := &events.Recorder{}
	return NewService(st, rec, logging.NewMultiLogger()), st, rec
}

func jobRequest(title string) models.CreateJobRequest {
	return models.CreateJobRequest{
		Title:        title,
		Department:   "Engineering",
		Location:     "Remote",
		Type:         models.JobTypeFullTime,
		Urgency:      models.UrgencyMedium,
		Description:  "<p>Build the <b>hiring</b> platform.</p>",
		Requirements: []string{"Go", "PostgreSQL"},
	}
}

func floatPtr(f float64) *float64 { return &f }

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Senior Go Engineer", "senior-go-engineer"},
		{"diacritics folded", "Café Manager, Zürich", "cafe-manager-zurich"},
		{"quotes dropped", "Don't Panic: \"Ops\" Lead", "dont-panic-ops-lead"},
		{"curly quotes dropped", "Founder’s Associate", "founders-associate"},
		{"separators collapsed", "  --Backend__/__Platform--  ", "backend-platform"},
		{"nothing usable", "!!! ???", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestSlugifyTruncates(t *testing.T) {
	slug := Slugify(strings.Repeat("engineer ", 20))

	assert.LessOrEqual(t, len(slug), maxSlugLength)
	assert.False(t, strings.HasSuffix(slug, "-"))
	assert.True(t, strings.HasPrefix(slug, "engineer-engineer"))
}

func TestSummary(t *testing.T) {
	html := `<h2>About</h2><p>We hire   people.</p><script>alert(1)</script><ul><li>Go</li><li>SQL</li></ul>`
	assert.Equal(t, "About We hire people. Go SQL", Summary(html, SummaryLength))

	long := strings.Repeat("word ", 100)
	summary := Summary(long, 20)
	assert.True(t, strings.HasSuffix(summary, "…"))
	assert.LessOrEqual(t, len([]rune(summary)), 21)
	assert.Equal(t, "plain text", Summary("plain text", SummaryLength))
}

func TestCreateDefaults(t *testing.T) {
	svc, _, rec := newTestService(t)

	job, err := svc.Create(context.Background(), recruiter, jobRequest("Senior Go Engineer"))
	require.NoError(t, err)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "senior-go-engineer", job.Slug)
	assert.Equal(t, models.JobStatusActive, job.Status)
	assert.Equal(t, utils.Today(), job.PostedDate)
	assert.True(t, job.IsPublic)
	assert.Equal(t, models.SchemaVersion, job.SchemaVersion)
	assert.Equal(t, []string{events.JobCreated}, rec.Types())
	assert.Equal(t, "user_1", rec.Events()[0].ActorID)
}

func TestCreateSlugCollision(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, recruiter, jobRequest("Data Analyst"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, recruiter, jobRequest("Data Analyst"))
	require.NoError(t, err)

	assert.Equal(t, "data-analyst", first.Slug)
	assert.Regexp(t, `^data-analyst-[a-z0-9]{4}$`, second.Slug)

	req := jobRequest("Anything")
	req.Slug = "Senior Engineer!!"
	third, err := svc.Create(ctx, recruiter, req)
	require.NoError(t, err)
	assert.Equal(t, "senior-engineer", third.Slug)

	fourth, err := svc.Create(ctx, recruiter, req)
	require.NoError(t, err)
	assert.Regexp(t, `^senior-engineer-[a-z0-9]{4}$`, fourth.Slug)
}

func TestCreateUsesSuppliedSlugAndFallback(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	req := jobRequest("Designer")
	req.Slug = "Product Designer 2026"
	private := false
	req.IsPublic = &private
	job, err := svc.Create(ctx, recruiter, req)
	require.NoError(t, err)
	assert.Equal(t, "product-designer-2026", job.Slug)
	assert.False(t, job.IsPublic)

	job, err = svc.Create(ctx, recruiter, jobRequest("???"))
	require.NoError(t, err)
	assert.Equal(t, "job", job.Slug)
}

func TestCreateRejectsInvertedSalary(t *testing.T) {
	svc, st, _ := newTestService(t)

	req := jobRequest("Engineer")
	req.SalaryMin = floatPtr(120000)
	req.SalaryMax = floatPtr(90000)
	_, err := svc.Create(context.Background(), recruiter, req)

	var customErr *utils.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, "validation_failed", customErr.Type)

	jobs, err := st.ListJobs(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestListFiltersAndCounts(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	backend, err := svc.Create(ctx, recruiter, jobRequest("Backend Engineer"))
	require.NoError(t, err)
	sales := jobRequest("Account Executive")
	sales.Department = "Sales"
	exec, err := svc.Create(ctx, recruiter, sales)
	require.NoError(t, err)
	require.NoError(t, svc.UpdateStatus(ctx, recruiter, exec.ID, models.JobStatusPaused))

	candidate := &models.Candidate{Name: "Ada", Email: "ada@example.com", Status: models.CandidateStatusApplied}
	require.NoError(t, st.InsertCandidate(ctx, candidate))
	require.NoError(t, st.InsertApplication(ctx, &models.Application{
		CandidateID: candidate.ID, JobID: backend.ID, AppliedDate: utils.Today(), Status: models.ApplicationStatusPending,
	}))

	all, err := svc.List(ctx, StatusAll, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.List(ctx, string(models.JobStatusActive), "")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, backend.ID, active[0].ID)
	assert.Equal(t, 1, active[0].ApplicantCount)

	byDepartment, err := svc.List(ctx, "", "sales")
	require.NoError(t, err)
	require.Len(t, byDepartment, 1)
	assert.Equal(t, exec.ID, byDepartment[0].ID)
	assert.Equal(t, 0, byDepartment[0].ApplicantCount)

	byTitle, err := svc.List(ctx, "", "BACKEND")
	require.NoError(t, err)
	assert.Len(t, byTitle, 1)

	none, err := svc.List(ctx, "closed", "")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGetIncludesApplicantsInOrder(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()

	job, err := svc.Create(ctx, recruiter, jobRequest("Support Lead"))
	require.NoError(t, err)

	var ids []string
	for _, email := range []string{"first@example.com", "second@example.com"} {
		c := &models.Candidate{Name: email, Email: email, Status: models.CandidateStatusApplied, AppliedDate: "2026-01-01"}
		require.NoError(t, st.InsertCandidate(ctx, c))
		app := &models.Application{CandidateID: c.ID, JobID: job.ID, AppliedDate: "2026-02-03", Status: models.ApplicationStatusPending}
		require.NoError(t, st.InsertApplication(ctx, app))
		ids = append(ids, c.ID)
	}

	detail, err := svc.Get(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, detail.Applicants, 2)
	assert.Equal(t, ids[0], detail.Applicants[0].ID)
	assert.Equal(t, ids[1], detail.Applicants[1].ID)
	assert.Equal(t, "2026-02-03", detail.Applicants[0].AppliedDate)
	assert.Equal(t, models.ApplicationStatusPending, detail.Applicants[0].ApplicationStatus)
	assert.NotEmpty(t, detail.Applicants[0].ApplicationID)
}

func TestGetMissingJob(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublicViewsOnlyActiveJobs(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	open, err := svc.Create(ctx, recruiter, jobRequest("Open Role"))
	require.NoError(t, err)
	closed, err := svc.Create(ctx, recruiter, jobRequest("Closed Role"))
	require.NoError(t, err)
	require.NoError(t, svc.UpdateStatus(ctx, recruiter, closed.ID, models.JobStatusClosed))

	public, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, open.ID, public[0].ID)
	assert.Equal(t, "Build the hiring platform.", public[0].Summary)

	got, err := svc.GetPublicByID(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, open.ID, got.ID)

	_, err = svc.GetPublicByID(ctx, closed.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	svc, st, rec := newTestService(t)
	ctx := context.Background()

	job, err := svc.Create(ctx, recruiter, jobRequest("Recruiter"))
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, recruiter, job.ID, models.JobStatusPaused))
	stored, err := st.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPaused, stored.Status)
	assert.Equal(t, job.Slug, stored.Slug)
	assert.Equal(t, []string{events.JobCreated, events.JobStatusChanged}, rec.Types())

	err = svc.UpdateStatus(ctx, recruiter, "00000000-0000-0000-0000-000000000000", models.JobStatusClosed)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.UpdateStatus(ctx, recruiter, job.ID, "archived")
	var customErr *utils.CustomError
	assert.ErrorAs(t, err, &customErr)
}
