package models

// Actor identifies the signed-in staff member performing a mutation
type Actor struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// CreateJobRequest represents the payload for posting a new job
type CreateJobRequest struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Department   string   `json:"department" validate:"required"`
	Location     string   `json:"location" validate:"required"`
	Type         JobType  `json:"type" validate:"required,employment_type"`
	Urgency      Urgency  `json:"urgency" validate:"required,urgency"`
	Description  string   `json:"description" validate:"required"`
	Requirements []string `json:"requirements" validate:"dive,required"`
	SalaryMin    *float64 `json:"salaryMin,omitempty" validate:"omitempty,gte=0"`
	SalaryMax    *float64 `json:"salaryMax,omitempty" validate:"omitempty,gte=0"`
	Benefits     []string `json:"benefits,omitempty" validate:"dive,required"`
	Slug         string   `json:"slug,omitempty" validate:"omitempty,max=200"`
	IsPublic     *bool    `json:"isPublic,omitempty"`
}

// UpdateJobStatusRequest represents a job status change
type UpdateJobStatusRequest struct {
	Status JobStatus `json:"status" validate:"required,job_status"`
}

// CreateCandidateRequest represents a candidate profile created by staff
type CreateCandidateRequest struct {
	Name       string   `json:"name" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Phone      string   `json:"phone,omitempty"`
	Location   string   `json:"location" validate:"required"`
	Position   string   `json:"position" validate:"required"`
	Experience string   `json:"experience" validate:"required"`
	Skills     []string `json:"skills"`
}

// UpdateCandidateStatusRequest represents a pipeline stage change
type UpdateCandidateStatusRequest struct {
	Status CandidateStatus `json:"status" validate:"required,candidate_status"`
}

// UpdateEvaluationRequest replaces all four evaluation scores
type UpdateEvaluationRequest struct {
	Evaluation Evaluation `json:"evaluation"`
}

// AddNoteRequest represents a new staff note. Author and role default to
// the signed-in actor when omitted.
type AddNoteRequest struct {
	Author  string `json:"author,omitempty"`
	Role    string `json:"role,omitempty"`
	Content string `json:"content" validate:"required"`
}

// SubmitApplicationRequest represents an application from the careers site
type SubmitApplicationRequest struct {
	JobID                string   `json:"jobId" validate:"required"`
	Name                 string   `json:"name" validate:"required"`
	Email                string   `json:"email" validate:"required,email"`
	Phone                string   `json:"phone,omitempty"`
	Location             string   `json:"location" validate:"required"`
	Experience           string   `json:"experience" validate:"required"`
	Skills               []string `json:"skills"`
	LinkedIn             string   `json:"linkedin,omitempty"`
	GitHub               string   `json:"github,omitempty"`
	Portfolio            string   `json:"portfolio,omitempty"`
	Education            string   `json:"education,omitempty"`
	CurrentCompany       string   `json:"currentCompany,omitempty"`
	ResumeStorageID      string   `json:"resumeStorageId,omitempty"`
	ResumeFilename       string   `json:"resumeFilename,omitempty"`
	CoverLetterStorageID string   `json:"coverLetterStorageId,omitempty"`
	CoverLetterFilename  string   `json:"coverLetterFilename,omitempty"`
}

// UploadURLRequest optionally describes the file about to be uploaded
type UploadURLRequest struct {
	ContentType string `json:"contentType,omitempty"`
}
