package validation

import (
	"github.com/go-playground/validator/v10"

	"hireflow/pkg/models"
)

// New returns a validator with every custom tag registered
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers the hiring domain validators
func RegisterValidators(v *validator.Validate) {
	v.RegisterValidation("job_status", ValidateJobStatus)
	v.RegisterValidation("candidate_status", ValidateCandidateStatus)
	v.RegisterValidation("employment_type", ValidateEmploymentType)
	v.RegisterValidation("urgency", ValidateUrgency)
}

// ValidateJobStatus accepts active, paused and closed
func ValidateJobStatus(fl validator.FieldLevel) bool {
	status := models.JobStatus(fl.Field().String())
	for _, s := range models.JobStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ValidateCandidateStatus accepts the six pipeline stages
func ValidateCandidateStatus(fl validator.FieldLevel) bool {
	status := models.CandidateStatus(fl.Field().String())
	for _, s := range models.CandidateStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func ValidateEmploymentType(fl validator.FieldLevel) bool {
	switch models.JobType(fl.Field().String()) {
	case models.JobTypeFullTime, models.JobTypePartTime, models.JobTypeContract:
		return true
	}
	return false
}

func ValidateUrgency(fl validator.FieldLevel) bool {
	switch models.Urgency(fl.Field().String()) {
	case models.UrgencyHigh, models.UrgencyMedium, models.UrgencyLow:
		return true
	}
	return false
}

