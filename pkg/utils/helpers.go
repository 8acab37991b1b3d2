package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"hireflow/pkg/models"
)

// GenerateRequestID generates a unique request ID for tracking
func GenerateRequestID() string {
	return uuid.New().String()
}

// Today returns the current UTC calendar date as YYYY-MM-DD
func Today() string {
	return time.Now().UTC().Format(models.DateLayout)
}

// ContainsFold reports whether substr is within s, ignoring case
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// GetStringOrDefault returns the value if not empty, otherwise returns the default
func GetStringOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

// SplitCSV splits a comma separated list, trimming entries and dropping
// empty ones
func SplitCSV(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
