package store

import (
	"time"

	"github.com/google/uuid"

	"hireflow/pkg/models"
)

// Stamp fills the identity, creation time and schema version of a record
// that is about to be inserted. Values already set are kept.
func Stamp(id *string, createdAt *time.Time, version *int) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if createdAt.IsZero() {
		*createdAt = time.Now().UTC()
	}
	if *version == 0 {
		*version = models.SchemaVersion
	}
}

// IsID reports whether s has the shape of a record id
func IsID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
