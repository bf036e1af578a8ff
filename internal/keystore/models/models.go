// Package models holds the keystore domain types and request/response shapes.
package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"

	dErrors "composite/pkg/domain-errors"
)

// Entry is a stored key/value pair. Key is the value first stored for the
// entry; later writes with an equal key replace Value but keep Key and ID.
// Entries are never mutated after a store hands them out.
type Entry struct {
	ID        uuid.UUID
	Key       any
	Value     any
	CreatedAt time.Time
	UpdatedAt time.Time
}

const maxSetNameLen = 64

var setNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidateSetName checks a set name taken from the request path.
func ValidateSetName(name string) error {
	if name == "" {
		return dErrors.New(dErrors.CodeValidation, "set name is required")
	}
	if len(name) > maxSetNameLen {
		return dErrors.New(dErrors.CodeValidation, "set name must be 64 characters or less")
	}
	if !setNamePattern.MatchString(name) {
		return dErrors.New(dErrors.CodeValidation, "set name may only contain letters, digits, '.', '_' and '-'")
	}
	return nil
}
