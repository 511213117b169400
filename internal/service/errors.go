package service

import (
	"fmt"
	"strings"

	"usermgmt/internal/models"
)

// ValidationError is returned when the create input has one or more invalid fields
type ValidationError struct {
	Violations []models.Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// PersistenceError is returned when the store could not save a new user
type PersistenceError struct {
	Cause error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist user: %v", e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
