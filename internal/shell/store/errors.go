// Package store persists plans as opaque JSON payloads.
package store

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrNotFound is returned when a plan is not found.
	ErrNotFound = errors.New("plan not found")

	// ErrConnectionFailed is returned when the database connection fails.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrMigrationFailed is returned when database migration fails.
	ErrMigrationFailed = errors.New("database migration failed")

	// ErrInvalidData is returned when a payload fails to encode or decode.
	ErrInvalidData = errors.New("invalid plan payload")
)

// StoreError wraps errors with operation context.
type StoreError struct {
	Op      string // Operation that failed (e.g., "SavePlan")
	PlanID  string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.PlanID != "" {
		return fmt.Sprintf("%s plan %s: %s", e.Op, e.PlanID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a StoreError.
func NewStoreError(op, planID, message string, err error) *StoreError {
	return &StoreError{Op: op, PlanID: planID, Message: message, Err: err}
}
