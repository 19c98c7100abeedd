/*
errors.go - Error types for the planner

ERROR CATEGORIES:
  1. Validation errors - Bad input rejected before reaching the engine
  2. Persistence errors - Repository failures; state is rolled back
  3. Lookup errors - Plan or range not found

USAGE:
  if errors.Is(err, planner.ErrPersistence) {
      // in-memory state was restored, tell the user
  }

SEE ALSO:
  - validate.go: Produces ValidationError
  - daystore.go: Produces PersistenceError
*/
package planner

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is the root of every input validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence is returned when the repository rejects a write or read.
	// The Day Store has already restored its pre-operation state.
	ErrPersistence = errors.New("persistence failed")

	// ErrInvalidRange is returned when a range starts after it ends.
	ErrInvalidRange = errors.New("invalid range: start after end")

	// ErrPlanNotFound is returned when a referenced plan is not on the given day.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrNoRepository is returned when the Day Store has no repository configured.
	ErrNoRepository = errors.New("no repository configured")

	// ErrResetUnsupported is returned when the active repository cannot be wiped.
	ErrResetUnsupported = errors.New("repository does not support reset")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// PersistenceError wraps a repository failure with the operation that hit it.
type PersistenceError struct {
	Op  string // e.g. "add plan", "remove plan"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidRange)
}

// IsNotFound returns true if the error indicates a missing plan.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPlanNotFound)
}
