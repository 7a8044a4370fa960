package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the triage engine
var (
	ErrNotFound                = errors.New("not found")
	ErrValidationFailed        = errors.New("validation failed")
	ErrConcurrentActiveAttempt = errors.New("another attempt is already active")
	ErrMissingDirectoryGrant   = errors.New("no export directory granted")
	ErrStaleDirectoryGrant     = errors.New("export directory grant is stale")
	ErrAccessDenied            = errors.New("export directory access denied")
)

// ValidationError represents a rejected field value
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
