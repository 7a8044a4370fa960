package application

import (
	"errors"
	"fmt"

	"attentionos/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrNotFound                = domain.ErrNotFound
	ErrValidationFailed        = domain.ErrValidationFailed
	ErrConcurrentActiveAttempt = domain.ErrConcurrentActiveAttempt
	ErrMissingDirectoryGrant   = domain.ErrMissingDirectoryGrant
	ErrStaleDirectoryGrant     = domain.ErrStaleDirectoryGrant
	ErrAccessDenied            = domain.ErrAccessDenied
	ErrInvalidOperation        = errors.New("invalid operation")
)

// ValidationError represents a validation failure with details
type ValidationError = domain.ValidationError

// ActivationError reports an attempt that could not become active because
// another one already is
type ActivationError struct {
	AttemptID string
	ActiveID  string
}

func (e *ActivationError) Error() string {
	if e.AttemptID == "" {
		return fmt.Sprintf("cannot start attempt: attempt %s is already active", e.ActiveID)
	}
	return fmt.Sprintf("cannot activate attempt %s: attempt %s is already active", e.AttemptID, e.ActiveID)
}

func (e *ActivationError) Is(target error) bool {
	return target == ErrConcurrentActiveAttempt
}

// ExportFailure records a case whose file could not be written
type ExportFailure struct {
	CaseID string
	Title  string
	Err    error
}

func (e *ExportFailure) Error() string {
	return fmt.Sprintf("cannot export case %q (%s): %v", e.Title, e.CaseID, e.Err)
}

func (e *ExportFailure) Unwrap() error {
	return e.Err
}

// IsGrantError reports whether err should send the user back to pick an
// export directory
func IsGrantError(err error) bool {
	return errors.Is(err, ErrMissingDirectoryGrant) ||
		errors.Is(err, ErrStaleDirectoryGrant) ||
		errors.Is(err, ErrAccessDenied)
}
