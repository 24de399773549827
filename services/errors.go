package services

import "errors"

// Domain errors surfaced to callers as client errors. Validation errors are
// rejected before anything is persisted.
var (
	ErrMissingUser        = errors.New("authorUserId is required")
	ErrSelfTarget         = errors.New("a user cannot describe themselves")
	ErrMissingLocation    = errors.New("location is required")
	ErrEmptySelections    = errors.New("at least one tag category must be non-empty")
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchNotActionable = errors.New("match is no longer actionable")
)

// IsValidationError reports whether err should map to a client error rather
// than a storage failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingUser) ||
		errors.Is(err, ErrSelfTarget) ||
		errors.Is(err, ErrMissingLocation) ||
		errors.Is(err, ErrEmptySelections)
}
