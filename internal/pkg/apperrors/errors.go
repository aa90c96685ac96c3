package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Semester errors. These indicate a caller bug and are never coerced.
var (
	ErrInvalidTerm         = errors.New("invalid term")
	ErrInvalidSemesterCode = errors.New("invalid semester code")
	ErrInvalidYear         = errors.New("year precedes semester base year")
)

// Feed errors. Both are soft: they are logged and turned into empty or zeroed values.
var (
	ErrFeedRowMalformed = errors.New("feed row malformed")
	ErrFeedUnavailable  = errors.New("feed unavailable")
)

// Catalog lookup errors
var (
	ErrDepartmentNotFound = NewCustomError(ErrResourceNotFound, "department not found")
	ErrCourseNotFound     = NewCustomError(ErrResourceNotFound, "course not found")
	ErrOfferingNotFound   = NewCustomError(ErrResourceNotFound, "offering not found")
	ErrTermNotFound       = NewCustomError(ErrResourceNotFound, "term not found")
	ErrGradesNotFound     = NewCustomError(ErrResourceNotFound, "grade distribution not available for this course")
)

// NewValidationError creates a new custom error for rejected input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is matches another CustomError wrapping the same sentinel with the same message
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	return ok && t.Err == e.Err && t.Message == e.Message
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}
