package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// User errors
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Not found errors. Each wraps ErrResourceNotFound so callers can match on the class.
var (
	ErrUserNotFound       = NewResourceNotFoundError("user not found")
	ErrDepartmentNotFound = NewResourceNotFoundError("department not found")
	ErrCourseNotFound     = NewResourceNotFoundError("course not found")
	ErrQuestionNotFound   = NewResourceNotFoundError("question not found")
	ErrAnswerNotFound     = NewResourceNotFoundError("answer not found")
)

// Validation errors. Each wraps ErrValidationFailed.
var (
	ErrSelfRecommendation = NewValidationError("self-recommendation forbidden")
	ErrInvalidPagination  = NewValidationError("invalid pagination parameters")
	ErrInvalidScope       = NewValidationError("scope type must be department or course")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewValidationError creates a new custom error for a failed validation with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewConflictError creates a new custom error for an already existing resource
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrResourceAlreadyExists,
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
