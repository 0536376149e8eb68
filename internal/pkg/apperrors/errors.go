package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Entity errors. Each wraps one of the sentinels above so callers can match
// either the specific entity or the general kind.
var (
	ErrUserNotFound       = &CustomError{Err: ErrResourceNotFound, Message: "user not found"}
	ErrDepartmentNotFound = &CustomError{Err: ErrResourceNotFound, Message: "department not found"}
	ErrStudentNotFound    = &CustomError{Err: ErrResourceNotFound, Message: "student not found"}
	ErrFacultyNotFound    = &CustomError{Err: ErrResourceNotFound, Message: "faculty not found"}
	ErrRequestNotFound    = &CustomError{Err: ErrResourceNotFound, Message: "request not found"}
	ErrMeetingNotFound    = &CustomError{Err: ErrResourceNotFound, Message: "meeting not found"}
	ErrInternshipNotFound = &CustomError{Err: ErrResourceNotFound, Message: "internship not found"}
	ErrProjectNotFound    = &CustomError{Err: ErrResourceNotFound, Message: "project not found"}

	ErrRequestNotPending  = &CustomError{Err: ErrConflict, Message: "request has already been actioned"}
	ErrMeetingSlotTaken   = &CustomError{Err: ErrConflict, Message: "a meeting with this date, time and description already exists"}
	ErrNoActiveMentorship = &CustomError{Err: ErrPermissionDenied, Message: "no active mentorship between student and faculty"}
)

// NewValidationError creates a new custom error for invalid input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
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

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// Message returns the human readable message carried by err, or "" when err
// carries no CustomError.
func Message(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return ""
}
