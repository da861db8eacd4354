package services

import "errors"

type ErrorCode string

const (
	ErrorInvalid      ErrorCode = "invalid"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorUnauthorized ErrorCode = "unauthorized"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error  { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewNotFoundError(msg string) error { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

var (
	// ErrSurveyNotFound is returned when no stored response has the requested id.
	ErrSurveyNotFound = NewNotFoundError("survey not found")
	// ErrShareDisabled means no signing secret is configured.
	ErrShareDisabled = NewNotFoundError("share links are disabled")
	// ErrInvalidShareToken covers malformed, tampered and expired share tokens.
	ErrInvalidShareToken = NewUnauthorizedError("invalid share link")
	// ErrNoAnalysis is returned when a shared response has no stored analysis.
	ErrNoAnalysis = NewNotFoundError("analysis not found")
)
