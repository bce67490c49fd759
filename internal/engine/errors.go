package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy. Pagination running out of
// pages is not in this list: that is normal loop termination, reported by
// session.ErrNoNextControl and absorbed inside the fetchers.
var (
	ErrNavigationFailed  = errors.New("navigation failed")
	ErrEmptyContent      = errors.New("no substantive content")
	ErrTimeout           = errors.New("crawl timeout")
	ErrDriverUnavailable = errors.New("browser driver unavailable")
)

// ErrorCode identifies a failure class across engines.
type ErrorCode string

const (
	CodeNavigation        ErrorCode = "NAVIGATION_FAILURE"
	CodeEmptyContent      ErrorCode = "EMPTY_CONTENT"
	CodeTimeout           ErrorCode = "TIMEOUT"
	CodeDriverUnavailable ErrorCode = "DRIVER_UNAVAILABLE"
)

// EngineError wraps errors with the failure class and a human-readable
// message; the message ends up verbatim in the crawl outcome.
type EngineError struct {
	Code       ErrorCode
	Message    string
	Underlying error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *EngineError) Unwrap() error {
	return e.Underlying
}

// Is matches either another EngineError with the same code or one of the
// sentinel errors above.
func (e *EngineError) Is(target error) bool {
	if t, ok := target.(*EngineError); ok {
		return e.Code == t.Code
	}
	switch target {
	case ErrNavigationFailed:
		return e.Code == CodeNavigation
	case ErrEmptyContent:
		return e.Code == CodeEmptyContent
	case ErrTimeout:
		return e.Code == CodeTimeout
	case ErrDriverUnavailable:
		return e.Code == CodeDriverUnavailable
	}
	return errors.Is(e.Underlying, target)
}

// NewEngineError creates a new EngineError.
func NewEngineError(code ErrorCode, message string, err error) *EngineError {
	return &EngineError{
		Code:       code,
		Message:    message,
		Underlying: err,
	}
}
