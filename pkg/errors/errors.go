package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork ErrorType = "network"
	ErrorTypeStatus  ErrorType = "status"
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypeImage   ErrorType = "image"
	ErrorTypeDate    ErrorType = "date"
	ErrorTypeFilter  ErrorType = "filter"
	ErrorTypeUnknown ErrorType = "unknown"
)

// Error represents a failure talking to the upstream API or handling its data
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	URL     string
	Err     error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given type
func New(errType ErrorType, message string) *Error {
	return &Error{Type: errType, Message: message}
}

// Wrap creates an Error of the given type around an underlying cause
func Wrap(errType ErrorType, err error, message string) *Error {
	return &Error{Type: errType, Message: fmt.Sprintf("%s: %v", message, err), Err: err}
}

// StatusError builds the error returned when the upstream answers with a non-200 status
func StatusError(url string, code int) *Error {
	return &Error{
		Type:    ErrorTypeStatus,
		Message: fmt.Sprintf("unexpected status code: %d", code),
		Code:    code,
		URL:     url,
	}
}

// TypeOf returns the ErrorType carried by err, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsFetchError reports whether err means a category fetch failed.
// Callers show a notice and continue with an empty result set.
func IsFetchError(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeNetwork, ErrorTypeStatus, ErrorTypeParsing:
		return true
	default:
		return false
	}
}

// IsFilterError reports whether err was caused by an invalid filter specification
func IsFilterError(err error) bool {
	return TypeOf(err) == ErrorTypeFilter
}
