package model

import (
	"errors"
	"fmt"
)

// Kind classifies an Error
type Kind string

const (
	KindTransport  Kind = "transport"
	KindValidation Kind = "validation"
	KindForbidden  Kind = "forbidden"
	KindNotFound   Kind = "not_found"
	KindService    Kind = "service"
	KindOther      Kind = "other"
)

// Error is returned for every failed call to the service.
// Status is nil when the response carried no recognizable status code,
// HTTPCode is 0 when no HTTP response was obtained.
type Error struct {
	Kind     Kind
	Message  string
	Status   *StatusCode
	HTTPCode int
	Cause    error
}

func (e *Error) Error() string {
	var prefix string
	switch {
	case e.Status != nil && e.HTTPCode != 0:
		prefix = fmt.Sprintf("[%s %d %s] ", e.Kind, e.HTTPCode, *e.Status)
	case e.HTTPCode != 0:
		prefix = fmt.Sprintf("[%s %d] ", e.Kind, e.HTTPCode)
	default:
		prefix = fmt.Sprintf("[%s] ", e.Kind)
	}
	return prefix + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable hints whether repeating the call may succeed.
// Only transport and service failures are considered transient.
func (e *Error) Retryable() bool {
	return e.Kind == KindTransport || e.Kind == KindService
}

// NewError creates a new service error
func NewError(kind Kind, message string, status *StatusCode, httpCode int, cause error) *Error {
	return &Error{
		Kind:     kind,
		Message:  message,
		Status:   status,
		HTTPCode: httpCode,
		Cause:    cause,
	}
}

// NewTransportError wraps a failure that happened before any HTTP response was received
func NewTransportError(cause error) *Error {
	msg := "transport failure"
	if cause != nil {
		msg = cause.Error()
	}
	return NewError(KindTransport, msg, nil, 0, cause)
}

// KindForHTTPCode classifies a non-2xx HTTP status
func KindForHTTPCode(httpCode int) Kind {
	switch {
	case httpCode == 400:
		return KindValidation
	case httpCode == 403:
		return KindForbidden
	case httpCode == 404:
		return KindNotFound
	case httpCode >= 500:
		return KindService
	default:
		return KindOther
	}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsTransport returns true if no HTTP response was obtained
func IsTransport(err error) bool { return KindOf(err) == KindTransport }

// IsValidation returns true for HTTP 400 failures
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsForbidden returns true for HTTP 403 failures
func IsForbidden(err error) bool { return KindOf(err) == KindForbidden }

// IsNotFound returns true for HTTP 404 failures
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsService returns true for HTTP 5xx failures
func IsService(err error) bool { return KindOf(err) == KindService }

// DecodeError reports a success body that does not match the expected shape
type DecodeError struct {
	Field   string
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Field != "" && e.Cause != nil:
		return fmt.Sprintf("decode %s: %s (%v)", e.Field, e.Message, e.Cause)
	case e.Field != "":
		return fmt.Sprintf("decode %s: %s", e.Field, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("decode: %s (%v)", e.Message, e.Cause)
	default:
		return fmt.Sprintf("decode: %s", e.Message)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// NewDecodeError creates a new decode error
func NewDecodeError(field, message string, cause error) *DecodeError {
	return &DecodeError{
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}

// ErrMissingField returns the error for an absent required field
func ErrMissingField(field string) *DecodeError {
	return NewDecodeError(field, "required field missing", nil)
}

// ErrInvalidField returns the error for a required field of the wrong type or value
func ErrInvalidField(field string, value any) *DecodeError {
	return NewDecodeError(field, fmt.Sprintf("invalid value %v", value), nil)
}
