package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTokenRequired   = errors.New("authentication token required")
	ErrIncompleteDraft = errors.New("draft is incomplete")
	ErrMissingIdentity = errors.New("cached profile has no user id")
)

// ErrorKind classifies every failure the bot can branch on.
type ErrorKind string

const (
	KindUnauthenticated   ErrorKind = "unauthenticated"
	KindTransport         ErrorKind = "transport"
	KindHTTPStatus        ErrorKind = "http_status"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindValidation        ErrorKind = "validation_failed"
	KindMissingIdentity   ErrorKind = "missing_identity"
	KindUserCancelled     ErrorKind = "user_cancelled"
)

// APIError is the only error shape returned by the core API gateway.
type APIError struct {
	Kind       ErrorKind
	Message    string
	Detail     string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Kind, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of an *APIError anywhere in err's chain, or "" when
// err is nil or not an API error.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// MessageOf returns the human-readable message of an API error, falling back
// to err.Error().
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
