// ABOUTME: This file defines the client-facing error taxonomy
// ABOUTME: One APIError type distinguished by kind, wrapping driver-level causes

package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an APIError so callers can branch without string
// matching.
type ErrorKind int

const (
	// KindAuthenticationFailed covers failed token acquisition or renewal:
	// bad credentials, unexpected status, or a malformed auth response.
	KindAuthenticationFailed ErrorKind = iota
	// KindTransportFailed covers a data-fetch call that did not return the
	// expected success status, including network-level failures.
	KindTransportFailed
	// KindInvalidResponseShape covers a page response missing its list key
	// or mapping it to a non-list value.
	KindInvalidResponseShape
	// KindMalformedContinuation covers a continuation URL that is present
	// but missing an expected query parameter.
	KindMalformedContinuation
)

// String returns the kind's wire-stable name.
func (k ErrorKind) String() string {
	switch k {
	case KindAuthenticationFailed:
		return "authentication_failed"
	case KindTransportFailed:
		return "transport_failed"
	case KindInvalidResponseShape:
		return "invalid_response_shape"
	case KindMalformedContinuation:
		return "malformed_continuation"
	default:
		return "unknown"
	}
}

// APIError is the single error type surfaced by the client. Endpoint names
// the logical endpoint the failure belongs to, Status carries the actual
// HTTP status where one was received (0 otherwise), and Err preserves the
// underlying cause for errors.Is / errors.Unwrap.
type APIError struct {
	Kind     ErrorKind
	Endpoint string
	Status   int
	Message  string
	Err      error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Endpoint, e.Kind, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAuthenticationFailed builds an authentication failure for endpoint.
func NewAuthenticationFailed(endpoint, message string, cause error) *APIError {
	return &APIError{Kind: KindAuthenticationFailed, Endpoint: endpoint, Message: message, Err: cause}
}

// NewTransportFailed builds a transport failure carrying the expected and
// actual status codes for diagnosis.
func NewTransportFailed(endpoint string, expected, actual int, cause error) *APIError {
	return &APIError{
		Kind:     KindTransportFailed,
		Endpoint: endpoint,
		Status:   actual,
		Message:  fmt.Sprintf("expected status %d, got %d", expected, actual),
		Err:      cause,
	}
}

// NewInvalidResponseShape builds a page validation failure naming the
// missing or mis-typed list key and the keys actually present.
func NewInvalidResponseShape(endpoint, listKey string, keysPresent []string) *APIError {
	return &APIError{
		Kind:     KindInvalidResponseShape,
		Endpoint: endpoint,
		Message:  fmt.Sprintf("list key %q missing or not a list, keys present: %v", listKey, keysPresent),
	}
}

// NewMalformedContinuation builds a continuation failure naming the
// parameter missing from the continuation URL.
func NewMalformedContinuation(endpoint string, cause error) *APIError {
	return &APIError{
		Kind:     KindMalformedContinuation,
		Endpoint: endpoint,
		Message:  "continuation URL missing expected parameter",
		Err:      cause,
	}
}

// IsKind reports whether err is (or wraps) an APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}
