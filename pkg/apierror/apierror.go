// Package apierror defines the closed set of failure kinds the API can
// answer with. Callers match on Kind instead of comparing error types.
package apierror

import "fmt"

type Kind string

const (
	KindBadRequest        Kind = "BAD_REQUEST"
	KindMissingCredential Kind = "MISSING_CREDENTIAL"
	KindSessionNotFound   Kind = "SESSION_NOT_FOUND"
	KindNotFound          Kind = "NOT_FOUND"
	KindConflict          Kind = "CONFLICT"
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindNotImplemented    Kind = "NOT_IMPLEMENTED"
)

// APIError carries the failure kind, the client-facing message and the
// HTTP status it maps to. Details is an optional payload serialized next
// to the message in the error envelope.
type APIError struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func New(kind Kind, message string, status int) *APIError {
	return &APIError{Kind: kind, Message: message, HTTPStatus: status}
}

func WithDetails(kind Kind, message string, details any, status int) *APIError {
	return &APIError{Kind: kind, Message: message, Details: details, HTTPStatus: status}
}
