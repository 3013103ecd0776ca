package billing

import (
	"errors"
	"strings"
)

var (
	// ErrProviderNotConfigured is returned when the processor credentials are missing.
	ErrProviderNotConfigured = errors.New("payment processor not configured")

	// ErrMissingFields is matched by every *ValidationError.
	ErrMissingFields = errors.New("required fields missing")

	// ErrUnknownAction is returned for an unsupported hash action.
	ErrUnknownAction = errors.New("unknown action")

	// ErrMissingRedirectTarget is returned when a browser callback carries neither
	// an embedded redirect target nor a success URL.
	ErrMissingRedirectTarget = errors.New("no redirect target in callback")

	// ErrRedirectNotAllowed is returned when the redirect target is not an
	// absolute http(s) URL on an allowed host.
	ErrRedirectNotAllowed = errors.New("redirect target not allowed")
)

// ValidationError lists the canonical names of absent required fields.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrMissingFields
}
