package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrTransport         = errors.New("gateway unreachable")
	ErrSignatureMismatch = errors.New("callback signature mismatch")
	ErrDuplicateOrder    = errors.New("order already recorded")
	ErrOperationFailed   = errors.New("operation failed")
)

// ValidationError rejects malformed caller input before any signing or
// network call. Field names match the JSON request body.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidArgument }

// GatewayError is a non-200 answer from the payment gateway. The body is
// carried verbatim so callers can surface the gateway's own reason; it is an
// expected outcome, distinct from ErrTransport, and is never retried here.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway rejected request: http %d", e.StatusCode)
}
