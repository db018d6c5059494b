package domain

import "errors"

var (
	// ErrInvalidPayload is returned when an event message cannot be decoded
	ErrInvalidPayload = errors.New("invalid event payload")

	// ErrUnknownEventType is returned for event types the projection does not know
	ErrUnknownEventType = errors.New("unknown event type")
)

// RetryableError wraps transient errors that should trigger a requeue
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
