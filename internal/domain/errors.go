package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the marketplace core wraps exactly one of these.
var (
	// ErrNotFound is returned when a referenced job, user, payment or dispute does not exist
	ErrNotFound = errors.New("not found")

	// ErrPreconditionFailed is returned when a guard on a state transition does not hold
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrValidationFailed is returned for malformed input
	ErrValidationFailed = errors.New("validation failed")

	// ErrConflict is returned when a unique constraint would be violated
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized is returned for bad credentials or tokens
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller's role may not use an operation
	ErrForbidden = errors.New("forbidden")
)

// Error is a user-displayable failure of a given kind
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NewError creates an error of the given kind with a user-displayable message
func NewError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Validationf creates a ValidationFailed error with a formatted message
func Validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidationFailed, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrUserNotFound    = NewError(ErrNotFound, "User not found")
	ErrJobNotFound     = NewError(ErrNotFound, "Job not found")
	ErrPaymentNotFound = NewError(ErrNotFound, "Payment not found")
	ErrDisputeNotFound = NewError(ErrNotFound, "Dispute not found")

	ErrJobNotOpen        = NewError(ErrPreconditionFailed, "Job is no longer open")
	ErrJobNotAssigned    = NewError(ErrPreconditionFailed, "Job is not assigned")
	ErrJobNotCompleted   = NewError(ErrPreconditionFailed, "Job not completed")
	ErrJobClosed         = NewError(ErrPreconditionFailed, "Job is already closed")
	ErrJobAlreadyTaken   = NewError(ErrPreconditionFailed, "Job already accepted by another laborer")
	ErrStaleState        = NewError(ErrPreconditionFailed, "Record was changed by another request")
	ErrNotParticipant    = NewError(ErrPreconditionFailed, "Not a participant of this job")
	ErrNotJobOwner       = NewError(ErrPreconditionFailed, "Only the client who posted the job can do this")
	ErrNotJobLaborer     = NewError(ErrPreconditionFailed, "Only the laborer who accepted the job can do this")
	ErrOwnJob            = NewError(ErrPreconditionFailed, "Cannot accept your own job")
	ErrLaborerOnly       = NewError(ErrPreconditionFailed, "Only laborers can accept jobs")
	ErrSelfRating        = NewError(ErrPreconditionFailed, "Cannot rate yourself")
	ErrPaymentSettled    = NewError(ErrPreconditionFailed, "Payment is already settled")
	ErrPaymentNoProof    = NewError(ErrPreconditionFailed, "Payment proof has not been submitted")
	ErrPaymentNotDue     = NewError(ErrPreconditionFailed, "Payment deadline has not passed yet")
	ErrDisputeNotAllowed = NewError(ErrPreconditionFailed, "Disputes can only be raised on assigned or completed jobs")
	ErrDisputeResolved   = NewError(ErrPreconditionFailed, "Dispute is already resolved")

	ErrAlreadyRated = NewError(ErrConflict, "Already rated this job")
	ErrUserExists   = NewError(ErrConflict, "User already exists")

	ErrInvalidCredentials = NewError(ErrUnauthorized, "Invalid credentials")
	ErrRoleNotAllowed     = NewError(ErrForbidden, "Not allowed for this role")
)

// KindOf returns a short code naming the kind of err, or "internal" for unknown errors
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrPreconditionFailed):
		return "precondition_failed"
	case errors.Is(err, ErrValidationFailed):
		return "validation_failed"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	default:
		return "internal"
	}
}
