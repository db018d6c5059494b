// Package lifecycle encodes the legal status transitions of jobs and
// payments together with the guards each transition requires. It only makes
// decisions; the caller applies them to the store as a conditional update on
// the status the decision was based on.
package lifecycle

import (
	"github.com/cuongbtq/labour-market/internal/domain"
)

// Event is something an actor does to a job
type Event string

// Job events
const (
	EventAccept   Event = "accept"
	EventCancel   Event = "cancel"
	EventComplete Event = "complete"
	EventRate     Event = "rate"
)

type transition struct {
	from  domain.JobStatus
	event Event
}

var jobTransitions = map[transition]domain.JobStatus{
	{domain.JobStatusOpen, EventAccept}:       domain.JobStatusAssigned,
	{domain.JobStatusOpen, EventCancel}:       domain.JobStatusCancelled,
	{domain.JobStatusAssigned, EventCancel}:   domain.JobStatusCancelled,
	{domain.JobStatusAssigned, EventComplete}: domain.JobStatusCompleted,
	{domain.JobStatusCompleted, EventRate}:    domain.JobStatusCompleted,
}

// wrongStatus is the failure reported when an event is not allowed from the job's status
var wrongStatus = map[Event]error{
	EventAccept:   domain.ErrJobNotOpen,
	EventCancel:   domain.ErrJobClosed,
	EventComplete: domain.ErrJobNotAssigned,
	EventRate:     domain.ErrJobNotCompleted,
}

// Next returns the status a job moves to when event happens in status from
func Next(from domain.JobStatus, event Event) (domain.JobStatus, error) {
	to, ok := jobTransitions[transition{from, event}]
	if !ok {
		if err, known := wrongStatus[event]; known {
			return "", err
		}
		return "", domain.NewError(domain.ErrPreconditionFailed, "Unsupported job event "+string(event))
	}
	return to, nil
}

// Accept decides whether actor may take the open job
func Accept(job *domain.Job, actor domain.Actor) (domain.JobUpdate, error) {
	if actor.Role != domain.RoleLaborer {
		return domain.JobUpdate{}, domain.ErrLaborerOnly
	}
	to, err := Next(job.Status, EventAccept)
	if err != nil {
		return domain.JobUpdate{}, err
	}
	if job.AcceptedBy != "" {
		return domain.JobUpdate{}, domain.ErrJobAlreadyTaken
	}
	if job.CreatedBy == actor.ID {
		return domain.JobUpdate{}, domain.ErrOwnJob
	}
	return domain.JobUpdate{Status: to, AcceptedBy: actor.ID}, nil
}

// Cancel decides whether actor may cancel the job. An open job can only be
// cancelled by its poster; an assigned job by either participant.
func Cancel(job *domain.Job, actor domain.Actor, reason string) (domain.JobUpdate, error) {
	to, err := Next(job.Status, EventCancel)
	if err != nil {
		return domain.JobUpdate{}, err
	}

	switch job.Status {
	case domain.JobStatusOpen:
		if actor.ID != job.CreatedBy {
			return domain.JobUpdate{}, domain.ErrNotJobOwner
		}
	default:
		if !job.IsParticipant(actor.ID) {
			return domain.JobUpdate{}, domain.ErrNotParticipant
		}
	}

	return domain.JobUpdate{Status: to, AcceptedBy: job.AcceptedBy, CancelReason: reason}, nil
}

// Complete decides whether actor may mark the job done. Only the laborer who
// accepted it can.
func Complete(job *domain.Job, actor domain.Actor) (domain.JobUpdate, error) {
	to, err := Next(job.Status, EventComplete)
	if err != nil {
		return domain.JobUpdate{}, err
	}
	if job.AcceptedBy == "" || actor.ID != job.AcceptedBy {
		return domain.JobUpdate{}, domain.ErrNotJobLaborer
	}
	return domain.JobUpdate{Status: to, AcceptedBy: job.AcceptedBy}, nil
}

// Rate decides whether actor may review the job and returns who is reviewed.
// The one-rating-per-reviewer rule needs the ledger and is checked by the caller.
func Rate(job *domain.Job, actor domain.Actor) (reviewee string, err error) {
	if !job.IsParticipant(actor.ID) {
		return "", domain.ErrNotParticipant
	}
	if _, err := Next(job.Status, EventRate); err != nil {
		return "", err
	}

	reviewee = job.Counterparty(actor.ID)
	if reviewee == "" || reviewee == actor.ID {
		return "", domain.ErrSelfRating
	}
	return reviewee, nil
}

// RaiseDispute decides whether actor may open a dispute about the job
func RaiseDispute(job *domain.Job, actor domain.Actor) error {
	if !job.IsParticipant(actor.ID) {
		return domain.ErrNotParticipant
	}
	if job.Status != domain.JobStatusAssigned && job.Status != domain.JobStatusCompleted {
		return domain.ErrDisputeNotAllowed
	}
	return nil
}
