package domain

import "time"

// EventType names a lifecycle change published to the event exchange
type EventType string

// Event types
const (
	EventJobCreated       EventType = "job.created"
	EventJobAccepted      EventType = "job.accepted"
	EventJobCompleted     EventType = "job.completed"
	EventJobCancelled     EventType = "job.cancelled"
	EventJobRated         EventType = "job.rated"
	EventPaymentProof     EventType = "payment.proof_submitted"
	EventPaymentConfirmed EventType = "payment.confirmed"
	EventPaymentDisputed  EventType = "payment.disputed"
	EventDisputeRaised    EventType = "dispute.raised"
)

// JobEvent is the message published after every committed transition
type JobEvent struct {
	EventID    string    `json:"event_id"`
	Type       EventType `json:"type"`
	JobID      string    `json:"job_id"`
	ActorID    string    `json:"actor_id"`
	ClientID   string    `json:"client_id"`
	LaborerID  string    `json:"laborer_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
