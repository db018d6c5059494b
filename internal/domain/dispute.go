package domain

import "time"

// Dispute is a complaint raised by a job participant
type Dispute struct {
	ID         string
	JobID      string
	RaisedBy   string
	Text       string
	Evidence   string
	Status     DisputeStatus
	Resolution string
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
