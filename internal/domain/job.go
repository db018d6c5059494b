package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Job is a short gig posted by a client
type Job struct {
	ID            string
	CreatedBy     string
	AcceptedBy    string // empty until accepted
	Title         string
	Description   string
	SkillRequired string
	StationRange  StationRange
	Budget        decimal.Decimal
	Status        JobStatus
	PaymentID     string
	CancelReason  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsParticipant reports whether userID posted or accepted the job
func (j *Job) IsParticipant(userID string) bool {
	if userID == "" {
		return false
	}
	return j.CreatedBy == userID || j.AcceptedBy == userID
}

// Counterparty returns the other participant of the job from userID's point of view
func (j *Job) Counterparty(userID string) string {
	if j.CreatedBy == userID {
		return j.AcceptedBy
	}
	return j.CreatedBy
}

// JobUpdate carries the fields written by a job status transition
type JobUpdate struct {
	Status       JobStatus
	AcceptedBy   string
	CancelReason string
}

// StatusCount aggregates jobs in one status
type StatusCount struct {
	Status JobStatus
	Count  int
	Budget decimal.Decimal
}
