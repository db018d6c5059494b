package domain

// Role is the kind of account acting on the marketplace
type Role string

// User roles. Laborers use the "labour" wire value of the public API.
const (
	RoleClient  Role = "client"
	RoleLaborer Role = "labour"
	RoleAdmin   Role = "admin"
)

// JobStatus is the lifecycle state of a job
type JobStatus string

// Job status constants
const (
	JobStatusOpen      JobStatus = "open"
	JobStatusAssigned  JobStatus = "assigned"
	JobStatusCompleted JobStatus = "completed"
	JobStatusCancelled JobStatus = "cancelled"
)

// IsTerminal reports whether no further job transitions are possible
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// PaymentStatus is the state of the proof-of-payment bookkeeping for a completed job
type PaymentStatus string

// Payment status constants
const (
	PaymentStatusPending             PaymentStatus = "pending"
	PaymentStatusPendingConfirmation PaymentStatus = "pending_confirmation"
	PaymentStatusConfirmed           PaymentStatus = "confirmed"
	PaymentStatusDisputed            PaymentStatus = "disputed"
)

// DisputeStatus is the state of a dispute
type DisputeStatus string

// Dispute status constants
const (
	DisputeStatusOpen     DisputeStatus = "open"
	DisputeStatusResolved DisputeStatus = "resolved"
)

// Reliability score bounds
const (
	MinReliabilityScore     = 0
	MaxReliabilityScore     = 100
	DefaultReliabilityScore = 100
)

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// MinDisputeTextLength is the shortest accepted dispute description
const MinDisputeTextLength = 10
