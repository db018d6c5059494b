package domain

import "time"

// StationRange is a pair of station names; order does not matter
type StationRange struct {
	From string
	To   string
}

// User is a client, laborer or admin account
type User struct {
	ID               string
	Name             string
	Phone            string
	Email            string
	PasswordHash     string
	Role             Role
	ReliabilityScore int
	StationRange     *StationRange
	Skills           []string
	ExpectedRate     float64 // 0 when the laborer did not declare one
	ProfilePhoto     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Actor is the authenticated identity performing an operation
type Actor struct {
	ID   string
	Role Role
}

// UserStats is the worker-maintained projection of a user's job history
type UserStats struct {
	UserID        string
	PostedJobs    int
	AcceptedJobs  int
	CompletedJobs int
	CancelledJobs int
	UpdatedAt     time.Time
}
