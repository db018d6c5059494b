package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment tracks proof-of-payment for a completed job
type Payment struct {
	ID         string
	JobID      string
	Amount     decimal.Decimal
	Status     PaymentStatus
	ProofImage string
	Deadline   time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Overdue reports whether the client missed the deadline for submitting proof.
// Evaluated on read; nothing flips the stored status when the deadline passes.
func (p *Payment) Overdue(now time.Time) bool {
	return p.Status == PaymentStatusPending && now.After(p.Deadline)
}

// IsSettled reports whether the payment reached a terminal status
func (p *Payment) IsSettled() bool {
	return p.Status == PaymentStatusConfirmed || p.Status == PaymentStatusDisputed
}

// PaymentUpdate carries the fields written by a payment status transition
type PaymentUpdate struct {
	Status     PaymentStatus
	ProofImage string
}
