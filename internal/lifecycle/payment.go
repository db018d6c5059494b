package lifecycle

import (
	"time"

	"github.com/cuongbtq/labour-market/internal/domain"
)

// NewPayment builds the pending payment created when a job completes
func NewPayment(job *domain.Job, id string, now time.Time, window time.Duration) *domain.Payment {
	return &domain.Payment{
		ID:        id,
		JobID:     job.ID,
		Amount:    job.Budget.Round(2),
		Status:    domain.PaymentStatusPending,
		Deadline:  now.Add(window),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SubmitProof decides whether actor may attach proof of payment. The client
// may resubmit until the laborer confirms or disputes.
func SubmitProof(job *domain.Job, payment *domain.Payment, actor domain.Actor, proof string) (domain.PaymentUpdate, error) {
	if actor.ID != job.CreatedBy {
		return domain.PaymentUpdate{}, domain.ErrNotJobOwner
	}
	if payment.IsSettled() {
		return domain.PaymentUpdate{}, domain.ErrPaymentSettled
	}
	if proof == "" {
		return domain.PaymentUpdate{}, domain.Validationf("Payment proof is required")
	}
	return domain.PaymentUpdate{Status: domain.PaymentStatusPendingConfirmation, ProofImage: proof}, nil
}

// ConfirmPayment decides whether actor may confirm receipt of the payment
func ConfirmPayment(job *domain.Job, payment *domain.Payment, actor domain.Actor) (domain.PaymentUpdate, error) {
	if actor.ID != job.AcceptedBy {
		return domain.PaymentUpdate{}, domain.ErrNotJobLaborer
	}
	switch payment.Status {
	case domain.PaymentStatusPendingConfirmation:
		return domain.PaymentUpdate{Status: domain.PaymentStatusConfirmed, ProofImage: payment.ProofImage}, nil
	case domain.PaymentStatusPending:
		return domain.PaymentUpdate{}, domain.ErrPaymentNoProof
	default:
		return domain.PaymentUpdate{}, domain.ErrPaymentSettled
	}
}

// DisputePayment decides whether actor may dispute the payment. A payment
// without proof can only be disputed once its deadline has passed.
func DisputePayment(job *domain.Job, payment *domain.Payment, actor domain.Actor, now time.Time) (domain.PaymentUpdate, error) {
	if actor.ID != job.AcceptedBy {
		return domain.PaymentUpdate{}, domain.ErrNotJobLaborer
	}
	switch payment.Status {
	case domain.PaymentStatusPendingConfirmation:
	case domain.PaymentStatusPending:
		if !payment.Overdue(now) {
			return domain.PaymentUpdate{}, domain.ErrPaymentNotDue
		}
	default:
		return domain.PaymentUpdate{}, domain.ErrPaymentSettled
	}
	return domain.PaymentUpdate{Status: domain.PaymentStatusDisputed, ProofImage: payment.ProofImage}, nil
}
