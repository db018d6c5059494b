package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/cuongbtq/labour-market/internal/lifecycle"
)

// PaymentView is a payment as seen at read time
type PaymentView struct {
	Payment *domain.Payment
	Overdue bool
}

// paymentDecision decides a payment transition for actor
type paymentDecision func(job *domain.Job, payment *domain.Payment) (domain.PaymentUpdate, error)

func (s *Service) loadPayment(ctx context.Context, paymentID string) (*domain.Payment, *domain.Job, error) {
	payment, err := s.store.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	job, err := s.store.GetJob(ctx, payment.JobID)
	if err != nil {
		return nil, nil, err
	}
	return payment, job, nil
}

// GetPayment shows a payment to the job's participants and admins
func (s *Service) GetPayment(ctx context.Context, actor domain.Actor, paymentID string) (*PaymentView, error) {
	payment, job, err := s.loadPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleAdmin && !job.IsParticipant(actor.ID) {
		return nil, domain.ErrNotParticipant
	}
	return &PaymentView{Payment: payment, Overdue: payment.Overdue(s.now())}, nil
}

// SubmitPaymentProof attaches the client's proof of payment
func (s *Service) SubmitPaymentProof(ctx context.Context, actor domain.Actor, paymentID, proof string) (*PaymentView, error) {
	proof = strings.TrimSpace(proof)
	return s.transitionPayment(ctx, paymentID, domain.EventPaymentProof, actor, func(job *domain.Job, p *domain.Payment) (domain.PaymentUpdate, error) {
		return lifecycle.SubmitProof(job, p, actor, proof)
	})
}

// ConfirmPayment records that the laborer received the money
func (s *Service) ConfirmPayment(ctx context.Context, actor domain.Actor, paymentID string) (*PaymentView, error) {
	return s.transitionPayment(ctx, paymentID, domain.EventPaymentConfirmed, actor, func(job *domain.Job, p *domain.Payment) (domain.PaymentUpdate, error) {
		return lifecycle.ConfirmPayment(job, p, actor)
	})
}

// DisputePayment records that the laborer contests the payment
func (s *Service) DisputePayment(ctx context.Context, actor domain.Actor, paymentID string) (*PaymentView, error) {
	return s.transitionPayment(ctx, paymentID, domain.EventPaymentDisputed, actor, func(job *domain.Job, p *domain.Payment) (domain.PaymentUpdate, error) {
		return lifecycle.DisputePayment(job, p, actor, s.now())
	})
}

func (s *Service) transitionPayment(ctx context.Context, paymentID string, event domain.EventType, actor domain.Actor, decide paymentDecision) (*PaymentView, error) {
	payment, job, err := s.loadPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	upd, err := decide(job, payment)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updated, err := s.store.TransitionPayment(ctx, payment, upd, now)
	if isStale(err) {
		fresh, _, loadErr := s.loadPayment(ctx, paymentID)
		if loadErr != nil {
			return nil, loadErr
		}
		if _, err := decide(job, fresh); err != nil {
			return nil, err
		}
		return nil, domain.ErrStaleState
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Payment updated",
		slog.String("payment_id", paymentID),
		slog.String("job_id", job.ID),
		slog.String("status", string(updated.Status)),
	)
	s.publish(ctx, event, job, actor.ID)

	return &PaymentView{Payment: updated, Overdue: updated.Overdue(now)}, nil
}
