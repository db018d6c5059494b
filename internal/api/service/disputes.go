package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/cuongbtq/labour-market/internal/lifecycle"
)

type RaiseDisputeInput struct {
	JobID    string
	Text     string
	Evidence string // stored upload path, optional
}

func (s *Service) RaiseDispute(ctx context.Context, actor domain.Actor, in RaiseDisputeInput) (*domain.Dispute, error) {
	text := strings.TrimSpace(in.Text)
	if utf8.RuneCountInString(text) < domain.MinDisputeTextLength {
		return nil, domain.Validationf("Dispute text must be at least %d characters", domain.MinDisputeTextLength)
	}
	if strings.TrimSpace(in.JobID) == "" {
		return nil, domain.Validationf("Job is required")
	}

	job, err := s.store.GetJob(ctx, in.JobID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.RaiseDispute(job, actor); err != nil {
		return nil, err
	}

	dispute := &domain.Dispute{
		ID:        s.newID(),
		JobID:     job.ID,
		RaisedBy:  actor.ID,
		Text:      text,
		Evidence:  in.Evidence,
		Status:    domain.DisputeStatusOpen,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateDispute(ctx, dispute); err != nil {
		return nil, err
	}

	s.logger.Info("Dispute raised",
		slog.String("dispute_id", dispute.ID),
		slog.String("job_id", job.ID),
		slog.String("raised_by", actor.ID),
	)
	s.publish(ctx, domain.EventDisputeRaised, job, actor.ID)

	return dispute, nil
}

func (s *Service) MyDisputes(ctx context.Context, actor domain.Actor) ([]domain.Dispute, error) {
	return s.store.ListDisputesByUser(ctx, actor.ID)
}

// ResolveDispute closes an open dispute; admins only
func (s *Service) ResolveDispute(ctx context.Context, actor domain.Actor, disputeID, resolution string) (*domain.Dispute, error) {
	if err := requireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	dispute, err := s.store.GetDispute(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.Status == domain.DisputeStatusResolved {
		return nil, domain.ErrDisputeResolved
	}

	resolved, err := s.store.ResolveDispute(ctx, disputeID, strings.TrimSpace(resolution), s.now())
	if isStale(err) {
		return nil, domain.ErrDisputeResolved
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Dispute resolved", slog.String("dispute_id", disputeID), slog.String("admin_id", actor.ID))
	return resolved, nil
}
