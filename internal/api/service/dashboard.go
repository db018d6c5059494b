package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cuongbtq/labour-market/internal/api/storage"
	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/cuongbtq/labour-market/internal/scoring"
)

// ClientDashboard counts a client's posted jobs by state
type ClientDashboard struct {
	TotalJobs     int
	ActiveJobs    int
	CompletedJobs int
	CancelledJobs int
}

// LabourDashboard counts a laborer's accepted jobs by state
type LabourDashboard struct {
	AcceptedJobs  int
	ActiveJobs    int
	CompletedJobs int
	CancelledJobs int
	TotalEarnings decimal.Decimal
}

// UserStatsView is the worker projection of a user's history plus both
// reliability figures: the stored rating-driven score and the one derived
// from job counts.
type UserStatsView struct {
	Stats                 *domain.UserStats
	ReliabilityScore      int
	StatsReliabilityScore int
}

func (s *Service) ClientDashboard(ctx context.Context, actor domain.Actor) (*ClientDashboard, error) {
	if err := requireRole(actor, domain.RoleClient); err != nil {
		return nil, err
	}

	counts, err := s.store.CountJobsByStatus(ctx, storage.JobCountFilter{CreatedBy: actor.ID})
	if err != nil {
		return nil, err
	}

	var d ClientDashboard
	for _, c := range counts {
		d.TotalJobs += c.Count
		switch c.Status {
		case domain.JobStatusOpen, domain.JobStatusAssigned:
			d.ActiveJobs += c.Count
		case domain.JobStatusCompleted:
			d.CompletedJobs += c.Count
		case domain.JobStatusCancelled:
			d.CancelledJobs += c.Count
		}
	}
	return &d, nil
}

func (s *Service) LabourDashboard(ctx context.Context, actor domain.Actor) (*LabourDashboard, error) {
	if err := requireRole(actor, domain.RoleLaborer); err != nil {
		return nil, err
	}

	counts, err := s.store.CountJobsByStatus(ctx, storage.JobCountFilter{AcceptedBy: actor.ID})
	if err != nil {
		return nil, err
	}

	var d LabourDashboard
	for _, c := range counts {
		d.AcceptedJobs += c.Count
		switch c.Status {
		case domain.JobStatusAssigned:
			d.ActiveJobs += c.Count
		case domain.JobStatusCompleted:
			d.CompletedJobs += c.Count
			d.TotalEarnings = d.TotalEarnings.Add(c.Budget)
		case domain.JobStatusCancelled:
			d.CancelledJobs += c.Count
		}
	}
	return &d, nil
}

// LabourStats reads the projection for a laborer
func (s *Service) LabourStats(ctx context.Context, labourID string) (*UserStatsView, error) {
	return s.userStats(ctx, labourID, domain.RoleLaborer)
}

// ClientStats reads the projection for a client
func (s *Service) ClientStats(ctx context.Context, clientID string) (*UserStatsView, error) {
	return s.userStats(ctx, clientID, domain.RoleClient)
}

func (s *Service) userStats(ctx context.Context, userID string, role domain.Role) (*UserStatsView, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != role {
		return nil, domain.ErrUserNotFound
	}

	stats, err := s.store.GetUserStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserStatsView{
		Stats:                 stats,
		ReliabilityScore:      user.ReliabilityScore,
		StatsReliabilityScore: scoring.ReliabilityScore(scoring.StatsFrom(stats)),
	}, nil
}
