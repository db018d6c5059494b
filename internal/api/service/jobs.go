package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cuongbtq/labour-market/internal/api/storage"
	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/cuongbtq/labour-market/internal/lifecycle"
)

type CreateJobInput struct {
	Title         string
	Description   string
	SkillRequired string
	StationRange  domain.StationRange
	Budget        decimal.Decimal
}

// CompletedJob is a job that just completed together with its new payment
type CompletedJob struct {
	Job     *domain.Job
	Payment *domain.Payment
}

func (s *Service) CreateJob(ctx context.Context, actor domain.Actor, in CreateJobInput) (*domain.Job, error) {
	if err := requireRole(actor, domain.RoleClient); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	skill := strings.ToLower(strings.TrimSpace(in.SkillRequired))
	if title == "" {
		return nil, domain.Validationf("Title is required")
	}
	if skill == "" {
		return nil, domain.Validationf("Skill is required")
	}
	budget := in.Budget.Round(2)
	if !budget.IsPositive() {
		return nil, domain.Validationf("Budget must be greater than 0")
	}
	stations, err := s.stations.NormalizeRange(in.StationRange)
	if err != nil {
		return nil, err
	}

	now := s.now()
	job := &domain.Job{
		ID:            s.newID(),
		CreatedBy:     actor.ID,
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		SkillRequired: skill,
		StationRange:  stations,
		Budget:        budget,
		Status:        domain.JobStatusOpen,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("Job created",
		slog.String("job_id", job.ID),
		slog.String("client_id", actor.ID),
		slog.String("budget", job.Budget.StringFixed(2)),
	)
	s.publish(ctx, domain.EventJobCreated, job, actor.ID)

	return job, nil
}

// GetJob returns a job to anyone signed in
func (s *Service) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	return s.store.GetJob(ctx, jobID)
}

// AcceptJob assigns an open job to the acting laborer. Of concurrent
// accepts exactly one succeeds; the others fail with a precondition error.
func (s *Service) AcceptJob(ctx context.Context, actor domain.Actor, jobID string) (*domain.Job, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	decide := func(j *domain.Job) error {
		_, err := lifecycle.Accept(j, actor)
		return err
	}

	upd, err := lifecycle.Accept(job, actor)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.TransitionJob(ctx, job, upd, s.now())
	if isStale(err) {
		return nil, s.explainStale(ctx, jobID, decide)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Job accepted", slog.String("job_id", jobID), slog.String("laborer_id", actor.ID))
	s.publish(ctx, domain.EventJobAccepted, updated, actor.ID)

	return updated, nil
}

// RejectJob hides an open job from the acting laborer's feed
func (s *Service) RejectJob(ctx context.Context, actor domain.Actor, jobID string) error {
	if actor.Role != domain.RoleLaborer {
		return domain.ErrLaborerOnly
	}

	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status != domain.JobStatusOpen {
		return domain.ErrJobNotOpen
	}
	if job.CreatedBy == actor.ID {
		return domain.ErrOwnJob
	}

	return s.store.RejectJob(ctx, jobID, actor.ID, s.now())
}

// CompleteJob closes an assigned job and opens its payment
func (s *Service) CompleteJob(ctx context.Context, actor domain.Actor, jobID string) (*CompletedJob, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	upd, err := lifecycle.Complete(job, actor)
	if err != nil {
		return nil, err
	}

	now := s.now()
	payment := lifecycle.NewPayment(job, s.newID(), now, s.opts.PaymentWindow)

	updated, err := s.store.CompleteJob(ctx, job, upd, payment, now)
	if isStale(err) {
		return nil, s.explainStale(ctx, jobID, func(j *domain.Job) error {
			_, err := lifecycle.Complete(j, actor)
			return err
		})
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Job completed",
		slog.String("job_id", jobID),
		slog.String("payment_id", payment.ID),
		slog.String("amount", payment.Amount.StringFixed(2)),
	)
	s.publish(ctx, domain.EventJobCompleted, updated, actor.ID)

	return &CompletedJob{Job: updated, Payment: payment}, nil
}

func (s *Service) CancelJob(ctx context.Context, actor domain.Actor, jobID, reason string) (*domain.Job, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	upd, err := lifecycle.Cancel(job, actor, reason)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.TransitionJob(ctx, job, upd, s.now())
	if isStale(err) {
		return nil, s.explainStale(ctx, jobID, func(j *domain.Job) error {
			_, err := lifecycle.Cancel(j, actor, reason)
			return err
		})
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Job cancelled",
		slog.String("job_id", jobID),
		slog.String("actor_id", actor.ID),
		slog.String("reason", reason),
	)
	s.publish(ctx, domain.EventJobCancelled, updated, actor.ID)

	return updated, nil
}

// PageRequest asks for one keyset page of jobs
type PageRequest struct {
	PageSize int
	Cursor   *storage.JobCursor
}

// JobPage is one page of jobs; Next is nil on the last page
type JobPage struct {
	Jobs []domain.Job
	Next *storage.JobCursor
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (s *Service) MyPostedJobs(ctx context.Context, actor domain.Actor, page PageRequest) (*JobPage, error) {
	if err := requireRole(actor, domain.RoleClient); err != nil {
		return nil, err
	}
	return s.listJobs(ctx, storage.JobFilter{CreatedBy: actor.ID}, page)
}

// MyAcceptedJobs lists the laborer's jobs still in progress
func (s *Service) MyAcceptedJobs(ctx context.Context, actor domain.Actor, page PageRequest) (*JobPage, error) {
	if err := requireRole(actor, domain.RoleLaborer); err != nil {
		return nil, err
	}
	return s.listJobs(ctx, storage.JobFilter{
		AcceptedBy: actor.ID,
		Statuses:   []domain.JobStatus{domain.JobStatusAssigned},
	}, page)
}

func (s *Service) MyCompletedJobs(ctx context.Context, actor domain.Actor, page PageRequest) (*JobPage, error) {
	if err := requireRole(actor, domain.RoleLaborer); err != nil {
		return nil, err
	}
	return s.listJobs(ctx, storage.JobFilter{
		AcceptedBy: actor.ID,
		Statuses:   []domain.JobStatus{domain.JobStatusCompleted},
	}, page)
}

func (s *Service) listJobs(ctx context.Context, filter storage.JobFilter, page PageRequest) (*JobPage, error) {
	switch {
	case page.PageSize <= 0:
		page.PageSize = defaultPageSize
	case page.PageSize > maxPageSize:
		page.PageSize = maxPageSize
	}
	filter.PageSize = page.PageSize
	filter.Cursor = page.Cursor

	jobs, err := s.store.ListJobs(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := &JobPage{Jobs: jobs}
	if len(jobs) > page.PageSize {
		result.Jobs = jobs[:page.PageSize]
		last := result.Jobs[len(result.Jobs)-1]
		result.Next = &storage.JobCursor{CreatedAt: last.CreatedAt, JobID: last.ID}
	}
	return result, nil
}
