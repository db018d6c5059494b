// Package service implements the marketplace operations on top of the
// lifecycle, station and scoring packages. Every operation loads the current
// state, asks lifecycle for a decision, and commits it with a conditional
// store update; events are published after the commit.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cuongbtq/labour-market/internal/api/storage"
	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/cuongbtq/labour-market/internal/station"
)

// UserStore persists accounts and reads the worker's stats projection
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*domain.User, error)
	UpdateProfilePhoto(ctx context.Context, userID, photo string, now time.Time) (*domain.User, error)
	GetUserStats(ctx context.Context, userID string) (*domain.UserStats, error)
}

// JobStore persists jobs. Transition methods must fail with
// domain.ErrStaleState when the stored job no longer matches the snapshot.
type JobStore interface {
	CreateJob(ctx context.Context, job *domain.Job) error
	GetJob(ctx context.Context, jobID string) (*domain.Job, error)
	TransitionJob(ctx context.Context, snapshot *domain.Job, upd domain.JobUpdate, now time.Time) (*domain.Job, error)
	CompleteJob(ctx context.Context, snapshot *domain.Job, upd domain.JobUpdate, payment *domain.Payment, now time.Time) (*domain.Job, error)
	RejectJob(ctx context.Context, jobID, laborerID string, now time.Time) error
	ListOpenJobs(ctx context.Context, filter storage.OpenJobFilter) ([]domain.Job, error)
	ListJobs(ctx context.Context, filter storage.JobFilter) ([]domain.Job, error)
	CountJobsByStatus(ctx context.Context, filter storage.JobCountFilter) ([]domain.StatusCount, error)
}

// PaymentStore persists payments
type PaymentStore interface {
	GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error)
	TransitionPayment(ctx context.Context, snapshot *domain.Payment, upd domain.PaymentUpdate, now time.Time) (*domain.Payment, error)
}

// RatingStore is the rating ledger. RecordRating must insert the rating and
// rewrite the reviewee's score atomically, failing with
// domain.ErrAlreadyRated on a duplicate (job, reviewer) pair.
type RatingStore interface {
	HasRated(ctx context.Context, jobID, reviewerID string) (bool, error)
	RecordRating(ctx context.Context, rating *domain.Rating, apply func(current int) int) (int, error)
	ListRatingsForUser(ctx context.Context, userID string) ([]domain.Rating, error)
}

// DisputeStore persists disputes
type DisputeStore interface {
	CreateDispute(ctx context.Context, dispute *domain.Dispute) error
	GetDispute(ctx context.Context, disputeID string) (*domain.Dispute, error)
	ListDisputesByUser(ctx context.Context, userID string) ([]domain.Dispute, error)
	ResolveDispute(ctx context.Context, disputeID, resolution string, now time.Time) (*domain.Dispute, error)
}

// Store is everything the service persists
type Store interface {
	UserStore
	JobStore
	PaymentStore
	RatingStore
	DisputeStore
}

// EventPublisher delivers lifecycle events to the worker
type EventPublisher interface {
	Publish(ctx context.Context, event domain.JobEvent) error
}

// TokenIssuer signs bearer tokens
type TokenIssuer interface {
	Issue(userID string, role domain.Role) (string, error)
}

// Options are the marketplace policy knobs
// publishTimeout bounds the broker round trip after a committed change
const publishTimeout = 5 * time.Second

type Options struct {
	PaymentWindow       time.Duration
	StrictStationFilter bool
	FeedLimit           int
}

type Service struct {
	store    Store
	stations *station.Index
	events   EventPublisher
	tokens   TokenIssuer
	logger   *slog.Logger
	opts     Options

	now   func() time.Time
	newID func() string
}

func New(store Store, stations *station.Index, events EventPublisher, tokens TokenIssuer, logger *slog.Logger, opts Options) *Service {
	return &Service{
		store:    store,
		stations: stations,
		events:   events,
		tokens:   tokens,
		logger:   logger,
		opts:     opts,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// publish emits an event for job. Failures are logged, never returned: the
// transition is already committed. The request context is detached so a
// client hanging up after the commit does not drop the event.
func (s *Service) publish(ctx context.Context, eventType domain.EventType, job *domain.Job, actorID string) {
	event := domain.JobEvent{
		EventID:    s.newID(),
		Type:       eventType,
		JobID:      job.ID,
		ActorID:    actorID,
		ClientID:   job.CreatedBy,
		LaborerID:  job.AcceptedBy,
		OccurredAt: s.now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event",
			slog.String("event_type", string(eventType)),
			slog.String("event_id", event.EventID),
			slog.String("job_id", job.ID),
			slog.Any("error", err),
		)
	}
}

// explainStale turns a lost conditional update into the error the losing
// request would have received had it arrived second: the decision is
// re-run against the fresh job.
func (s *Service) explainStale(ctx context.Context, jobID string, decide func(job *domain.Job) error) error {
	fresh, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if err := decide(fresh); err != nil {
		return err
	}
	return domain.ErrStaleState
}

func isStale(err error) bool {
	return errors.Is(err, domain.ErrStaleState)
}

// requireRole fails with domain.ErrRoleNotAllowed unless actor has one of roles
func requireRole(actor domain.Actor, roles ...domain.Role) error {
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return domain.ErrRoleNotAllowed
}
