// Package memstore is an in-process implementation of the API store used by
// tests and by local runs with the "memory" database driver. A single mutex
// serializes every operation, which gives the same all-or-nothing behavior
// as the conditional updates and transactions of the postgres store.
package memstore

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cuongbtq/labour-market/internal/api/storage"
	"github.com/cuongbtq/labour-market/internal/domain"
	workerdomain "github.com/cuongbtq/labour-market/internal/worker/domain"
)

type rejection struct {
	jobID     string
	laborerID string
}

type ratingKey struct {
	jobID      string
	reviewerID string
}

// Store keeps every entity in maps keyed by id
type Store struct {
	mu sync.Mutex

	users      map[string]*domain.User
	phones     map[string]string
	jobs       map[string]*domain.Job
	payments   map[string]*domain.Payment
	ratings    []domain.Rating
	rated      map[ratingKey]struct{}
	disputes   map[string]*domain.Dispute
	rejections map[rejection]struct{}
	stats      map[string]*domain.UserStats
	events     map[string]struct{}
}

func New() *Store {
	return &Store{
		users:      make(map[string]*domain.User),
		phones:     make(map[string]string),
		jobs:       make(map[string]*domain.Job),
		payments:   make(map[string]*domain.Payment),
		rated:      make(map[ratingKey]struct{}),
		disputes:   make(map[string]*domain.Dispute),
		rejections: make(map[rejection]struct{}),
		stats:      make(map[string]*domain.UserStats),
		events:     make(map[string]struct{}),
	}
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	c.Skills = slices.Clone(u.Skills)
	if u.StationRange != nil {
		r := *u.StationRange
		c.StationRange = &r
	}
	return &c
}

func copyJob(j *domain.Job) *domain.Job {
	c := *j
	return &c
}

func copyPayment(p *domain.Payment) *domain.Payment {
	c := *p
	return &c
}

func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.phones[user.Phone]; taken {
		return domain.ErrUserExists
	}
	s.users[user.ID] = copyUser(user)
	s.phones[user.Phone] = user.ID
	return nil
}

func (s *Store) GetUser(_ context.Context, userID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (s *Store) GetUserByPhone(_ context.Context, phone string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.phones[phone]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(s.users[id]), nil
}

func (s *Store) UpdateProfilePhoto(_ context.Context, userID, photo string, now time.Time) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.ProfilePhoto = photo
	u.UpdatedAt = now
	return copyUser(u), nil
}

func (s *Store) GetUserStats(_ context.Context, userID string) (*domain.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.stats[userID]; ok {
		c := *st
		return &c, nil
	}
	return &domain.UserStats{UserID: userID}, nil
}

// SetUserStats seeds the projection the worker maintains in production
func (s *Store) SetUserStats(stats domain.UserStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[stats.UserID] = &stats
}

// ApplyEvent folds an event into the user_stats projection once per event
// id, as the worker does against postgres.
func (s *Store) ApplyEvent(_ context.Context, event domain.JobEvent, deltas []workerdomain.StatsDelta) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seen := s.events[event.EventID]; seen {
		return false, nil
	}
	s.events[event.EventID] = struct{}{}

	for _, d := range deltas {
		if d.UserID == "" {
			continue
		}
		st, ok := s.stats[d.UserID]
		if !ok {
			st = &domain.UserStats{UserID: d.UserID}
			s.stats[d.UserID] = st
		}
		st.PostedJobs += d.Posted
		st.AcceptedJobs += d.Accepted
		st.CompletedJobs += d.Completed
		st.CancelledJobs += d.Cancelled
		st.UpdatedAt = event.OccurredAt
	}
	return true, nil
}

func (s *Store) CreateJob(_ context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[job.ID] = copyJob(job)
	return nil
}

func (s *Store) GetJob(_ context.Context, jobID string) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return copyJob(j), nil
}

func (s *Store) TransitionJob(_ context.Context, snapshot *domain.Job, upd domain.JobUpdate, now time.Time) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, err := s.matchJob(snapshot)
	if err != nil {
		return nil, err
	}
	applyJobUpdate(j, upd, now)
	return copyJob(j), nil
}

func (s *Store) CompleteJob(_ context.Context, snapshot *domain.Job, upd domain.JobUpdate, payment *domain.Payment, now time.Time) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, err := s.matchJob(snapshot)
	if err != nil {
		return nil, err
	}
	for _, p := range s.payments {
		if p.JobID == j.ID {
			return nil, domain.ErrStaleState
		}
	}

	s.payments[payment.ID] = copyPayment(payment)
	applyJobUpdate(j, upd, now)
	j.PaymentID = payment.ID
	return copyJob(j), nil
}

// matchJob returns the stored job if it still matches the snapshot's
// status and acceptedBy. Callers hold s.mu.
func (s *Store) matchJob(snapshot *domain.Job) (*domain.Job, error) {
	j, ok := s.jobs[snapshot.ID]
	if !ok || j.Status != snapshot.Status || j.AcceptedBy != snapshot.AcceptedBy {
		return nil, domain.ErrStaleState
	}
	return j, nil
}

func applyJobUpdate(j *domain.Job, upd domain.JobUpdate, now time.Time) {
	j.Status = upd.Status
	j.AcceptedBy = upd.AcceptedBy
	if upd.CancelReason != "" {
		j.CancelReason = upd.CancelReason
	}
	j.UpdatedAt = now
}

func (s *Store) RejectJob(_ context.Context, jobID, laborerID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rejections[rejection{jobID, laborerID}] = struct{}{}
	return nil
}

func (s *Store) ListOpenJobs(_ context.Context, filter storage.OpenJobFilter) ([]domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var jobs []domain.Job
	for _, j := range s.jobs {
		if j.Status != domain.JobStatusOpen {
			continue
		}
		if filter.ExcludeCreator != "" && j.CreatedBy == filter.ExcludeCreator {
			continue
		}
		if _, rejected := s.rejections[rejection{j.ID, filter.ExcludeRejectedBy}]; rejected && filter.ExcludeRejectedBy != "" {
			continue
		}
		if len(filter.Skills) > 0 && !slices.Contains(filter.Skills, strings.ToLower(j.SkillRequired)) {
			continue
		}
		jobs = append(jobs, *j)
	}

	sortNewestFirst(jobs)
	return jobs, nil
}

func (s *Store) ListJobs(_ context.Context, filter storage.JobFilter) ([]domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var jobs []domain.Job
	for _, j := range s.jobs {
		if filter.CreatedBy != "" && j.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.AcceptedBy != "" && j.AcceptedBy != filter.AcceptedBy {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, j.Status) {
			continue
		}
		if c := filter.Cursor; c != nil {
			if j.CreatedAt.After(c.CreatedAt) || (j.CreatedAt.Equal(c.CreatedAt) && j.ID >= c.JobID) {
				continue
			}
		}
		jobs = append(jobs, *j)
	}

	sortNewestFirst(jobs)
	if len(jobs) > filter.PageSize+1 {
		jobs = jobs[:filter.PageSize+1]
	}
	return jobs, nil
}

func sortNewestFirst(jobs []domain.Job) {
	sort.Slice(jobs, func(a, b int) bool {
		if !jobs[a].CreatedAt.Equal(jobs[b].CreatedAt) {
			return jobs[a].CreatedAt.After(jobs[b].CreatedAt)
		}
		return jobs[a].ID > jobs[b].ID
	})
}

func (s *Store) CountJobsByStatus(_ context.Context, filter storage.JobCountFilter) ([]domain.StatusCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byStatus := make(map[domain.JobStatus]*domain.StatusCount)
	for _, j := range s.jobs {
		if filter.CreatedBy != "" && j.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.AcceptedBy != "" && j.AcceptedBy != filter.AcceptedBy {
			continue
		}
		c, ok := byStatus[j.Status]
		if !ok {
			c = &domain.StatusCount{Status: j.Status}
			byStatus[j.Status] = c
		}
		c.Count++
		c.Budget = c.Budget.Add(j.Budget)
	}

	counts := make([]domain.StatusCount, 0, len(byStatus))
	for _, c := range byStatus {
		counts = append(counts, *c)
	}
	return counts, nil
}

func (s *Store) GetPayment(_ context.Context, paymentID string) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[paymentID]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	return copyPayment(p), nil
}

func (s *Store) TransitionPayment(_ context.Context, snapshot *domain.Payment, upd domain.PaymentUpdate, now time.Time) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[snapshot.ID]
	if !ok || p.Status != snapshot.Status {
		return nil, domain.ErrStaleState
	}
	p.Status = upd.Status
	p.ProofImage = upd.ProofImage
	p.UpdatedAt = now
	return copyPayment(p), nil
}

func (s *Store) HasRated(_ context.Context, jobID, reviewerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.rated[ratingKey{jobID, reviewerID}]
	return ok, nil
}

func (s *Store) RecordRating(_ context.Context, rating *domain.Rating, apply func(current int) int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ratingKey{rating.JobID, rating.ReviewerID}
	if _, dup := s.rated[key]; dup {
		return 0, domain.ErrAlreadyRated
	}
	reviewee, ok := s.users[rating.RevieweeID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}

	s.rated[key] = struct{}{}
	s.ratings = append(s.ratings, *rating)
	reviewee.ReliabilityScore = apply(reviewee.ReliabilityScore)
	reviewee.UpdatedAt = rating.CreatedAt
	return reviewee.ReliabilityScore, nil
}

func (s *Store) ListRatingsForUser(_ context.Context, userID string) ([]domain.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ratings []domain.Rating
	for i := len(s.ratings) - 1; i >= 0; i-- {
		r := s.ratings[i]
		if r.RevieweeID != userID {
			continue
		}
		if reviewer, ok := s.users[r.ReviewerID]; ok {
			r.ReviewerName = reviewer.Name
		}
		ratings = append(ratings, r)
	}
	return ratings, nil
}

func (s *Store) CreateDispute(_ context.Context, dispute *domain.Dispute) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := *dispute
	s.disputes[d.ID] = &d
	return nil
}

func (s *Store) GetDispute(_ context.Context, disputeID string) (*domain.Dispute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.disputes[disputeID]
	if !ok {
		return nil, domain.ErrDisputeNotFound
	}
	c := *d
	return &c, nil
}

func (s *Store) ListDisputesByUser(_ context.Context, userID string) ([]domain.Dispute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var disputes []domain.Dispute
	for _, d := range s.disputes {
		if d.RaisedBy == userID {
			disputes = append(disputes, *d)
		}
	}
	sort.Slice(disputes, func(a, b int) bool {
		return disputes[a].CreatedAt.After(disputes[b].CreatedAt)
	})
	return disputes, nil
}

func (s *Store) ResolveDispute(_ context.Context, disputeID, resolution string, now time.Time) (*domain.Dispute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.disputes[disputeID]
	if !ok || d.Status != domain.DisputeStatusOpen {
		return nil, domain.ErrStaleState
	}
	d.Status = domain.DisputeStatusResolved
	d.Resolution = resolution
	d.ResolvedAt = &now
	c := *d
	return &c, nil
}
