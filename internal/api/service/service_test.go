package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cuongbtq/labour-market/internal/api/storage/memstore"
	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/cuongbtq/labour-market/internal/station"
)

var t0 = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu      sync.Mutex
	events  []domain.JobEvent
	ctxErrs []error
	err     error
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.JobEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	p.ctxErrs = append(p.ctxErrs, ctx.Err())
	return p.err
}

func (p *recordingPublisher) types() []domain.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type staticTokens struct{}

func (staticTokens) Issue(userID string, _ domain.Role) (string, error) {
	return "token-" + userID, nil
}

type fixture struct {
	svc    *Service
	store  *memstore.Store
	events *recordingPublisher

	mu    sync.Mutex
	clock time.Time
}

func (f *fixture) advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = f.clock.Add(d)
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	stations, err := station.New(station.DefaultNames())
	require.NoError(t, err)

	if opts.PaymentWindow == 0 {
		opts.PaymentWindow = 48 * time.Hour
	}

	f := &fixture{
		store:  memstore.New(),
		events: &recordingPublisher{},
		clock:  t0,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = New(f.store, stations, f.events, staticTokens{}, logger, opts)
	f.svc.now = func() time.Time {
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.clock
	}
	return f
}

var phoneSeq struct {
	sync.Mutex
	n int
}

func nextPhone() string {
	phoneSeq.Lock()
	defer phoneSeq.Unlock()
	phoneSeq.n++
	return fmt.Sprintf("98%08d", phoneSeq.n)
}

func (f *fixture) client(t *testing.T) domain.Actor {
	t.Helper()
	res, err := f.svc.RegisterClient(context.Background(), RegisterClientInput{
		Name:     "Client",
		Phone:    nextPhone(),
		Email:    "client@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	return domain.Actor{ID: res.User.ID, Role: res.User.Role}
}

func (f *fixture) laborer(t *testing.T, in RegisterLabourInput) domain.Actor {
	t.Helper()
	if in.Name == "" {
		in.Name = "Laborer"
	}
	in.Phone = nextPhone()
	res, err := f.svc.RegisterLabour(context.Background(), in)
	require.NoError(t, err)
	return domain.Actor{ID: res.User.ID, Role: res.User.Role}
}

func (f *fixture) admin(t *testing.T) domain.Actor {
	t.Helper()
	ctx := context.Background()
	phone := nextPhone()
	require.NoError(t, f.svc.EnsureAdmin(ctx, phone, "admin-pass"))
	u, err := f.store.GetUserByPhone(ctx, phone)
	require.NoError(t, err)
	return domain.Actor{ID: u.ID, Role: u.Role}
}

func (f *fixture) job(t *testing.T, client domain.Actor, from, to string, budget float64) *domain.Job {
	t.Helper()
	job, err := f.svc.CreateJob(context.Background(), client, CreateJobInput{
		Title:         "Unload truck",
		Description:   "Two hours of loading work",
		SkillRequired: "Loading",
		StationRange:  domain.StationRange{From: from, To: to},
		Budget:        decimal.NewFromFloat(budget),
	})
	require.NoError(t, err)
	return job
}

// completedJob walks a fresh job through accept and complete
func (f *fixture) completedJob(t *testing.T) (client, laborer domain.Actor, done *CompletedJob) {
	t.Helper()
	ctx := context.Background()

	client = f.client(t)
	laborer = f.laborer(t, RegisterLabourInput{})
	job := f.job(t, client, "vasai", "virar", 500)

	_, err := f.svc.AcceptJob(ctx, laborer, job.ID)
	require.NoError(t, err)
	done, err = f.svc.CompleteJob(ctx, laborer, job.ID)
	require.NoError(t, err)
	return client, laborer, done
}

func requireKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, errors.Is(err, kind), "expected %v, got %v", kind, err)
}
