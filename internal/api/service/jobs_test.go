package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongbtq/labour-market/internal/domain"
)

func TestCreateJob_Validation(t *testing.T) {
	f := newFixture(t, Options{})
	client := f.client(t)
	laborer := f.laborer(t, RegisterLabourInput{})

	valid := CreateJobInput{
		Title:         "Paint wall",
		SkillRequired: "painting",
		StationRange:  domain.StationRange{From: "vasai", To: "virar"},
		Budget:        decimal.NewFromInt(300),
	}

	tests := []struct {
		name   string
		actor  domain.Actor
		mutate func(in *CreateJobInput)
		kind   error
	}{
		{name: "laborer cannot post", actor: laborer, mutate: func(*CreateJobInput) {}, kind: domain.ErrForbidden},
		{name: "missing title", actor: client, mutate: func(in *CreateJobInput) { in.Title = " " }, kind: domain.ErrValidationFailed},
		{name: "missing skill", actor: client, mutate: func(in *CreateJobInput) { in.SkillRequired = "" }, kind: domain.ErrValidationFailed},
		{name: "zero budget", actor: client, mutate: func(in *CreateJobInput) { in.Budget = decimal.Zero }, kind: domain.ErrValidationFailed},
		{name: "budget rounds to zero", actor: client, mutate: func(in *CreateJobInput) { in.Budget = decimal.RequireFromString("0.004") }, kind: domain.ErrValidationFailed},
		{name: "negative budget", actor: client, mutate: func(in *CreateJobInput) { in.Budget = decimal.NewFromInt(-5) }, kind: domain.ErrValidationFailed},
		{name: "unknown station", actor: client, mutate: func(in *CreateJobInput) { in.StationRange.To = "thane" }, kind: domain.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := f.svc.CreateJob(context.Background(), tt.actor, in)
			requireKind(t, err, tt.kind)
		})
	}

	job, err := f.svc.CreateJob(context.Background(), client, valid)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusOpen, job.Status)
	assert.Empty(t, job.AcceptedBy)
	assert.Equal(t, t0, job.CreatedAt)
}

func TestCreateJob_BudgetKeptToTheCent(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	client := f.client(t)
	laborer := f.laborer(t, RegisterLabourInput{})

	job, err := f.svc.CreateJob(ctx, client, CreateJobInput{
		Title:         "Carry sacks",
		SkillRequired: "loading",
		StationRange:  domain.StationRange{From: "vasai", To: "virar"},
		Budget:        decimal.RequireFromString("333.335"),
	})
	require.NoError(t, err)
	assert.Equal(t, "333.34", job.Budget.String())

	_, err = f.svc.AcceptJob(ctx, laborer, job.ID)
	require.NoError(t, err)
	done, err := f.svc.CompleteJob(ctx, laborer, job.ID)
	require.NoError(t, err)
	assert.True(t, done.Payment.Amount.Equal(job.Budget))

	dash, err := f.svc.LabourDashboard(ctx, laborer)
	require.NoError(t, err)
	assert.Equal(t, "333.34", dash.TotalEarnings.StringFixed(2))
}

func TestAcceptJob_ConcurrentSingleWinner(t *testing.T) {
	f := newFixture(t, Options{})
	client := f.client(t)
	job := f.job(t, client, "vasai", "virar", 500)

	const contenders = 12
	laborers := make([]domain.Actor, contenders)
	for i := range laborers {
		laborers[i] = f.laborer(t, RegisterLabourInput{})
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
	)
	for _, l := range laborers {
		wg.Add(1)
		go func(actor domain.Actor) {
			defer wg.Done()
			_, err := f.svc.AcceptJob(context.Background(), actor, job.ID)
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrPreconditionFailed)
				return
			}
			mu.Lock()
			winners = append(winners, actor.ID)
			mu.Unlock()
		}(l)
	}
	wg.Wait()

	require.Len(t, winners, 1)

	stored, err := f.svc.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusAssigned, stored.Status)
	assert.Equal(t, winners[0], stored.AcceptedBy)
}

func TestAcceptJob_Guards(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	client := f.client(t)
	laborer := f.laborer(t, RegisterLabourInput{})
	job := f.job(t, client, "vasai", "virar", 500)

	_, err := f.svc.AcceptJob(ctx, client, job.ID)
	requireKind(t, err, domain.ErrPreconditionFailed)

	_, err = f.svc.AcceptJob(ctx, laborer, "missing")
	requireKind(t, err, domain.ErrNotFound)

	_, err = f.svc.AcceptJob(ctx, laborer, job.ID)
	require.NoError(t, err)

	_, err = f.svc.AcceptJob(ctx, f.laborer(t, RegisterLabourInput{}), job.ID)
	assert.ErrorIs(t, err, domain.ErrJobNotOpen)
}

func TestCompleteJob_CreatesPayment(t *testing.T) {
	f := newFixture(t, Options{PaymentWindow: 24 * time.Hour})
	ctx := context.Background()
	client := f.client(t)
	laborer := f.laborer(t, RegisterLabourInput{})
	job := f.job(t, client, "vasai", "virar", 499.5)

	_, err := f.svc.CompleteJob(ctx, laborer, job.ID)
	assert.ErrorIs(t, err, domain.ErrJobNotAssigned)

	_, err = f.svc.AcceptJob(ctx, laborer, job.ID)
	require.NoError(t, err)

	_, err = f.svc.CompleteJob(ctx, client, job.ID)
	assert.ErrorIs(t, err, domain.ErrNotJobLaborer)

	f.advance(time.Hour)
	done, err := f.svc.CompleteJob(ctx, laborer, job.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusCompleted, done.Job.Status)
	assert.Equal(t, done.Payment.ID, done.Job.PaymentID)
	assert.Equal(t, domain.PaymentStatusPending, done.Payment.Status)
	assert.Equal(t, "499.50", done.Payment.Amount.StringFixed(2))
	assert.Equal(t, t0.Add(25*time.Hour), done.Payment.Deadline)

	_, err = f.svc.CompleteJob(ctx, laborer, job.ID)
	assert.ErrorIs(t, err, domain.ErrJobNotAssigned)

	assert.Equal(t, []domain.EventType{
		domain.EventJobCreated, domain.EventJobAccepted, domain.EventJobCompleted,
	}, f.events.types())
}

func TestCancelJob(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	client := f.client(t)
	laborer := f.laborer(t, RegisterLabourInput{})

	open := f.job(t, client, "vasai", "virar", 200)
	_, err := f.svc.CancelJob(ctx, laborer, open.ID, "")
	assert.ErrorIs(t, err, domain.ErrNotJobOwner)

	cancelled, err := f.svc.CancelJob(ctx, client, open.ID, " no longer needed ")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCancelled, cancelled.Status)
	assert.Equal(t, "no longer needed", cancelled.CancelReason)

	_, err = f.svc.CancelJob(ctx, client, open.ID, "")
	assert.ErrorIs(t, err, domain.ErrJobClosed)

	assigned := f.job(t, client, "vasai", "virar", 200)
	_, err = f.svc.AcceptJob(ctx, laborer, assigned.ID)
	require.NoError(t, err)

	_, err = f.svc.CancelJob(ctx, f.laborer(t, RegisterLabourInput{}), assigned.ID, "")
	assert.ErrorIs(t, err, domain.ErrNotParticipant)

	byLaborer, err := f.svc.CancelJob(ctx, laborer, assigned.ID, "sick")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCancelled, byLaborer.Status)
	assert.Equal(t, laborer.ID, byLaborer.AcceptedBy)
}

func TestRejectJob(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	client := f.client(t)
	laborer := f.laborer(t, RegisterLabourInput{})
	job := f.job(t, client, "vasai", "virar", 200)

	assert.ErrorIs(t, f.svc.RejectJob(ctx, client, job.ID), domain.ErrLaborerOnly)
	requireKind(t, f.svc.RejectJob(ctx, laborer, "missing"), domain.ErrNotFound)

	require.NoError(t, f.svc.RejectJob(ctx, laborer, job.ID))
	require.NoError(t, f.svc.RejectJob(ctx, laborer, job.ID))

	stored, err := f.svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusOpen, stored.Status)

	_, err = f.svc.CancelJob(ctx, client, job.ID, "")
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.RejectJob(ctx, laborer, job.ID), domain.ErrJobNotOpen)
}

func TestPublishFailureDoesNotUndoTransition(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	client := f.client(t)
	laborer := f.laborer(t, RegisterLabourInput{})
	job := f.job(t, client, "vasai", "virar", 200)

	f.events.err = assert.AnError
	accepted, err := f.svc.AcceptJob(ctx, laborer, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusAssigned, accepted.Status)
}

func TestPublish_OutlivesCancelledRequest(t *testing.T) {
	f := newFixture(t, Options{})
	client := f.client(t)
	laborer := f.laborer(t, RegisterLabourInput{})
	job := f.job(t, client, "vasai", "virar", 200)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.AcceptJob(ctx, laborer, job.ID)
	require.NoError(t, err)

	f.events.mu.Lock()
	defer f.events.mu.Unlock()
	require.NotEmpty(t, f.events.ctxErrs)
	last := len(f.events.events) - 1
	assert.Equal(t, domain.EventJobAccepted, f.events.events[last].Type)
	assert.NoError(t, f.events.ctxErrs[last])
}

func TestMyJobLists(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	client := f.client(t)
	laborer := f.laborer(t, RegisterLabourInput{})

	for i := 0; i < 25; i++ {
		f.job(t, client, "vasai", "virar", 100)
		f.advance(time.Minute)
	}

	first, err := f.svc.MyPostedJobs(ctx, client, PageRequest{})
	require.NoError(t, err)
	require.Len(t, first.Jobs, 20)
	require.NotNil(t, first.Next)

	second, err := f.svc.MyPostedJobs(ctx, client, PageRequest{Cursor: first.Next})
	require.NoError(t, err)
	require.Len(t, second.Jobs, 5)
	assert.Nil(t, second.Next)
	assert.True(t, second.Jobs[0].CreatedAt.Before(first.Jobs[19].CreatedAt))

	_, err = f.svc.MyPostedJobs(ctx, laborer, PageRequest{})
	requireKind(t, err, domain.ErrForbidden)

	_, err = f.svc.AcceptJob(ctx, laborer, first.Jobs[0].ID)
	require.NoError(t, err)
	_, err = f.svc.AcceptJob(ctx, laborer, first.Jobs[1].ID)
	require.NoError(t, err)
	_, err = f.svc.CompleteJob(ctx, laborer, first.Jobs[1].ID)
	require.NoError(t, err)

	accepted, err := f.svc.MyAcceptedJobs(ctx, laborer, PageRequest{})
	require.NoError(t, err)
	require.Len(t, accepted.Jobs, 1)
	assert.Equal(t, first.Jobs[0].ID, accepted.Jobs[0].ID)

	completed, err := f.svc.MyCompletedJobs(ctx, laborer, PageRequest{PageSize: 500})
	require.NoError(t, err)
	require.Len(t, completed.Jobs, 1)
	assert.Equal(t, first.Jobs[1].ID, completed.Jobs[0].ID)
}
