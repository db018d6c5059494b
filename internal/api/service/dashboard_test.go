package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/cuongbtq/labour-market/internal/scoring"
)

func TestDashboards(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	client := f.client(t)
	laborer := f.laborer(t, RegisterLabourInput{})

	f.job(t, client, "vasai", "virar", 100) // stays open
	assigned := f.job(t, client, "vasai", "virar", 200)
	completed := f.job(t, client, "vasai", "virar", 300)
	cancelled := f.job(t, client, "vasai", "virar", 400)

	for _, id := range []string{assigned.ID, completed.ID, cancelled.ID} {
		_, err := f.svc.AcceptJob(ctx, laborer, id)
		require.NoError(t, err)
	}
	_, err := f.svc.CompleteJob(ctx, laborer, completed.ID)
	require.NoError(t, err)
	_, err = f.svc.CancelJob(ctx, laborer, cancelled.ID, "rain")
	require.NoError(t, err)

	cd, err := f.svc.ClientDashboard(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, ClientDashboard{TotalJobs: 4, ActiveJobs: 2, CompletedJobs: 1, CancelledJobs: 1}, *cd)

	ld, err := f.svc.LabourDashboard(ctx, laborer)
	require.NoError(t, err)
	assert.Equal(t, "300.00", ld.TotalEarnings.StringFixed(2))
	ld.TotalEarnings = decimal.Zero
	assert.Equal(t, LabourDashboard{AcceptedJobs: 3, ActiveJobs: 1, CompletedJobs: 1, CancelledJobs: 1, TotalEarnings: decimal.Zero}, *ld)

	_, err = f.svc.ClientDashboard(ctx, laborer)
	requireKind(t, err, domain.ErrForbidden)
	_, err = f.svc.LabourDashboard(ctx, client)
	requireKind(t, err, domain.ErrForbidden)
}

func TestUserStats(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	client := f.client(t)
	laborer := f.laborer(t, RegisterLabourInput{})

	f.store.SetUserStats(domain.UserStats{UserID: laborer.ID, AcceptedJobs: 6, CompletedJobs: 2, CancelledJobs: 4})

	view, err := f.svc.LabourStats(ctx, laborer.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, view.Stats.AcceptedJobs)
	assert.Equal(t, domain.DefaultReliabilityScore, view.ReliabilityScore)
	assert.Equal(t, scoring.ReliabilityScore(scoring.Stats{CompletedJobs: 2, CancelledJobs: 4}), view.StatsReliabilityScore)

	empty, err := f.svc.ClientStats(ctx, client.ID)
	require.NoError(t, err)
	assert.Zero(t, empty.Stats.PostedJobs)

	_, err = f.svc.ClientStats(ctx, laborer.ID)
	requireKind(t, err, domain.ErrNotFound)
	_, err = f.svc.LabourStats(ctx, "missing")
	requireKind(t, err, domain.ErrNotFound)
}
