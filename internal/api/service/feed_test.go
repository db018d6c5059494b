package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongbtq/labour-market/internal/domain"
)

func feedIDs(items []FeedItem) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.Job.ID
	}
	return ids
}

func TestFeed_StationFilter(t *testing.T) {
	tests := []struct {
		name   string
		strict bool
	}{
		{name: "strict containment", strict: true},
		{name: "any overlap", strict: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{StrictStationFilter: tt.strict})
			ctx := context.Background()
			client := f.client(t)
			laborer := f.laborer(t, RegisterLabourInput{
				StationRange: &domain.StationRange{From: "vasai", To: "nalasopara"},
			})

			wide := f.job(t, client, "virar", "vasai", 600)
			inside := f.job(t, client, "vasai", "nalasopara", 300)
			outside := f.job(t, client, "virar", "virar", 900)
			rejected := f.job(t, client, "vasai", "vasai", 800)
			require.NoError(t, f.svc.RejectJob(ctx, laborer, rejected.ID))

			items, err := f.svc.Feed(ctx, laborer)
			require.NoError(t, err)

			if tt.strict {
				assert.Equal(t, []string{inside.ID}, feedIDs(items))
				return
			}
			assert.Equal(t, []string{wide.ID, inside.ID}, feedIDs(items))
			assert.InDelta(t, 2.0/3.0, items[0].Match, 1e-9)
			assert.InDelta(t, 1.0, items[1].Match, 1e-9)
			assert.NotContains(t, feedIDs(items), outside.ID)
		})
	}
}

func TestFeed_RankingAndSkills(t *testing.T) {
	f := newFixture(t, Options{StrictStationFilter: true, FeedLimit: 2})
	ctx := context.Background()
	client := f.client(t)
	laborer := f.laborer(t, RegisterLabourInput{Skills: []string{"loading"}, ExpectedRate: 600})

	old := f.job(t, client, "vasai", "virar", 500)
	f.advance(2 * time.Hour)
	fresh := f.job(t, client, "vasai", "virar", 500)
	_, err := f.svc.CreateJob(ctx, client, CreateJobInput{
		Title: "Paint", SkillRequired: "painting", Budget: decimal.NewFromInt(5000),
		StationRange: domain.StationRange{From: "vasai", To: "virar"},
	})
	require.NoError(t, err)
	f.job(t, client, "vasai", "virar", 100)

	items, err := f.svc.Feed(ctx, laborer)
	require.NoError(t, err)

	require.Equal(t, []string{fresh.ID, old.ID}, feedIDs(items))
	assert.InDelta(t, 1040, items[0].Score, 1e-9)
	assert.InDelta(t, 1020, items[1].Score, 1e-9)
	assert.Zero(t, items[0].Match)
}

func TestFeed_HidesOwnAndTakenJobs(t *testing.T) {
	f := newFixture(t, Options{StrictStationFilter: true})
	ctx := context.Background()
	client := f.client(t)
	first := f.laborer(t, RegisterLabourInput{})
	second := f.laborer(t, RegisterLabourInput{})
	job := f.job(t, client, "vasai", "virar", 500)

	_, err := f.svc.AcceptJob(ctx, first, job.ID)
	require.NoError(t, err)

	items, err := f.svc.Feed(ctx, second)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = f.svc.Feed(ctx, client)
	requireKind(t, err, domain.ErrForbidden)
}
