package service

import (
	"context"
	"sort"

	"github.com/cuongbtq/labour-market/internal/api/storage"
	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/cuongbtq/labour-market/internal/scoring"
)

// FeedItem is an open job ranked for one laborer
type FeedItem struct {
	Job   domain.Job
	Score float64
	Match float64 // station overlap strength, 0 when the laborer has no range
}

// Feed returns the open jobs a laborer may take, best first. Jobs they
// posted or rejected are hidden; a declared skill set and station range
// narrow the list further.
func (s *Service) Feed(ctx context.Context, actor domain.Actor) ([]FeedItem, error) {
	if err := requireRole(actor, domain.RoleLaborer); err != nil {
		return nil, err
	}

	laborer, err := s.store.GetUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	jobs, err := s.store.ListOpenJobs(ctx, storage.OpenJobFilter{
		ExcludeCreator:    actor.ID,
		ExcludeRejectedBy: actor.ID,
		Skills:            normalizeSkills(laborer.Skills),
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	items := make([]FeedItem, 0, len(jobs))
	for i := range jobs {
		job := &jobs[i]

		var match float64
		if r := laborer.StationRange; r != nil {
			match = s.stations.OverlapStrength(job.StationRange.From, job.StationRange.To, r.From, r.To)
			if s.opts.StrictStationFilter {
				if !s.stations.Contains(job.StationRange.From, job.StationRange.To, r.From, r.To) {
					continue
				}
			} else if match <= 0 {
				continue
			}
		}

		items = append(items, FeedItem{
			Job:   *job,
			Score: scoring.JobScore(job, laborer.ExpectedRate, now),
			Match: match,
		})
	}

	sort.SliceStable(items, func(a, b int) bool {
		if items[a].Score != items[b].Score {
			return items[a].Score > items[b].Score
		}
		if items[a].Match != items[b].Match {
			return items[a].Match > items[b].Match
		}
		return items[a].Job.CreatedAt.After(items[b].Job.CreatedAt)
	})

	if s.opts.FeedLimit > 0 && len(items) > s.opts.FeedLimit {
		items = items[:s.opts.FeedLimit]
	}
	return items, nil
}
