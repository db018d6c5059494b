package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cuongbtq/labour-market/internal/domain"
	"github.com/cuongbtq/labour-market/internal/lifecycle"
	"github.com/cuongbtq/labour-market/internal/scoring"
)

type RateJobInput struct {
	Rating  int
	Comment string
}

// RatingResult is the recorded rating and the reviewee's new score
type RatingResult struct {
	Rating           *domain.Rating
	ReliabilityScore int
}

// RateJob records the actor's one rating of the other participant of a
// completed job and folds it into the reviewee's reliability score.
func (s *Service) RateJob(ctx context.Context, actor domain.Actor, jobID string, in RateJobInput) (*RatingResult, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	reviewee, err := lifecycle.Rate(job, actor)
	if err != nil {
		return nil, err
	}

	rated, err := s.store.HasRated(ctx, jobID, actor.ID)
	if err != nil {
		return nil, err
	}
	if rated {
		return nil, domain.ErrAlreadyRated
	}

	if in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
		return nil, domain.Validationf("Rating must be between %d and %d", domain.MinRating, domain.MaxRating)
	}

	rating := &domain.Rating{
		ID:         s.newID(),
		JobID:      jobID,
		ReviewerID: actor.ID,
		RevieweeID: reviewee,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
		CreatedAt:  s.now(),
	}

	score, err := s.store.RecordRating(ctx, rating, func(current int) int {
		return scoring.ApplyRating(current, in.Rating)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Job rated",
		slog.String("job_id", jobID),
		slog.String("reviewer_id", actor.ID),
		slog.String("reviewee_id", reviewee),
		slog.Int("rating", in.Rating),
		slog.Int("reliability_score", score),
	)
	s.publish(ctx, domain.EventJobRated, job, actor.ID)

	return &RatingResult{Rating: rating, ReliabilityScore: score}, nil
}
