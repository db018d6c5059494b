package scoring

import (
	"math"

	"github.com/cuongbtq/labour-market/internal/domain"
)

const (
	completedJobReward = 10
	cancelledJobCost   = 15
	ratingScale        = 10
)

// Stats are the job counts the stats-based reliability score is derived from
type Stats struct {
	CompletedJobs int
	CancelledJobs int
}

// StatsFrom extracts the reliability inputs from a stats projection
func StatsFrom(s *domain.UserStats) Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{CompletedJobs: s.CompletedJobs, CancelledJobs: s.CancelledJobs}
}

// ReliabilityScore derives a reputation score in [0,100] from job history
func ReliabilityScore(stats Stats) int {
	score := domain.DefaultReliabilityScore
	score += stats.CompletedJobs * completedJobReward
	score -= stats.CancelledJobs * cancelledJobCost

	return Clamp(score)
}

// ApplyRating folds a 1-5 rating into the stored score: (current + rating*10) / 2,
// rounded half away from zero and kept within [0,100].
func ApplyRating(current, rating int) int {
	next := math.Round(float64(current+rating*ratingScale) / 2)
	return Clamp(int(next))
}

// Clamp bounds a reliability score to [0,100]
func Clamp(score int) int {
	if score < domain.MinReliabilityScore {
		return domain.MinReliabilityScore
	}
	if score > domain.MaxReliabilityScore {
		return domain.MaxReliabilityScore
	}
	return score
}
