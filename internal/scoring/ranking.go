// Package scoring holds the pure scoring functions used to rank the job feed
// and to maintain user reliability.
package scoring

import (
	"time"

	"github.com/cuongbtq/labour-market/internal/domain"
)

const (
	budgetWeight        = 2.0
	freshnessPenalty    = 10.0 // per hour since the job was posted
	fullRateBonus       = 100.0
	partialRateBonus    = 40.0
	partialRateFraction = 0.7
)

// JobScore ranks a job for a laborer with the given expected rate (0 = none).
// The result is signed and unbounded: it keeps decreasing as the job ages, so
// it must be computed at feed time and never cached.
func JobScore(job *domain.Job, expectedRate float64, now time.Time) float64 {
	budget := job.Budget.InexactFloat64()
	score := budget * budgetWeight

	hoursOld := now.Sub(job.CreatedAt).Hours()
	score -= hoursOld * freshnessPenalty

	if expectedRate > 0 {
		switch {
		case budget >= expectedRate:
			score += fullRateBonus
		case budget >= expectedRate*partialRateFraction:
			score += partialRateBonus
		}
	}

	return score
}
