package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	market "github.com/cuongbtq/labour-market/internal/domain"
	"github.com/cuongbtq/labour-market/internal/worker/domain"
	"github.com/cuongbtq/labour-market/shared/postgresql"
)

// Storage handles all database operations for the worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// ApplyEvent appends event to the audit log and bumps the counters in
// deltas, all in one transaction. It returns false without touching the
// counters when the event was already applied.
func (s *Storage) ApplyEvent(ctx context.Context, event market.JobEvent, deltas []domain.StatsDelta) (bool, error) {
	applied := false

	err := postgresql.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO job_events (event_id, type, job_id, actor_id, client_id, laborer_id, occurred_at)
			VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
			ON CONFLICT (event_id) DO NOTHING
		`, event.EventID, string(event.Type), event.JobID, event.ActorID, event.ClientID, event.LaborerID, event.OccurredAt)
		if err != nil {
			return fmt.Errorf("failed to record event: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to record event: %w", err)
		}
		if n == 0 {
			return nil
		}

		for _, d := range deltas {
			if d.UserID == "" {
				continue
			}
			if err := bumpStats(ctx, tx, d, event); err != nil {
				return err
			}
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if !applied {
		s.logger.Debug("Event already applied",
			slog.String("event_id", event.EventID),
			slog.String("type", string(event.Type)),
		)
	}
	return applied, nil
}

func bumpStats(ctx context.Context, tx *sqlx.Tx, d domain.StatsDelta, event market.JobEvent) error {
	query := `
		INSERT INTO user_stats (user_id, posted_jobs, accepted_jobs, completed_jobs, cancelled_jobs, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			posted_jobs    = user_stats.posted_jobs + EXCLUDED.posted_jobs,
			accepted_jobs  = user_stats.accepted_jobs + EXCLUDED.accepted_jobs,
			completed_jobs = user_stats.completed_jobs + EXCLUDED.completed_jobs,
			cancelled_jobs = user_stats.cancelled_jobs + EXCLUDED.cancelled_jobs,
			updated_at     = GREATEST(user_stats.updated_at, EXCLUDED.updated_at)
	`

	if _, err := tx.ExecContext(ctx, query,
		d.UserID, d.Posted, d.Accepted, d.Completed, d.Cancelled, event.OccurredAt,
	); err != nil {
		return fmt.Errorf("failed to update stats for %s: %w", d.UserID, err)
	}
	return nil
}
