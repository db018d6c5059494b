package worker

import (
	"context"
	"fmt"
	"log/slog"

	market "github.com/cuongbtq/labour-market/internal/domain"
	"github.com/cuongbtq/labour-market/internal/worker/domain"
)

// EventStore persists the audit log and the user_stats projection
type EventStore interface {
	ApplyEvent(ctx context.Context, event market.JobEvent, deltas []domain.StatsDelta) (bool, error)
}

// processEvent folds one lifecycle event into the projection. Redelivered
// events are recognised by id and acknowledged without a second update.
func (w *Worker) processEvent(ctx context.Context, msg *domain.EventMessage) error {
	event := msg.Event
	w.logger.Info("Processing event",
		slog.String("event_id", event.EventID),
		slog.String("type", string(event.Type)),
		slog.String("job_id", event.JobID),
		slog.String("worker_id", w.workerID),
	)

	deltas, err := domain.DeltasFor(event)
	if err != nil {
		return err
	}

	eventCtx, cancel := context.WithTimeout(ctx, w.eventTimeout)
	defer cancel()

	applied, err := w.store.ApplyEvent(eventCtx, event, deltas)
	if err != nil {
		// Database errors are treated as transient
		return domain.NewRetryableError(fmt.Errorf("apply event %s: %w", event.EventID, err))
	}

	if !applied {
		w.logger.Info("Duplicate event skipped",
			slog.String("event_id", event.EventID),
		)
		return nil
	}

	w.logger.Info("Event applied",
		slog.String("event_id", event.EventID),
		slog.Int("stats_updates", len(deltas)),
	)
	return nil
}
