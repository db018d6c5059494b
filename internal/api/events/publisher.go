// Package events publishes marketplace lifecycle events for the worker
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/labour-market/internal/domain"
	workerdomain "github.com/cuongbtq/labour-market/internal/worker/domain"
	"github.com/cuongbtq/labour-market/shared/rabbitmq"
)

const contentTypeJSON = "application/json"

// broker is the part of the rabbitmq client the publisher needs
type broker interface {
	PublishWithRetry(ctx context.Context, msg rabbitmq.Message) error
}

// RabbitPublisher sends events to the marketplace exchange
type RabbitPublisher struct {
	broker broker
}

func NewRabbitPublisher(b broker) *RabbitPublisher {
	return &RabbitPublisher{broker: b}
}

func (p *RabbitPublisher) Publish(ctx context.Context, event domain.JobEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.broker.PublishWithRetry(ctx, rabbitmq.Message{
		Body:        body,
		ContentType: contentTypeJSON,
		Type:        string(event.Type),
		MessageID:   event.EventID,
	})
}

// Projection is the in-process stand-in for the worker's event store
type Projection interface {
	ApplyEvent(ctx context.Context, event domain.JobEvent, deltas []workerdomain.StatsDelta) (bool, error)
}

// LocalPublisher is used with the in-memory store, where no broker or worker
// runs. It applies each event to the projection directly so user stats stay
// current.
type LocalPublisher struct {
	projection Projection
	logger     *slog.Logger
}

func NewLocalPublisher(projection Projection, logger *slog.Logger) *LocalPublisher {
	return &LocalPublisher{projection: projection, logger: logger}
}

func (p *LocalPublisher) Publish(ctx context.Context, event domain.JobEvent) error {
	deltas, err := workerdomain.DeltasFor(event)
	if err != nil {
		return err
	}

	applied, err := p.projection.ApplyEvent(ctx, event, deltas)
	if err != nil {
		return fmt.Errorf("failed to apply event: %w", err)
	}

	p.logger.Debug("Event applied locally",
		slog.String("event_type", string(event.Type)),
		slog.String("event_id", event.EventID),
		slog.String("job_id", event.JobID),
		slog.Bool("applied", applied),
	)
	return nil
}
