package domain

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	market "github.com/cuongbtq/labour-market/internal/domain"
)

// EventMessage is a decoded lifecycle event together with its delivery
type EventMessage struct {
	Event    market.JobEvent
	Delivery amqp.Delivery
}

// StatsDelta is the change one event makes to one user's counters
type StatsDelta struct {
	UserID    string
	Posted    int
	Accepted  int
	Completed int
	Cancelled int
}

// DeltasFor returns the counter changes caused by event. Events that do not
// touch job counts (ratings, payments, disputes) yield none.
func DeltasFor(event market.JobEvent) ([]StatsDelta, error) {
	switch event.Type {
	case market.EventJobCreated:
		return []StatsDelta{{UserID: event.ClientID, Posted: 1}}, nil
	case market.EventJobAccepted:
		return []StatsDelta{{UserID: event.LaborerID, Accepted: 1}}, nil
	case market.EventJobCompleted:
		return []StatsDelta{
			{UserID: event.ClientID, Completed: 1},
			{UserID: event.LaborerID, Completed: 1},
		}, nil
	case market.EventJobCancelled:
		return []StatsDelta{{UserID: event.ActorID, Cancelled: 1}}, nil
	case market.EventJobRated,
		market.EventPaymentProof,
		market.EventPaymentConfirmed,
		market.EventPaymentDisputed,
		market.EventDisputeRaised:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, event.Type)
	}
}
