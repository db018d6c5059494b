package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cuongbtq/labour-market/internal/worker/domain"
)

// Broker is the message source the worker consumes from
type Broker interface {
	Consume(consumerTag string) (<-chan amqp.Delivery, error)
}

// Config holds worker configuration
type Config struct {
	Logger       *slog.Logger
	Broker       Broker
	Store        EventStore
	WorkerID     string
	Concurrency  int
	EventTimeout time.Duration
}

// Worker consumes lifecycle events and maintains the stats projection
type Worker struct {
	logger       *slog.Logger
	broker       Broker
	store        EventStore
	workerID     string
	concurrency  int
	eventTimeout time.Duration
	eventsChan   chan *domain.EventMessage
	wg           sync.WaitGroup
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Worker{
		logger:       cfg.Logger,
		broker:       cfg.Broker,
		store:        cfg.Store,
		workerID:     cfg.WorkerID,
		concurrency:  concurrency,
		eventTimeout: cfg.EventTimeout,
		eventsChan:   make(chan *domain.EventMessage, concurrency),
	}
}

// Start consumes until ctx is canceled, then waits for in-flight events
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("event_timeout", w.eventTimeout),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return fmt.Errorf("setup consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)
	w.startMessageDispatcher(ctx, deliveries)

	w.wg.Wait()
	w.logger.Info("Worker stopped")
	return nil
}
