package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/opsfield/fieldserve/internal/audit/worker/storage"
	"github.com/opsfield/fieldserve/shared/rabbitmq"
)

// Config holds audit worker configuration
type Config struct {
	Logger        *slog.Logger
	Storage       *storage.Storage
	RabbitClient  *rabbitmq.Client
	Concurrency   int
	PrefetchCount int
	QueueName     string
}

// Worker consumes audit events from the broker and persists them.
type Worker struct {
	logger        *slog.Logger
	storage       *storage.Storage
	rabbitClient  *rabbitmq.Client
	concurrency   int
	prefetchCount int
	queueName     string
	consumerID    string

	wg         sync.WaitGroup
	stopChan   chan struct{}
	eventsChan chan *eventDelivery
}

// eventDelivery pairs a raw message body with its broker delivery tag.
type eventDelivery struct {
	Body        []byte
	DeliveryTag uint64
}

// NewWorker creates a new audit worker instance
func NewWorker(cfg *Config) *Worker {
	return &Worker{
		logger:        cfg.Logger,
		storage:       cfg.Storage,
		rabbitClient:  cfg.RabbitClient,
		concurrency:   cfg.Concurrency,
		prefetchCount: cfg.PrefetchCount,
		queueName:     cfg.QueueName,
		consumerID:    fmt.Sprintf("audit-worker-%s", uuid.New().String()[:8]),
		stopChan:      make(chan struct{}),
		eventsChan:    make(chan *eventDelivery),
	}
}

// Start begins consuming and persisting audit events. It blocks until ctx is
// canceled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting audit worker",
		slog.String("consumer_id", w.consumerID),
		slog.Int("concurrency", w.concurrency),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return fmt.Errorf("failed to set up consumer: %w", err)
	}

	w.spawnPool(ctx)
	w.dispatch(ctx, deliveries)

	return nil
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	w.logger.Info("Stopping audit worker...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Audit worker stopped")
}
