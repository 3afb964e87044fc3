package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/opsfield/fieldserve/internal/audit"
)

// spawnPool starts N goroutines draining eventsChan.
func (w *Worker) spawnPool(ctx context.Context) {
	w.logger.Info("Spawning audit worker pool",
		slog.Int("concurrency", w.concurrency),
	)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.poolLoop(ctx, i)
	}
}

// poolLoop is the processing loop for one pool goroutine.
func (w *Worker) poolLoop(ctx context.Context, workerNum int) {
	defer w.wg.Done()

	name := fmt.Sprintf("%s-%d", w.consumerID, workerNum)

	for {
		select {
		case <-w.stopChan:
			w.logger.Info("Pool goroutine stopping - stopChan closed",
				slog.String("worker_name", name),
			)
			return

		case <-ctx.Done():
			w.logger.Info("Pool goroutine stopping - context canceled",
				slog.String("worker_name", name),
			)
			return

		case ev, ok := <-w.eventsChan:
			if !ok {
				return
			}

			err := w.processEvent(ctx, ev)

			channel := w.rabbitClient.GetChannel()
			if channel == nil {
				w.logger.Error("Cannot ack: rabbitmq channel is nil",
					slog.String("worker_name", name),
				)
				continue
			}

			if err == nil {
				if ackErr := channel.Ack(ev.DeliveryTag, false); ackErr != nil {
					w.logger.Error("Failed to ACK audit event",
						slog.String("error", ackErr.Error()),
					)
				}
				continue
			}

			// Transient failures requeue; anything else is dropped so a
			// poison message cannot wedge the queue.
			var retryable *audit.RetryableError
			requeue := errors.As(err, &retryable)

			w.logger.Error("Failed to process audit event",
				slog.String("worker_name", name),
				slog.Bool("requeue", requeue),
				slog.String("error", err.Error()),
			)

			if nackErr := channel.Nack(ev.DeliveryTag, false, requeue); nackErr != nil {
				w.logger.Error("Failed to NACK audit event",
					slog.String("error", nackErr.Error()),
				)
			}
		}
	}
}
