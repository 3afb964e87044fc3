package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/opsfield/fieldserve/internal/auth"
	"github.com/opsfield/fieldserve/shared/rabbitmq"
)

// Recorder emits audit events for completed mutations.
type Recorder interface {
	Record(ctx context.Context, rc *auth.RequestContext, action, entityType, entityID string, detail map[string]any)
}

// BrokerRecorder publishes audit events to the message broker. Publishing is
// best-effort: a failure is logged and never fails the mutation it describes.
type BrokerRecorder struct {
	logger *slog.Logger
	client *rabbitmq.Client
}

func NewBrokerRecorder(logger *slog.Logger, client *rabbitmq.Client) *BrokerRecorder {
	return &BrokerRecorder{
		logger: logger,
		client: client,
	}
}

func (r *BrokerRecorder) Record(ctx context.Context, rc *auth.RequestContext, action, entityType, entityID string, detail map[string]any) {
	event := Event{
		EventID:    uuid.New().String(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		OccurredAt: time.Now(),
	}
	event.ApplyContext(rc)

	body, err := json.Marshal(&event)
	if err != nil {
		r.logger.Error("Failed to encode audit event",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := r.client.PublishWithRetry(ctx, body, "application/json"); err != nil {
		r.logger.Error("Failed to publish audit event",
			slog.String("action", action),
			slog.String("entity_id", entityID),
			slog.String("error", err.Error()),
		)
	}
}

// NopRecorder discards events. Used in tests and when the broker is disabled.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, *auth.RequestContext, string, string, string, map[string]any) {
}
