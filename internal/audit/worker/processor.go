package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/opsfield/fieldserve/internal/audit"
)

// processEvent decodes, validates, and persists one audit event.
func (w *Worker) processEvent(ctx context.Context, ev *eventDelivery) error {
	var event audit.Event
	if err := json.Unmarshal(ev.Body, &event); err != nil {
		return fmt.Errorf("malformed audit event: %w", err)
	}

	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid audit event: %w", err)
	}

	if err := w.storage.InsertAuditLog(ctx, &event); err != nil {
		// Database errors may be transient; requeue and retry.
		return audit.NewRetryableError(fmt.Errorf("failed to persist audit event: %w", err))
	}

	w.logger.Debug("Audit event persisted",
		slog.String("event_id", event.EventID),
		slog.String("tenant_id", event.TenantID),
		slog.String("action", event.Action),
	)

	return nil
}
