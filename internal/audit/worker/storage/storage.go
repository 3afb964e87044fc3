package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/opsfield/fieldserve/internal/audit"
	"github.com/opsfield/fieldserve/shared/postgresql"
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
	}
}

// InsertAuditLog writes one audit event. Replays of the same event id are
// ignored so broker redeliveries cannot duplicate rows.
func (s *Storage) InsertAuditLog(ctx context.Context, event *audit.Event) error {
	var detail []byte
	if event.Detail != nil {
		encoded, err := json.Marshal(event.Detail)
		if err != nil {
			return fmt.Errorf("failed to encode event detail: %w", err)
		}
		detail = encoded
	}

	var impersonatedID, impersonatedType *string
	if event.ImpersonatedID != "" {
		impersonatedID = &event.ImpersonatedID
		impersonatedType = &event.ImpersonatedType
	}

	query := `
		INSERT INTO audit_logs (
			audit_id, tenant_id, actor_id, impersonated_id, impersonated_type,
			action, entity_type, entity_id, detail, created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10
		)
		ON CONFLICT (audit_id) DO NOTHING
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		event.EventID,
		event.TenantID,
		event.ActorID,
		impersonatedID,
		impersonatedType,
		event.Action,
		event.EntityType,
		event.EntityID,
		detail,
		event.OccurredAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}
