package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/opsfield/fieldserve/internal/api/domain"
)

// GetColumnLabels returns the tenant's column label map with defaults filled
// in for any key the tenant has not customized.
func (s *Storage) GetColumnLabels(ctx context.Context, tenantID string) (map[string]string, error) {
	labels := make(map[string]string, len(domain.DefaultColumnLabels))
	for key, label := range domain.DefaultColumnLabels {
		labels[string(key)] = label
	}

	var stored []byte
	query := `SELECT kanban_columns FROM tenant_settings WHERE tenant_id = $1`

	err := s.db.GetContext(ctx, &stored, query, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return labels, nil
		}
		return nil, fmt.Errorf("failed to get tenant settings: %w", err)
	}

	var overrides map[string]string
	if err := json.Unmarshal(stored, &overrides); err != nil {
		return nil, fmt.Errorf("failed to decode column labels: %w", err)
	}

	for key, label := range overrides {
		labels[key] = label
	}

	return labels, nil
}

// MergeColumnLabels merges a partial label map into the tenant's stored map.
// Keys not present in the submission are left untouched.
func (s *Storage) MergeColumnLabels(ctx context.Context, tenantID string, labels map[string]string) error {
	encoded, err := json.Marshal(labels)
	if err != nil {
		return fmt.Errorf("failed to encode column labels: %w", err)
	}

	query := `
		INSERT INTO tenant_settings (tenant_id, kanban_columns)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (tenant_id)
		DO UPDATE SET kanban_columns = tenant_settings.kanban_columns || EXCLUDED.kanban_columns
	`

	_, err = s.db.ExecContext(ctx, query, tenantID, encoded)
	if err != nil {
		return fmt.Errorf("failed to merge column labels: %w", err)
	}

	return nil
}
