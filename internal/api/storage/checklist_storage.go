package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opsfield/fieldserve/internal/api/domain"
	"github.com/opsfield/fieldserve/internal/api/model"
)

func (s *Storage) GetChecklistTemplate(ctx context.Context, tenantID, templateID string) (*model.ChecklistTemplate, error) {
	var template model.ChecklistTemplate
	query := `
		SELECT template_id, tenant_id, name, items
		FROM checklist_templates
		WHERE tenant_id = $1 AND template_id = $2
	`

	err := s.db.GetContext(ctx, &template, query, tenantID, templateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get checklist template: %w", err)
	}

	return &template, nil
}

// AttachChecklist copies a template's item list into a new job-owned row.
// The copy is a snapshot taken at attach time; attaching the same template
// twice deliberately creates two independent instances.
func (s *Storage) AttachChecklist(ctx context.Context, tenantID, jobID, templateID string) (*model.JobChecklist, error) {
	if _, err := s.GetJob(ctx, tenantID, jobID); err != nil {
		return nil, err
	}

	template, err := s.GetChecklistTemplate(ctx, tenantID, templateID)
	if err != nil {
		return nil, err
	}

	checklist := &model.JobChecklist{
		ChecklistID: uuid.New().String(),
		JobID:       jobID,
		TenantID:    tenantID,
		TemplateID:  template.TemplateID,
		Name:        template.Name,
		Items:       template.Items,
		CreatedAt:   time.Now(),
	}

	query := `
		INSERT INTO job_checklists (
			checklist_id, job_id, tenant_id, template_id, name, items, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = s.db.ExecContext(
		ctx,
		query,
		checklist.ChecklistID,
		checklist.JobID,
		checklist.TenantID,
		checklist.TemplateID,
		checklist.Name,
		checklist.Items,
		checklist.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to attach checklist: %w", err)
	}

	return checklist, nil
}

func (s *Storage) ListChecklists(ctx context.Context, tenantID, jobID string) ([]model.JobChecklist, error) {
	query := `
		SELECT checklist_id, job_id, tenant_id, template_id, name, items, created_at
		FROM job_checklists
		WHERE tenant_id = $1 AND job_id = $2
		ORDER BY created_at ASC, checklist_id ASC
	`

	var checklists []model.JobChecklist
	err := s.db.SelectContext(ctx, &checklists, query, tenantID, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklists: %w", err)
	}

	return checklists, nil
}
