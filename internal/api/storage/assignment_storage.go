package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opsfield/fieldserve/internal/api/domain"
	"github.com/opsfield/fieldserve/internal/api/model"
)

const assignmentStatusActive = "active"

func (s *Storage) ListAssignments(ctx context.Context, tenantID, jobID string) ([]model.JobAssignment, error) {
	query := `
		SELECT assignment_id, job_id, tenant_id, worker_id, contractor_id, status, created_at
		FROM job_assignments
		WHERE tenant_id = $1 AND job_id = $2
		ORDER BY created_at ASC, assignment_id ASC
	`

	var assignments []model.JobAssignment
	err := s.db.SelectContext(ctx, &assignments, query, tenantID, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	return assignments, nil
}

// ReplaceAssignments swaps a job's entire assignment set for refs in a single
// transaction, so readers never observe a partially applied set. The stored
// set afterwards is exactly what was submitted; last write wins across
// concurrent editors.
func (s *Storage) ReplaceAssignments(ctx context.Context, tenantID, jobID string, refs []domain.AssignmentRef) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM jobs WHERE tenant_id = $1 AND job_id = $2)`, tenantID, jobID)
	if err != nil {
		return fmt.Errorf("failed to check job: %w", err)
	}
	if !exists {
		return domain.ErrJobNotFound
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM job_assignments WHERE tenant_id = $1 AND job_id = $2`, tenantID, jobID)
	if err != nil {
		return fmt.Errorf("failed to clear assignments: %w", err)
	}

	insert := `
		INSERT INTO job_assignments (
			assignment_id, job_id, tenant_id, worker_id, contractor_id, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	now := time.Now()
	for _, ref := range refs {
		var workerID, contractorID *string
		if ref.WorkerID != "" {
			workerID = &ref.WorkerID
		}
		if ref.ContractorID != "" {
			contractorID = &ref.ContractorID
		}

		_, err = tx.ExecContext(ctx, insert, uuid.New().String(), jobID, tenantID, workerID, contractorID, assignmentStatusActive, now)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assignments: %w", err)
	}

	return nil
}
