package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/opsfield/fieldserve/internal/api/domain"
	"github.com/opsfield/fieldserve/internal/api/model"
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

func (s *Storage) CreateJob(ctx context.Context, job *model.Job) error {
	query := `
		INSERT INTO jobs (
			job_id, tenant_id, customer_id, job_site_id, title,
			status, priority, start_time, end_time, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		job.JobID,
		job.TenantID,
		job.CustomerID,
		job.JobSiteID,
		job.Title,
		job.Status,
		job.Priority,
		job.StartTime,
		job.EndTime,
		job.CreatedAt,
		job.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

func (s *Storage) GetJob(ctx context.Context, tenantID, jobID string) (*model.Job, error) {
	var job model.Job
	query := `
		SELECT
			job_id, tenant_id, customer_id, job_site_id, title,
			status, priority, start_time, end_time, created_at, updated_at
		FROM jobs
		WHERE tenant_id = $1 AND job_id = $2
	`

	err := s.db.GetContext(ctx, &job, query, tenantID, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

type JobFilter struct {
	Status     string
	CustomerID string
	JobSiteID  string

	// Effective-identity scoping: restrict to jobs the resource is assigned to.
	AssignedWorkerID     string
	AssignedContractorID string

	PageSize int
	Cursor   *JobCursor
}

type JobCursor struct {
	CreatedAt time.Time
	JobID     string
}

func (s *Storage) ListJobs(ctx context.Context, tenantID string, filter JobFilter) ([]model.Job, error) {
	query := `
		SELECT
			job_id, tenant_id, customer_id, job_site_id, title,
			status, priority, start_time, end_time, created_at, updated_at
		FROM jobs
		WHERE tenant_id = $1
	`
	args := []interface{}{tenantID}
	argIdx := 2

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	if filter.CustomerID != "" {
		query += fmt.Sprintf(" AND customer_id = $%d", argIdx)
		args = append(args, filter.CustomerID)
		argIdx++
	}

	if filter.JobSiteID != "" {
		query += fmt.Sprintf(" AND job_site_id = $%d", argIdx)
		args = append(args, filter.JobSiteID)
		argIdx++
	}

	if filter.AssignedWorkerID != "" {
		query += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM job_assignments a WHERE a.job_id = jobs.job_id AND a.worker_id = $%d)", argIdx)
		args = append(args, filter.AssignedWorkerID)
		argIdx++
	}

	if filter.AssignedContractorID != "" {
		query += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM job_assignments a WHERE a.job_id = jobs.job_id AND a.contractor_id = $%d)", argIdx)
		args = append(args, filter.AssignedContractorID)
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (created_at, job_id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.JobID)
		argIdx += 2
	}

	// Order by created_at DESC, job_id DESC for consistent pagination
	query += " ORDER BY created_at DESC, job_id DESC"

	// Fetch one extra to determine if there are more results
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	var jobs []model.Job
	err := s.db.SelectContext(ctx, &jobs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, nil
}

// JobPatch carries the optional fields of a partial job update. Nil fields
// are left untouched.
type JobPatch struct {
	CustomerID *string
	JobSiteID  *string
	Title      *string
	Priority   *string
	StartTime  *time.Time
	EndTime    *time.Time
}

func (s *Storage) UpdateJob(ctx context.Context, tenantID, jobID string, patch JobPatch) (*model.Job, error) {
	query := "UPDATE jobs SET updated_at = $1"
	args := []interface{}{time.Now()}
	argIdx := 2

	set := func(column string, value interface{}) {
		query += fmt.Sprintf(", %s = $%d", column, argIdx)
		args = append(args, value)
		argIdx++
	}

	if patch.CustomerID != nil {
		set("customer_id", *patch.CustomerID)
	}
	if patch.JobSiteID != nil {
		set("job_site_id", *patch.JobSiteID)
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Priority != nil {
		set("priority", *patch.Priority)
	}
	if patch.StartTime != nil {
		set("start_time", *patch.StartTime)
	}
	if patch.EndTime != nil {
		set("end_time", *patch.EndTime)
	}

	query += fmt.Sprintf(" WHERE tenant_id = $%d AND job_id = $%d", argIdx, argIdx+1)
	args = append(args, tenantID, jobID)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return nil, domain.ErrJobNotFound
	}

	return s.GetJob(ctx, tenantID, jobID)
}

// ApplyTransition writes the status computed by the transition state machine,
// and the time window only when the plan changed it. Callers must not invoke
// it for a no-op plan.
func (s *Storage) ApplyTransition(ctx context.Context, tenantID, jobID string, plan domain.TransitionPlan) (*model.Job, error) {
	query := `
		UPDATE jobs
		SET status = $1, updated_at = $2
		WHERE tenant_id = $3 AND job_id = $4
	`
	args := []interface{}{string(plan.Status), time.Now(), tenantID, jobID}

	if plan.SetTimes {
		query = `
			UPDATE jobs
			SET status = $1, start_time = $2, end_time = $3, updated_at = $4
			WHERE tenant_id = $5 AND job_id = $6
		`
		args = []interface{}{string(plan.Status), plan.StartTime, plan.EndTime, time.Now(), tenantID, jobID}
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to apply transition: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read transition result: %w", err)
	}
	if rows == 0 {
		return nil, domain.ErrJobNotFound
	}

	return s.GetJob(ctx, tenantID, jobID)
}

func (s *Storage) DeleteJob(ctx context.Context, tenantID, jobID string) error {
	query := `DELETE FROM jobs WHERE tenant_id = $1 AND job_id = $2`

	result, err := s.db.ExecContext(ctx, query, tenantID, jobID)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if rows == 0 {
		return domain.ErrJobNotFound
	}

	return nil
}
