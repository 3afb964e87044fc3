package model

import "time"

// Job is a unit of schedulable field work, owned by a tenant.
type Job struct {
	JobID      string     `db:"job_id"`
	TenantID   string     `db:"tenant_id"`
	CustomerID string     `db:"customer_id"`
	JobSiteID  *string    `db:"job_site_id"`
	Title      string     `db:"title"`
	Status     string     `db:"status"`
	Priority   string     `db:"priority"`
	StartTime  *time.Time `db:"start_time"`
	EndTime    *time.Time `db:"end_time"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

// JobAssignment links a job to exactly one worker or contractor.
type JobAssignment struct {
	AssignmentID string    `db:"assignment_id"`
	JobID        string    `db:"job_id"`
	TenantID     string    `db:"tenant_id"`
	WorkerID     *string   `db:"worker_id"`
	ContractorID *string   `db:"contractor_id"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
}

// JobChecklist is a job-owned snapshot of a checklist template. Later edits
// to the template do not reach rows already attached.
type JobChecklist struct {
	ChecklistID string    `db:"checklist_id"`
	JobID       string    `db:"job_id"`
	TenantID    string    `db:"tenant_id"`
	TemplateID  string    `db:"template_id"`
	Name        string    `db:"name"`
	Items       []byte    `db:"items"`
	CreatedAt   time.Time `db:"created_at"`
}

// ChecklistTemplate is a reusable named list of checkable items.
type ChecklistTemplate struct {
	TemplateID string `db:"template_id"`
	TenantID   string `db:"tenant_id"`
	Name       string `db:"name"`
	Items      []byte `db:"items"`
}

// TenantSettings holds per-tenant board configuration.
type TenantSettings struct {
	TenantID      string `db:"tenant_id"`
	KanbanColumns []byte `db:"kanban_columns"`
}

// AuditLog records who did what. ActorID is always the real authenticated
// user; an active impersonation overlay is recorded separately.
type AuditLog struct {
	AuditID          string    `db:"audit_id"`
	TenantID         string    `db:"tenant_id"`
	ActorID          string    `db:"actor_id"`
	ImpersonatedID   *string   `db:"impersonated_id"`
	ImpersonatedType *string   `db:"impersonated_type"`
	Action           string    `db:"action"`
	EntityType       string    `db:"entity_type"`
	EntityID         string    `db:"entity_id"`
	Detail           []byte    `db:"detail"`
	CreatedAt        time.Time `db:"created_at"`
}
