package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opsfield/fieldserve/internal/api/domain"
	"github.com/opsfield/fieldserve/internal/api/model"
	"github.com/opsfield/fieldserve/internal/api/storage"
	"github.com/opsfield/fieldserve/internal/audit"
	"github.com/opsfield/fieldserve/internal/auth"
)

// Store is the persistence surface the handlers depend on. *storage.Storage
// satisfies it; tests substitute an in-memory fake.
type Store interface {
	CreateJob(ctx context.Context, job *model.Job) error
	GetJob(ctx context.Context, tenantID, jobID string) (*model.Job, error)
	ListJobs(ctx context.Context, tenantID string, filter storage.JobFilter) ([]model.Job, error)
	UpdateJob(ctx context.Context, tenantID, jobID string, patch storage.JobPatch) (*model.Job, error)
	ApplyTransition(ctx context.Context, tenantID, jobID string, plan domain.TransitionPlan) (*model.Job, error)
	DeleteJob(ctx context.Context, tenantID, jobID string) error

	ListAssignments(ctx context.Context, tenantID, jobID string) ([]model.JobAssignment, error)
	ReplaceAssignments(ctx context.Context, tenantID, jobID string, refs []domain.AssignmentRef) error

	AttachChecklist(ctx context.Context, tenantID, jobID, templateID string) (*model.JobChecklist, error)
	ListChecklists(ctx context.Context, tenantID, jobID string) ([]model.JobChecklist, error)

	GetColumnLabels(ctx context.Context, tenantID string) (map[string]string, error)
	MergeColumnLabels(ctx context.Context, tenantID string, labels map[string]string) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger   *slog.Logger
	Resolver *auth.Resolver
	Store    Store
	Recorder audit.Recorder
}

// JobHandler handles job, assignment, and checklist HTTP requests
type JobHandler struct {
	logger   *slog.Logger
	store    Store
	recorder audit.Recorder
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:   deps.Logger,
		store:    deps.Store,
		recorder: deps.Recorder,
	}
}

// SettingsHandler handles tenant board settings requests
type SettingsHandler struct {
	logger   *slog.Logger
	store    Store
	recorder audit.Recorder
}

// NewSettingsHandler creates a new SettingsHandler instance
func NewSettingsHandler(deps *Dependencies) *SettingsHandler {
	return &SettingsHandler{
		logger:   deps.Logger,
		store:    deps.Store,
		recorder: deps.Recorder,
	}
}

// requestContext pulls the resolved identity off the request. The auth
// middleware guarantees it is present on every authenticated route.
func requestContext(c *gin.Context) (*auth.RequestContext, bool) {
	rc := auth.FromContext(c.Request.Context())
	if rc == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing request identity"})
		return nil, false
	}
	return rc, true
}

// requireMutator aborts the request unless the real role may mutate records.
// Authorization is always checked against the real principal; an admin
// viewing the board as a worker keeps admin write access, and a worker
// supplying impersonation headers gains nothing.
func requireMutator(c *gin.Context) (*auth.RequestContext, bool) {
	rc, ok := requestContext(c)
	if !ok {
		return nil, false
	}
	if !rc.RealRole.CanMutate() {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
		return nil, false
	}
	return rc, true
}
