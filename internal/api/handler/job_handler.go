package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/opsfield/fieldserve/internal/api/domain"
	"github.com/opsfield/fieldserve/internal/api/dto"
	"github.com/opsfield/fieldserve/internal/api/model"
	"github.com/opsfield/fieldserve/internal/api/storage"
	"github.com/opsfield/fieldserve/internal/audit"
	"github.com/opsfield/fieldserve/internal/auth"
)

// jobToDTO maps a job row to its API representation.
func jobToDTO(job *model.Job) dto.JobDTO {
	out := dto.JobDTO{
		JobID:      job.JobID,
		CustomerID: job.CustomerID,
		JobSiteID:  job.JobSiteID,
		Title:      job.Title,
		Status:     job.Status,
		Column:     string(domain.Status(job.Status).Column()),
		Priority:   job.Priority,
		CreatedAt:  job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  job.UpdatedAt.Format(time.RFC3339),
	}
	if job.StartTime != nil {
		s := job.StartTime.Format(time.RFC3339)
		out.StartTime = &s
	}
	if job.EndTime != nil {
		e := job.EndTime.Format(time.RFC3339)
		out.EndTime = &e
	}
	return out
}

// parseJobID validates the :job_id path parameter.
func parseJobID(c *gin.Context) (string, bool) {
	jobID := c.Param("job_id")
	if _, err := uuid.Parse(jobID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "job_id must be a valid UUID",
		})
		return "", false
	}
	return jobID, true
}

// respondStorageError maps storage-layer failures to HTTP responses.
func (h *JobHandler) respondStorageError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
	case errors.Is(err, domain.ErrTemplateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "checklist template not found"})
	default:
		h.logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

// validateTimeWindow rejects a window whose end does not follow its start.
func validateTimeWindow(start, end *time.Time) error {
	if start != nil && end != nil && !end.After(*start) {
		return domain.ErrInvalidTimeWindow
	}
	return nil
}

// CreateJob handles POST /api/v1/jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	rc, ok := requireMutator(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := validateTimeWindow(req.StartTime, req.EndTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}

	now := time.Now()
	job := model.Job{
		JobID:      uuid.New().String(),
		TenantID:   rc.TenantID,
		CustomerID: req.CustomerID,
		JobSiteID:  req.JobSiteID,
		Title:      req.Title,
		Status:     string(domain.StatusDraft),
		Priority:   priority,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.store.CreateJob(c.Request.Context(), &job); err != nil {
		h.respondStorageError(c, err, "Failed to create job")
		return
	}

	h.recorder.Record(c.Request.Context(), rc, audit.ActionJobCreated, "job", job.JobID, map[string]any{
		"title": job.Title,
	})

	c.JSON(http.StatusCreated, jobToDTO(&job))
}

// GetJob handles GET /api/v1/jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	job, err := h.store.GetJob(c.Request.Context(), rc.TenantID, jobID)
	if err != nil {
		h.respondStorageError(c, err, "Failed to get job")
		return
	}

	c.JSON(http.StatusOK, jobToDTO(job))
}

// ListJobs handles GET /api/v1/jobs
// Lists tenant jobs with optional filtering and keyset pagination. For
// non-staff callers the list is additionally scoped by the effective
// identity, so an admin impersonating a worker sees that worker's jobs.
func (h *JobHandler) ListJobs(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}

	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	if req.Status != "" && !domain.Status(req.Status).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status filter"})
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	cursor, err := DecodeJobCursor(req.Cursor)
	if err != nil {
		h.logger.Error("Invalid cursor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
		return
	}

	filter := storage.JobFilter{
		Status:     req.Status,
		CustomerID: req.CustomerID,
		JobSiteID:  req.JobSiteID,
		PageSize:   req.PageSize,
		Cursor:     cursor,
	}

	switch rc.EffectiveRole {
	case auth.RoleWorker:
		filter.AssignedWorkerID = rc.EffectiveUserID
	case auth.RoleContractor:
		filter.AssignedContractorID = rc.EffectiveUserID
	case auth.RoleCustomer:
		filter.CustomerID = rc.EffectiveUserID
	}

	jobs, err := h.store.ListJobs(c.Request.Context(), rc.TenantID, filter)
	if err != nil {
		h.respondStorageError(c, err, "Failed to list jobs")
		return
	}

	hasMore := len(jobs) > req.PageSize
	if hasMore {
		jobs = jobs[:req.PageSize]
	}

	out := make([]dto.JobDTO, len(jobs))
	for i := range jobs {
		out[i] = jobToDTO(&jobs[i])
	}

	var nextCursor string
	if hasMore {
		last := jobs[len(jobs)-1]
		nextCursor = EncodeJobCursor(&storage.JobCursor{
			CreatedAt: last.CreatedAt,
			JobID:     last.JobID,
		})
	}

	c.JSON(http.StatusOK, dto.ListJobsResponse{
		Jobs:       out,
		NextCursor: nextCursor,
	})
}

// UpdateJob handles PATCH /api/v1/jobs/:job_id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	rc, ok := requireMutator(c)
	if !ok {
		return
	}
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := validateTimeWindow(req.StartTime, req.EndTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := storage.JobPatch{
		CustomerID: req.CustomerID,
		JobSiteID:  req.JobSiteID,
		Title:      req.Title,
		Priority:   req.Priority,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}

	job, err := h.store.UpdateJob(c.Request.Context(), rc.TenantID, jobID, patch)
	if err != nil {
		h.respondStorageError(c, err, "Failed to update job")
		return
	}

	h.recorder.Record(c.Request.Context(), rc, audit.ActionJobUpdated, "job", jobID, nil)

	c.JSON(http.StatusOK, jobToDTO(job))
}

// TransitionJob handles POST /api/v1/jobs/:job_id/transition
// Moves a job to a board column. Dropping a job on its current column is
// idempotent and issues no write.
func (h *JobHandler) TransitionJob(c *gin.Context) {
	rc, ok := requireMutator(c)
	if !ok {
		return
	}
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	var req dto.TransitionJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	job, err := h.store.GetJob(c.Request.Context(), rc.TenantID, jobID)
	if err != nil {
		h.respondStorageError(c, err, "Failed to get job")
		return
	}

	plan, err := domain.PlanTransition(domain.Status(job.Status), job.StartTime, job.EndTime, domain.ColumnKey(req.Column), time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if plan.NoOp {
		h.logger.Debug("Transition is a no-op",
			slog.String("job_id", jobID),
			slog.String("column", req.Column),
		)
		c.JSON(http.StatusOK, jobToDTO(job))
		return
	}

	updated, err := h.store.ApplyTransition(c.Request.Context(), rc.TenantID, jobID, plan)
	if err != nil {
		h.respondStorageError(c, err, "Failed to apply transition")
		return
	}

	h.recorder.Record(c.Request.Context(), rc, audit.ActionJobTransitioned, "job", jobID, map[string]any{
		"from": job.Status,
		"to":   string(plan.Status),
	})

	c.JSON(http.StatusOK, jobToDTO(updated))
}

// DeleteJob handles DELETE /api/v1/jobs/:job_id
// Jobs are only ever deleted explicitly, never as a side effect.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	rc, ok := requireMutator(c)
	if !ok {
		return
	}
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	if err := h.store.DeleteJob(c.Request.Context(), rc.TenantID, jobID); err != nil {
		h.respondStorageError(c, err, "Failed to delete job")
		return
	}

	h.recorder.Record(c.Request.Context(), rc, audit.ActionJobDeleted, "job", jobID, nil)

	c.Status(http.StatusNoContent)
}
