package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opsfield/fieldserve/internal/api/domain"
	"github.com/opsfield/fieldserve/internal/api/dto"
	"github.com/opsfield/fieldserve/internal/audit"
)

// ListAssignments handles GET /api/v1/jobs/:job_id/assignments
func (h *JobHandler) ListAssignments(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	if _, err := h.store.GetJob(c.Request.Context(), rc.TenantID, jobID); err != nil {
		h.respondStorageError(c, err, "Failed to get job")
		return
	}

	assignments, err := h.store.ListAssignments(c.Request.Context(), rc.TenantID, jobID)
	if err != nil {
		h.respondStorageError(c, err, "Failed to list assignments")
		return
	}

	out := make([]dto.AssignmentDTO, len(assignments))
	for i, a := range assignments {
		if a.WorkerID != nil {
			out[i].WorkerID = *a.WorkerID
		}
		if a.ContractorID != nil {
			out[i].ContractorID = *a.ContractorID
		}
		out[i].Status = a.Status
	}

	c.JSON(http.StatusOK, dto.ListAssignmentsResponse{Assignments: out})
}

// ReplaceAssignments handles PUT /api/v1/jobs/:job_id/assignments
// The submitted set replaces the job's assignments wholesale in one
// transaction, so the stored set is always exactly what was submitted.
func (h *JobHandler) ReplaceAssignments(c *gin.Context) {
	rc, ok := requireMutator(c)
	if !ok {
		return
	}
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	var req dto.ReplaceAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	refs := make([]domain.AssignmentRef, len(req.Assignments))
	for i, a := range req.Assignments {
		refs[i] = domain.AssignmentRef{
			WorkerID:     a.WorkerID,
			ContractorID: a.ContractorID,
		}
	}

	if err := domain.ValidateAssignmentSet(refs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.ReplaceAssignments(c.Request.Context(), rc.TenantID, jobID, refs); err != nil {
		h.respondStorageError(c, err, "Failed to replace assignments")
		return
	}

	h.recorder.Record(c.Request.Context(), rc, audit.ActionAssignmentsReplaced, "job", jobID, map[string]any{
		"count": len(refs),
	})

	c.Status(http.StatusNoContent)
}

// AttachChecklist handles POST /api/v1/jobs/:job_id/checklists
// Copies the template's items onto the job. Attaching the same template
// twice creates two independent instances.
func (h *JobHandler) AttachChecklist(c *gin.Context) {
	rc, ok := requireMutator(c)
	if !ok {
		return
	}
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	var req dto.AttachChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	checklist, err := h.store.AttachChecklist(c.Request.Context(), rc.TenantID, jobID, req.TemplateID)
	if err != nil {
		h.respondStorageError(c, err, "Failed to attach checklist")
		return
	}

	h.recorder.Record(c.Request.Context(), rc, audit.ActionChecklistAttached, "job", jobID, map[string]any{
		"template_id": req.TemplateID,
	})

	out := dto.JobChecklistDTO{
		ChecklistID: checklist.ChecklistID,
		TemplateID:  checklist.TemplateID,
		Name:        checklist.Name,
		CreatedAt:   checklist.CreatedAt.Format(time.RFC3339),
	}
	if err := json.Unmarshal(checklist.Items, &out.Items); err != nil {
		h.logger.Warn("Checklist items are not valid JSON",
			slog.String("checklist_id", checklist.ChecklistID),
			slog.String("error", err.Error()),
		)
	}

	c.JSON(http.StatusCreated, out)
}

// ListChecklists handles GET /api/v1/jobs/:job_id/checklists
func (h *JobHandler) ListChecklists(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	if _, err := h.store.GetJob(c.Request.Context(), rc.TenantID, jobID); err != nil {
		h.respondStorageError(c, err, "Failed to get job")
		return
	}

	checklists, err := h.store.ListChecklists(c.Request.Context(), rc.TenantID, jobID)
	if err != nil {
		h.respondStorageError(c, err, "Failed to list checklists")
		return
	}

	out := make([]dto.JobChecklistDTO, len(checklists))
	for i, cl := range checklists {
		out[i] = dto.JobChecklistDTO{
			ChecklistID: cl.ChecklistID,
			TemplateID:  cl.TemplateID,
			Name:        cl.Name,
			CreatedAt:   cl.CreatedAt.Format(time.RFC3339),
		}
		if err := json.Unmarshal(cl.Items, &out[i].Items); err != nil {
			h.logger.Warn("Checklist items are not valid JSON",
				slog.String("checklist_id", cl.ChecklistID),
				slog.String("error", err.Error()),
			)
		}
	}

	c.JSON(http.StatusOK, gin.H{"checklists": out})
}
