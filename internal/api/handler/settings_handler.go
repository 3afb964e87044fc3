package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opsfield/fieldserve/internal/api/domain"
	"github.com/opsfield/fieldserve/internal/api/dto"
	"github.com/opsfield/fieldserve/internal/audit"
)

// GetKanbanSettings handles GET /api/v1/settings/kanban
func (h *SettingsHandler) GetKanbanSettings(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}

	labels, err := h.store.GetColumnLabels(c.Request.Context(), rc.TenantID)
	if err != nil {
		h.logger.Error("Failed to get column labels", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get settings"})
		return
	}

	c.JSON(http.StatusOK, dto.KanbanSettingsResponse{Columns: labels})
}

// UpdateColumnLabels handles PATCH /api/v1/settings/kanban
// Merges a partial label map into the tenant's stored map. Only the five
// fixed column keys are accepted; labels change, semantics do not.
func (h *SettingsHandler) UpdateColumnLabels(c *gin.Context) {
	rc, ok := requireMutator(c)
	if !ok {
		return
	}

	var req dto.UpdateColumnLabelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(req.Columns) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "columns map must not be empty"})
		return
	}

	for key, label := range req.Columns {
		if !domain.ColumnKey(key).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown column key: " + key})
			return
		}
		if label == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "label for column " + key + " must not be empty"})
			return
		}
	}

	if err := h.store.MergeColumnLabels(c.Request.Context(), rc.TenantID, req.Columns); err != nil {
		h.logger.Error("Failed to merge column labels", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	h.recorder.Record(c.Request.Context(), rc, audit.ActionColumnsRelabeled, "tenant_settings", rc.TenantID, map[string]any{
		"columns": req.Columns,
	})

	labels, err := h.store.GetColumnLabels(c.Request.Context(), rc.TenantID)
	if err != nil {
		h.logger.Error("Failed to reload column labels", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload settings"})
		return
	}

	c.JSON(http.StatusOK, dto.KanbanSettingsResponse{Columns: labels})
}
