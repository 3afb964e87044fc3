package dto

type KanbanSettingsResponse struct {
	Columns map[string]string `json:"columns"`
}

type UpdateColumnLabelsRequest struct {
	Columns map[string]string `json:"columns" binding:"required"`
}
