package dto

type AssignmentDTO struct {
	WorkerID     string `json:"worker_id,omitempty"`
	ContractorID string `json:"contractor_id,omitempty"`
	Status       string `json:"status,omitempty"`
}

// Assignments must be present even when empty: clearing the whole set is an
// explicit `"assignments": []`, never an omitted field.
type ReplaceAssignmentsRequest struct {
	Assignments []AssignmentDTO `json:"assignments" binding:"required"`
}

type ListAssignmentsResponse struct {
	Assignments []AssignmentDTO `json:"assignments"`
}

type AttachChecklistRequest struct {
	TemplateID string `json:"template_id" binding:"required"`
}

type JobChecklistDTO struct {
	ChecklistID string `json:"checklist_id"`
	TemplateID  string `json:"template_id"`
	Name        string `json:"name"`
	Items       any    `json:"items"`
	CreatedAt   string `json:"created_at"`
}
