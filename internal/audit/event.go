package audit

import (
	"time"

	"github.com/opsfield/fieldserve/internal/auth"
)

// Action names for audit events.
const (
	ActionJobCreated          = "job.created"
	ActionJobUpdated          = "job.updated"
	ActionJobDeleted          = "job.deleted"
	ActionJobTransitioned     = "job.transitioned"
	ActionAssignmentsReplaced = "job.assignments_replaced"
	ActionChecklistAttached   = "job.checklist_attached"
	ActionColumnsRelabeled    = "settings.columns_relabeled"
)

// Event is one audited mutation, published to the message broker and
// persisted by the audit service.
//
// ActorID is always the real authenticated user. When an admin acts while an
// impersonation overlay is active, the overlay is recorded in the
// Impersonated* fields so the log never attributes the action to the
// impersonated subject.
type Event struct {
	EventID          string         `json:"event_id"`
	TenantID         string         `json:"tenant_id"`
	ActorID          string         `json:"actor_id"`
	ImpersonatedID   string         `json:"impersonated_id,omitempty"`
	ImpersonatedType string         `json:"impersonated_type,omitempty"`
	Action           string         `json:"action"`
	EntityType       string         `json:"entity_type"`
	EntityID         string         `json:"entity_id"`
	Detail           map[string]any `json:"detail,omitempty"`
	OccurredAt       time.Time      `json:"occurred_at"`
}

// Validate checks the fields the audit service refuses to persist without.
func (e *Event) Validate() error {
	if e.EventID == "" {
		return ErrMissingEventID
	}
	if e.TenantID == "" {
		return ErrMissingTenant
	}
	if e.ActorID == "" {
		return ErrMissingActor
	}
	if e.Action == "" {
		return ErrMissingAction
	}
	return nil
}

// ApplyContext stamps the identity fields from a resolved request context.
func (e *Event) ApplyContext(rc *auth.RequestContext) {
	e.TenantID = rc.TenantID
	e.ActorID = rc.RealUserID
	if rc.Impersonating() {
		e.ImpersonatedID = rc.Impersonated.ID
		e.ImpersonatedType = string(rc.Impersonated.Type)
	}
}
