package audit

import "errors"

var (
	// ErrMissingEventID is returned for an event without an id
	ErrMissingEventID = errors.New("audit event missing event_id")

	// ErrMissingTenant is returned for an event without a tenant id
	ErrMissingTenant = errors.New("audit event missing tenant_id")

	// ErrMissingActor is returned for an event without a real actor id
	ErrMissingActor = errors.New("audit event missing actor_id")

	// ErrMissingAction is returned for an event without an action name
	ErrMissingAction = errors.New("audit event missing action")
)

// RetryableError wraps transient persistence errors that should trigger a requeue
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
