package domain

import "errors"

var (
	// ErrJobNotFound is returned when a job does not exist within the caller's tenant
	ErrJobNotFound = errors.New("job not found")

	// ErrTemplateNotFound is returned when a checklist template does not exist within the caller's tenant
	ErrTemplateNotFound = errors.New("checklist template not found")

	// ErrUnknownColumn is returned for a transition target outside the five fixed columns
	ErrUnknownColumn = errors.New("unknown kanban column")

	// ErrEmptyAssignment is returned when an assignment names neither a worker nor a contractor
	ErrEmptyAssignment = errors.New("assignment must name a worker or a contractor")

	// ErrAmbiguousAssignment is returned when an assignment names both a worker and a contractor
	ErrAmbiguousAssignment = errors.New("assignment cannot name both a worker and a contractor")

	// ErrDuplicateAssignment is returned when a replace-all set assigns the same resource twice
	ErrDuplicateAssignment = errors.New("duplicate resource in assignment set")

	// ErrInvalidTimeWindow is returned when end_time is not after start_time
	ErrInvalidTimeWindow = errors.New("end time must be after start time")
)
