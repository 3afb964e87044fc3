package domain

import (
	"time"
)

// Status is the lifecycle state of a job. The set is fixed; tenants may rename
// the board columns but cannot add or remove states.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusPending    Status = "pending"
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ColumnKey identifies one of the five kanban board columns.
type ColumnKey string

const (
	ColumnBacklog     ColumnKey = "backlog"
	ColumnUnscheduled ColumnKey = "unscheduled"
	ColumnScheduled   ColumnKey = "scheduled"
	ColumnInProgress  ColumnKey = "in_progress"
	ColumnCompleted   ColumnKey = "completed"
)

// DefaultScheduleWindow is the time window applied when a job enters the
// Scheduled column without an explicit start/end.
const DefaultScheduleWindow = time.Hour

var columnStatus = map[ColumnKey]Status{
	ColumnBacklog:     StatusDraft,
	ColumnUnscheduled: StatusPending,
	ColumnScheduled:   StatusScheduled,
	ColumnInProgress:  StatusInProgress,
	ColumnCompleted:   StatusCompleted,
}

var statusColumn = map[Status]ColumnKey{
	StatusDraft:      ColumnBacklog,
	StatusPending:    ColumnUnscheduled,
	StatusScheduled:  ColumnScheduled,
	StatusInProgress: ColumnInProgress,
	StatusCompleted:  ColumnCompleted,
}

// DefaultColumnLabels are the display labels used before a tenant customizes them.
var DefaultColumnLabels = map[ColumnKey]string{
	ColumnBacklog:     "Backlog",
	ColumnUnscheduled: "Unscheduled",
	ColumnScheduled:   "Scheduled",
	ColumnInProgress:  "In Progress",
	ColumnCompleted:   "Completed",
}

// ColumnKeys lists the five board columns in lifecycle order.
func ColumnKeys() []ColumnKey {
	return []ColumnKey{ColumnBacklog, ColumnUnscheduled, ColumnScheduled, ColumnInProgress, ColumnCompleted}
}

// Valid reports whether c is one of the five fixed column keys.
func (c ColumnKey) Valid() bool {
	_, ok := columnStatus[c]
	return ok
}

// Status maps a column key to the job status it represents.
func (c ColumnKey) Status() (Status, bool) {
	s, ok := columnStatus[c]
	return s, ok
}

// Valid reports whether s is a known job status.
func (s Status) Valid() bool {
	_, ok := statusColumn[s]
	return ok
}

// Column maps a job status to the board column it is displayed in.
func (s Status) Column() ColumnKey {
	return statusColumn[s]
}

// TransitionPlan describes the write a board transition requires, if any.
type TransitionPlan struct {
	Status    Status
	StartTime *time.Time
	EndTime   *time.Time
	SetTimes  bool
	NoOp      bool
}

// PlanTransition computes the effect of dropping a job on targetColumn.
// Any state may move to any other state; operators may drag a job backward
// to correct mistakes. Dropping a job on its current column is a no-op and
// must not issue a write. A job entering the Scheduled column always ends up
// with a complete time window: a fully complete window is preserved, and any
// missing end is filled so that the window spans DefaultScheduleWindow.
func PlanTransition(current Status, start, end *time.Time, targetColumn ColumnKey, now time.Time) (TransitionPlan, error) {
	target, ok := targetColumn.Status()
	if !ok {
		return TransitionPlan{}, ErrUnknownColumn
	}

	if target == current {
		return TransitionPlan{Status: current, NoOp: true}, nil
	}

	plan := TransitionPlan{Status: target, StartTime: start, EndTime: end}

	if target == StatusScheduled {
		switch {
		case start == nil && end == nil:
			s := now
			e := now.Add(DefaultScheduleWindow)
			plan.StartTime = &s
			plan.EndTime = &e
			plan.SetTimes = true
		case start == nil:
			s := end.Add(-DefaultScheduleWindow)
			plan.StartTime = &s
			plan.SetTimes = true
		case end == nil:
			e := start.Add(DefaultScheduleWindow)
			plan.EndTime = &e
			plan.SetTimes = true
		}
	}

	return plan, nil
}
