// Package board implements the kanban board's client-side protocol: a
// deterministic drag/edit reducer over serializable state, the mutation
// intents it emits, and the speculative overlay reconciled against server
// snapshots. It has no UI dependencies; terminals or web frontends wrap it.
package board

import (
	"github.com/opsfield/fieldserve/internal/api/domain"
)

// Phase is the discriminant of the reducer's tagged-union state.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseDragging      Phase = "dragging"
	PhaseEditingColumn Phase = "editing_column"
)

// DragKind says what is being dragged.
type DragKind string

const (
	DragCard       DragKind = "card"
	DragWorker     DragKind = "worker"
	DragContractor DragKind = "contractor"
	DragChecklist  DragKind = "checklist"
)

// Drag is the payload of an in-flight drag.
type Drag struct {
	Kind DragKind `json:"kind"`
	ID   string   `json:"id"`
}

// State is the reducer state: exactly one of the three phases, with the
// payload belonging to it. The zero value is idle.
type State struct {
	Phase         Phase            `json:"phase"`
	Drag          *Drag            `json:"drag,omitempty"`
	EditingColumn domain.ColumnKey `json:"editing_column,omitempty"`
}

// Idle returns the idle state.
func Idle() State {
	return State{Phase: PhaseIdle}
}

// Event is a user interaction fed to the reducer.
type Event interface{ isEvent() }

type PickUpCard struct{ JobID string }
type PickUpWorker struct{ WorkerID string }
type PickUpContractor struct{ ContractorID string }
type PickUpChecklist struct{ TemplateID string }
type DropOnColumn struct{ Column domain.ColumnKey }
type DropOnCard struct{ JobID string }
type CancelDrag struct{}
type BeginColumnEdit struct{ Column domain.ColumnKey }
type CommitColumnLabel struct{ Label string }
type CancelColumnEdit struct{}

func (PickUpCard) isEvent()        {}
func (PickUpWorker) isEvent()      {}
func (PickUpContractor) isEvent()  {}
func (PickUpChecklist) isEvent()   {}
func (DropOnColumn) isEvent()      {}
func (DropOnCard) isEvent()        {}
func (CancelDrag) isEvent()        {}
func (BeginColumnEdit) isEvent()   {}
func (CommitColumnLabel) isEvent() {}
func (CancelColumnEdit) isEvent()  {}

// Intent is a mutation the reducer asks the caller to issue. The reducer
// never performs I/O itself.
type Intent interface{ isIntent() }

type TransitionJob struct {
	JobID  string
	Column domain.ColumnKey
}

type ReplaceAssignments struct {
	JobID       string
	Assignments []domain.AssignmentRef
}

type AttachChecklist struct {
	JobID      string
	TemplateID string
}

type RenameColumn struct {
	Column domain.ColumnKey
	Label  string
}

func (TransitionJob) isIntent()      {}
func (ReplaceAssignments) isIntent() {}
func (AttachChecklist) isIntent()    {}
func (RenameColumn) isIntent()       {}

// Reduce advances the board state by one event against the given snapshot.
// It is pure: same state, snapshot, and event always produce the same next
// state and intents.
//
// No-op suppression happens here, before any network call: dropping a card
// on its current column, or a resource on a job that already has it, emits
// no intent at all.
func Reduce(state State, snapshot *Snapshot, event Event) (State, []Intent) {
	switch ev := event.(type) {
	case PickUpCard:
		if state.Phase != PhaseIdle || snapshot.Find(ev.JobID) == nil {
			return state, nil
		}
		return State{Phase: PhaseDragging, Drag: &Drag{Kind: DragCard, ID: ev.JobID}}, nil

	case PickUpWorker:
		if state.Phase != PhaseIdle {
			return state, nil
		}
		return State{Phase: PhaseDragging, Drag: &Drag{Kind: DragWorker, ID: ev.WorkerID}}, nil

	case PickUpContractor:
		if state.Phase != PhaseIdle {
			return state, nil
		}
		return State{Phase: PhaseDragging, Drag: &Drag{Kind: DragContractor, ID: ev.ContractorID}}, nil

	case PickUpChecklist:
		if state.Phase != PhaseIdle {
			return state, nil
		}
		return State{Phase: PhaseDragging, Drag: &Drag{Kind: DragChecklist, ID: ev.TemplateID}}, nil

	case DropOnColumn:
		if state.Phase != PhaseDragging || state.Drag.Kind != DragCard {
			return state, nil
		}
		return dropCardOnColumn(snapshot, state.Drag.ID, ev.Column)

	case DropOnCard:
		if state.Phase != PhaseDragging {
			return state, nil
		}
		return dropResourceOnCard(snapshot, *state.Drag, ev.JobID)

	case CancelDrag:
		if state.Phase != PhaseDragging {
			return state, nil
		}
		return Idle(), nil

	case BeginColumnEdit:
		if state.Phase != PhaseIdle || !ev.Column.Valid() {
			return state, nil
		}
		return State{Phase: PhaseEditingColumn, EditingColumn: ev.Column}, nil

	case CommitColumnLabel:
		if state.Phase != PhaseEditingColumn {
			return state, nil
		}
		column := state.EditingColumn
		if ev.Label == "" || ev.Label == snapshot.Label(column) {
			return Idle(), nil
		}
		return Idle(), []Intent{RenameColumn{Column: column, Label: ev.Label}}

	case CancelColumnEdit:
		if state.Phase != PhaseEditingColumn {
			return state, nil
		}
		return Idle(), nil
	}

	return state, nil
}

func dropCardOnColumn(snapshot *Snapshot, jobID string, column domain.ColumnKey) (State, []Intent) {
	card := snapshot.Find(jobID)
	if card == nil || !column.Valid() {
		return Idle(), nil
	}
	if card.Status.Column() == column {
		// Idempotent drop on the current column: no mutation.
		return Idle(), nil
	}
	return Idle(), []Intent{TransitionJob{JobID: jobID, Column: column}}
}

func dropResourceOnCard(snapshot *Snapshot, drag Drag, jobID string) (State, []Intent) {
	card := snapshot.Find(jobID)
	if card == nil {
		return Idle(), nil
	}

	switch drag.Kind {
	case DragWorker:
		if domain.ContainsWorker(card.Assignments, drag.ID) {
			return Idle(), nil
		}
		next := append(append([]domain.AssignmentRef{}, card.Assignments...), domain.AssignmentRef{WorkerID: drag.ID})
		return Idle(), []Intent{ReplaceAssignments{JobID: jobID, Assignments: next}}

	case DragContractor:
		if domain.ContainsContractor(card.Assignments, drag.ID) {
			return Idle(), nil
		}
		next := append(append([]domain.AssignmentRef{}, card.Assignments...), domain.AssignmentRef{ContractorID: drag.ID})
		return Idle(), []Intent{ReplaceAssignments{JobID: jobID, Assignments: next}}

	case DragChecklist:
		// Duplicate attaches are allowed; each creates an independent copy.
		return Idle(), []Intent{AttachChecklist{JobID: jobID, TemplateID: drag.ID}}
	}

	return Idle(), nil
}
