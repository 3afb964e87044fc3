package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanTransition(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	existingStart := now.Add(-2 * time.Hour)
	existingEnd := now.Add(-1 * time.Hour)

	tests := []struct {
		name         string
		current      Status
		start        *time.Time
		end          *time.Time
		target       ColumnKey
		wantErr      error
		wantNoOp     bool
		wantStatus   Status
		wantSetTimes bool
	}{
		{
			name:       "draft to scheduled defaults time window",
			current:    StatusDraft,
			target:     ColumnScheduled,
			wantStatus: StatusScheduled, wantSetTimes: true,
		},
		{
			name:    "scheduled keeps existing window",
			current: StatusPending,
			start:   &existingStart, end: &existingEnd,
			target:     ColumnScheduled,
			wantStatus: StatusScheduled, wantSetTimes: false,
		},
		{
			name:     "same column is a no-op",
			current:  StatusInProgress,
			target:   ColumnInProgress,
			wantNoOp: true, wantStatus: StatusInProgress,
		},
		{
			name:     "same column no-op for backlog",
			current:  StatusDraft,
			target:   ColumnBacklog,
			wantNoOp: true, wantStatus: StatusDraft,
		},
		{
			name:       "backward move completed to scheduled",
			current:    StatusCompleted,
			start:      &existingStart, end: &existingEnd,
			target:     ColumnScheduled,
			wantStatus: StatusScheduled,
		},
		{
			name:       "completed straight from draft",
			current:    StatusDraft,
			target:     ColumnCompleted,
			wantStatus: StatusCompleted,
		},
		{
			name:    "unknown column rejected",
			current: StatusDraft,
			target:  ColumnKey("archived"),
			wantErr: ErrUnknownColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := PlanTransition(tt.current, tt.start, tt.end, tt.target, now)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantNoOp, plan.NoOp)
			assert.Equal(t, tt.wantStatus, plan.Status)
			assert.Equal(t, tt.wantSetTimes, plan.SetTimes)

			if tt.wantSetTimes {
				require.NotNil(t, plan.StartTime)
				require.NotNil(t, plan.EndTime)
				assert.Equal(t, now, *plan.StartTime)
				assert.Equal(t, now.Add(DefaultScheduleWindow), *plan.EndTime)
				assert.True(t, plan.EndTime.After(*plan.StartTime))
			}
		})
	}
}

func TestPlanTransitionCompletesPartialWindow(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	t.Run("start only gets an end", func(t *testing.T) {
		start := now.Add(24 * time.Hour)

		plan, err := PlanTransition(StatusDraft, &start, nil, ColumnScheduled, now)
		require.NoError(t, err)

		assert.True(t, plan.SetTimes)
		require.NotNil(t, plan.EndTime)
		assert.Equal(t, start, *plan.StartTime)
		assert.Equal(t, start.Add(DefaultScheduleWindow), *plan.EndTime)
	})

	t.Run("end only gets a start", func(t *testing.T) {
		end := now.Add(24 * time.Hour)

		plan, err := PlanTransition(StatusDraft, nil, &end, ColumnScheduled, now)
		require.NoError(t, err)

		assert.True(t, plan.SetTimes)
		require.NotNil(t, plan.StartTime)
		assert.Equal(t, end.Add(-DefaultScheduleWindow), *plan.StartTime)
		assert.Equal(t, end, *plan.EndTime)
		assert.True(t, plan.EndTime.After(*plan.StartTime))
	})
}

func TestColumnStatusMapping(t *testing.T) {
	for _, key := range ColumnKeys() {
		status, ok := key.Status()
		require.True(t, ok, "column %s must map to a status", key)
		assert.Equal(t, key, status.Column())
	}

	_, ok := ColumnKey("on_hold").Status()
	assert.False(t, ok)
	assert.False(t, Status("archived").Valid())
}

func TestValidateAssignmentSet(t *testing.T) {
	tests := []struct {
		name    string
		refs    []AssignmentRef
		wantErr error
	}{
		{
			name: "mixed workers and contractors",
			refs: []AssignmentRef{
				{WorkerID: "w1"},
				{WorkerID: "w2"},
				{ContractorID: "c1"},
			},
		},
		{
			name: "empty set is valid",
			refs: nil,
		},
		{
			name:    "neither resource set",
			refs:    []AssignmentRef{{}},
			wantErr: ErrEmptyAssignment,
		},
		{
			name:    "both resources set",
			refs:    []AssignmentRef{{WorkerID: "w1", ContractorID: "c1"}},
			wantErr: ErrAmbiguousAssignment,
		},
		{
			name:    "duplicate worker",
			refs:    []AssignmentRef{{WorkerID: "w1"}, {WorkerID: "w1"}},
			wantErr: ErrDuplicateAssignment,
		},
		{
			name:    "duplicate contractor",
			refs:    []AssignmentRef{{ContractorID: "c1"}, {WorkerID: "w1"}, {ContractorID: "c1"}},
			wantErr: ErrDuplicateAssignment,
		},
		{
			name: "same id as worker and contractor is allowed",
			refs: []AssignmentRef{{WorkerID: "x"}, {ContractorID: "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAssignmentSet(tt.refs)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestContainsWorkerAndContractor(t *testing.T) {
	refs := []AssignmentRef{{WorkerID: "w1"}, {ContractorID: "c1"}}

	assert.True(t, ContainsWorker(refs, "w1"))
	assert.False(t, ContainsWorker(refs, "c1"))
	assert.True(t, ContainsContractor(refs, "c1"))
	assert.False(t, ContainsContractor(refs, "w1"))
}
