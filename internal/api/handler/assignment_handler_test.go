package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsfield/fieldserve/internal/api/domain"
	"github.com/opsfield/fieldserve/internal/api/dto"
	"github.com/opsfield/fieldserve/internal/api/model"
)

func TestReplaceAssignments(t *testing.T) {
	tests := []struct {
		name        string
		assignments []map[string]any
		wantCode    int
	}{
		{
			name: "worker and contractor together",
			assignments: []map[string]any{
				{"worker_id": "worker-1"},
				{"contractor_id": "contractor-1"},
			},
			wantCode: http.StatusNoContent,
		},
		{
			name:        "empty set clears the job",
			assignments: []map[string]any{},
			wantCode:    http.StatusNoContent,
		},
		{
			name: "element naming both resources",
			assignments: []map[string]any{
				{"worker_id": "worker-1", "contractor_id": "contractor-1"},
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "element naming neither resource",
			assignments: []map[string]any{
				{},
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate worker",
			assignments: []map[string]any{
				{"worker_id": "worker-1"},
				{"worker_id": "worker-1"},
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			job := seedJob(store, testTenant, string(domain.StatusPending))
			r := newTestRouter(store, staffContext(testTenant))

			w := perform(t, r, http.MethodPut, "/jobs/"+job.JobID+"/assignments", map[string]any{
				"assignments": tt.assignments,
			})
			require.Equal(t, tt.wantCode, w.Code)

			if tt.wantCode == http.StatusNoContent {
				assert.Len(t, store.assignments[job.JobID], len(tt.assignments))
			}
		})
	}
}

func TestReplaceAssignments_ReplacesWholesale(t *testing.T) {
	store := newFakeStore()
	job := seedJob(store, testTenant, string(domain.StatusPending))
	r := newTestRouter(store, staffContext(testTenant))

	w := perform(t, r, http.MethodPut, "/jobs/"+job.JobID+"/assignments", map[string]any{
		"assignments": []map[string]any{
			{"worker_id": "worker-1"},
			{"worker_id": "worker-2"},
		},
	})
	require.Equal(t, http.StatusNoContent, w.Code)

	// A second submission omitting worker-1 removes them.
	w = perform(t, r, http.MethodPut, "/jobs/"+job.JobID+"/assignments", map[string]any{
		"assignments": []map[string]any{
			{"worker_id": "worker-2"},
			{"contractor_id": "contractor-1"},
		},
	})
	require.Equal(t, http.StatusNoContent, w.Code)

	rows := store.assignments[job.JobID]
	require.Len(t, rows, 2)

	var workers, contractors []string
	for _, row := range rows {
		if row.WorkerID != nil {
			workers = append(workers, *row.WorkerID)
		}
		if row.ContractorID != nil {
			contractors = append(contractors, *row.ContractorID)
		}
	}
	assert.Equal(t, []string{"worker-2"}, workers)
	assert.Equal(t, []string{"contractor-1"}, contractors)
}

func TestReplaceAssignments_MissingFieldDoesNotClear(t *testing.T) {
	store := newFakeStore()
	job := seedJob(store, testTenant, string(domain.StatusPending))
	workerID := "worker-1"
	store.assignments[job.JobID] = []model.JobAssignment{
		{AssignmentID: "a-1", JobID: job.JobID, TenantID: testTenant, WorkerID: &workerID, Status: "active"},
	}

	// A body without the assignments field is rejected; only an explicit
	// empty list clears the set.
	r := newTestRouter(store, staffContext(testTenant))
	w := perform(t, r, http.MethodPut, "/jobs/"+job.JobID+"/assignments", map[string]any{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, store.assignments[job.JobID], 1)
}

func TestReplaceAssignments_JobNotFound(t *testing.T) {
	store := newFakeStore()
	r := newTestRouter(store, staffContext(testTenant))

	w := perform(t, r, http.MethodPut, "/jobs/1f2e3d4c-5b6a-4798-8899-aabbccddeeff/assignments", map[string]any{
		"assignments": []map[string]any{{"worker_id": "worker-1"}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAssignments(t *testing.T) {
	store := newFakeStore()
	job := seedJob(store, testTenant, string(domain.StatusScheduled))
	workerID := "worker-1"
	store.assignments[job.JobID] = []model.JobAssignment{
		{AssignmentID: "a-1", JobID: job.JobID, TenantID: testTenant, WorkerID: &workerID, Status: "active"},
	}

	r := newTestRouter(store, staffContext(testTenant))
	w := perform(t, r, http.MethodGet, "/jobs/"+job.JobID+"/assignments", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got dto.ListAssignmentsResponse
	decodeJSON(t, w, &got)
	require.Len(t, got.Assignments, 1)
	assert.Equal(t, "worker-1", got.Assignments[0].WorkerID)
	assert.Empty(t, got.Assignments[0].ContractorID)
}

func TestAttachChecklist(t *testing.T) {
	store := newFakeStore()
	job := seedJob(store, testTenant, string(domain.StatusScheduled))
	store.templates["tpl-1"] = &model.ChecklistTemplate{
		TemplateID: "tpl-1",
		TenantID:   testTenant,
		Name:       "Safety walkthrough",
		Items:      []byte(`[{"label":"Shut off gas","done":false}]`),
	}

	r := newTestRouter(store, staffContext(testTenant))

	w := perform(t, r, http.MethodPost, "/jobs/"+job.JobID+"/checklists", map[string]any{
		"template_id": "tpl-1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var got dto.JobChecklistDTO
	decodeJSON(t, w, &got)
	assert.Equal(t, "tpl-1", got.TemplateID)
	assert.Equal(t, "Safety walkthrough", got.Name)
	assert.NotEmpty(t, got.ChecklistID)

	t.Run("template edits do not reach the attached copy", func(t *testing.T) {
		store.templates["tpl-1"].Items = []byte(`[]`)

		w := perform(t, r, http.MethodGet, "/jobs/"+job.JobID+"/checklists", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var list struct {
			Checklists []dto.JobChecklistDTO `json:"checklists"`
		}
		decodeJSON(t, w, &list)
		require.Len(t, list.Checklists, 1)
		items, ok := list.Checklists[0].Items.([]any)
		require.True(t, ok)
		assert.Len(t, items, 1)
	})

	t.Run("attaching twice yields two instances", func(t *testing.T) {
		w := perform(t, r, http.MethodPost, "/jobs/"+job.JobID+"/checklists", map[string]any{
			"template_id": "tpl-1",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Len(t, store.checklists[job.JobID], 2)
	})

	t.Run("unknown template", func(t *testing.T) {
		w := perform(t, r, http.MethodPost, "/jobs/"+job.JobID+"/checklists", map[string]any{
			"template_id": "tpl-missing",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
