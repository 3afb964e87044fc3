package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsfield/fieldserve/internal/api/dto"
)

func TestGetKanbanSettings_Defaults(t *testing.T) {
	r := newTestRouter(newFakeStore(), staffContext(testTenant))

	w := perform(t, r, http.MethodGet, "/settings/kanban", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got dto.KanbanSettingsResponse
	decodeJSON(t, w, &got)
	assert.Len(t, got.Columns, 5)
	assert.Equal(t, "Backlog", got.Columns["backlog"])
	assert.Equal(t, "In Progress", got.Columns["in_progress"])
}

func TestUpdateColumnLabels(t *testing.T) {
	store := newFakeStore()
	r := newTestRouter(store, staffContext(testTenant))

	w := perform(t, r, http.MethodPatch, "/settings/kanban", map[string]any{
		"columns": map[string]string{"scheduled": "Booked"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var got dto.KanbanSettingsResponse
	decodeJSON(t, w, &got)
	assert.Len(t, got.Columns, 5, "a partial update keeps the full map")
	assert.Equal(t, "Booked", got.Columns["scheduled"])
	assert.Equal(t, "Backlog", got.Columns["backlog"], "untouched labels keep their value")

	t.Run("later updates merge with earlier ones", func(t *testing.T) {
		w := perform(t, r, http.MethodPatch, "/settings/kanban", map[string]any{
			"columns": map[string]string{"completed": "Done"},
		})
		require.Equal(t, http.StatusOK, w.Code)

		var got dto.KanbanSettingsResponse
		decodeJSON(t, w, &got)
		assert.Equal(t, "Booked", got.Columns["scheduled"])
		assert.Equal(t, "Done", got.Columns["completed"])
	})
}

func TestUpdateColumnLabels_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "unknown column key",
			body: map[string]any{"columns": map[string]string{"archived": "Archived"}},
		},
		{
			name: "empty label",
			body: map[string]any{"columns": map[string]string{"backlog": ""}},
		},
		{
			name: "empty map",
			body: map[string]any{"columns": map[string]string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			r := newTestRouter(store, staffContext(testTenant))

			w := perform(t, r, http.MethodPatch, "/settings/kanban", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, store.labels[testTenant])
		})
	}
}
