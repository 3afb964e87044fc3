package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/opsfield/fieldserve/internal/api/domain"
	"github.com/opsfield/fieldserve/internal/api/model"
	"github.com/opsfield/fieldserve/internal/api/storage"
	"github.com/opsfield/fieldserve/internal/audit"
	"github.com/opsfield/fieldserve/internal/auth"
)

// fakeStore is an in-memory Store used by the handler tests.
type fakeStore struct {
	jobs        map[string]*model.Job
	assignments map[string][]model.JobAssignment
	templates   map[string]*model.ChecklistTemplate
	checklists  map[string][]model.JobChecklist
	labels      map[string]map[string]string

	lastFilter  storage.JobFilter
	transitions int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		jobs:        make(map[string]*model.Job),
		assignments: make(map[string][]model.JobAssignment),
		templates:   make(map[string]*model.ChecklistTemplate),
		checklists:  make(map[string][]model.JobChecklist),
		labels:      make(map[string]map[string]string),
	}
}

func (f *fakeStore) CreateJob(_ context.Context, job *model.Job) error {
	copied := *job
	f.jobs[job.JobID] = &copied
	return nil
}

func (f *fakeStore) GetJob(_ context.Context, tenantID, jobID string) (*model.Job, error) {
	job, ok := f.jobs[jobID]
	if !ok || job.TenantID != tenantID {
		return nil, domain.ErrJobNotFound
	}
	copied := *job
	return &copied, nil
}

func (f *fakeStore) ListJobs(_ context.Context, tenantID string, filter storage.JobFilter) ([]model.Job, error) {
	f.lastFilter = filter

	var out []model.Job
	for _, job := range f.jobs {
		if job.TenantID != tenantID {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		out = append(out, *job)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].JobID > out[j].JobID
	})
	if len(out) > filter.PageSize+1 {
		out = out[:filter.PageSize+1]
	}
	return out, nil
}

func (f *fakeStore) UpdateJob(ctx context.Context, tenantID, jobID string, patch storage.JobPatch) (*model.Job, error) {
	job, ok := f.jobs[jobID]
	if !ok || job.TenantID != tenantID {
		return nil, domain.ErrJobNotFound
	}
	if patch.CustomerID != nil {
		job.CustomerID = *patch.CustomerID
	}
	if patch.JobSiteID != nil {
		job.JobSiteID = patch.JobSiteID
	}
	if patch.Title != nil {
		job.Title = *patch.Title
	}
	if patch.Priority != nil {
		job.Priority = *patch.Priority
	}
	if patch.StartTime != nil {
		job.StartTime = patch.StartTime
	}
	if patch.EndTime != nil {
		job.EndTime = patch.EndTime
	}
	job.UpdatedAt = time.Now()
	return f.GetJob(ctx, tenantID, jobID)
}

func (f *fakeStore) ApplyTransition(ctx context.Context, tenantID, jobID string, plan domain.TransitionPlan) (*model.Job, error) {
	job, ok := f.jobs[jobID]
	if !ok || job.TenantID != tenantID {
		return nil, domain.ErrJobNotFound
	}
	f.transitions++
	job.Status = string(plan.Status)
	if plan.SetTimes {
		job.StartTime = plan.StartTime
		job.EndTime = plan.EndTime
	}
	job.UpdatedAt = time.Now()
	return f.GetJob(ctx, tenantID, jobID)
}

func (f *fakeStore) DeleteJob(_ context.Context, tenantID, jobID string) error {
	job, ok := f.jobs[jobID]
	if !ok || job.TenantID != tenantID {
		return domain.ErrJobNotFound
	}
	delete(f.jobs, jobID)
	delete(f.assignments, jobID)
	delete(f.checklists, jobID)
	return nil
}

func (f *fakeStore) ListAssignments(_ context.Context, tenantID, jobID string) ([]model.JobAssignment, error) {
	if job, ok := f.jobs[jobID]; !ok || job.TenantID != tenantID {
		return nil, domain.ErrJobNotFound
	}
	return f.assignments[jobID], nil
}

func (f *fakeStore) ReplaceAssignments(_ context.Context, tenantID, jobID string, refs []domain.AssignmentRef) error {
	if job, ok := f.jobs[jobID]; !ok || job.TenantID != tenantID {
		return domain.ErrJobNotFound
	}
	rows := make([]model.JobAssignment, len(refs))
	for i, ref := range refs {
		rows[i] = model.JobAssignment{
			AssignmentID: uuid.New().String(),
			JobID:        jobID,
			TenantID:     tenantID,
			Status:       "active",
			CreatedAt:    time.Now(),
		}
		if ref.WorkerID != "" {
			workerID := ref.WorkerID
			rows[i].WorkerID = &workerID
		}
		if ref.ContractorID != "" {
			contractorID := ref.ContractorID
			rows[i].ContractorID = &contractorID
		}
	}
	f.assignments[jobID] = rows
	return nil
}

func (f *fakeStore) AttachChecklist(_ context.Context, tenantID, jobID, templateID string) (*model.JobChecklist, error) {
	if job, ok := f.jobs[jobID]; !ok || job.TenantID != tenantID {
		return nil, domain.ErrJobNotFound
	}
	tpl, ok := f.templates[templateID]
	if !ok || tpl.TenantID != tenantID {
		return nil, domain.ErrTemplateNotFound
	}

	items := make([]byte, len(tpl.Items))
	copy(items, tpl.Items)
	checklist := model.JobChecklist{
		ChecklistID: uuid.New().String(),
		JobID:       jobID,
		TenantID:    tenantID,
		TemplateID:  templateID,
		Name:        tpl.Name,
		Items:       items,
		CreatedAt:   time.Now(),
	}
	f.checklists[jobID] = append(f.checklists[jobID], checklist)
	return &checklist, nil
}

func (f *fakeStore) ListChecklists(_ context.Context, tenantID, jobID string) ([]model.JobChecklist, error) {
	if job, ok := f.jobs[jobID]; !ok || job.TenantID != tenantID {
		return nil, domain.ErrJobNotFound
	}
	return f.checklists[jobID], nil
}

func (f *fakeStore) GetColumnLabels(_ context.Context, tenantID string) (map[string]string, error) {
	labels := make(map[string]string)
	for key, label := range domain.DefaultColumnLabels {
		labels[string(key)] = label
	}
	for key, label := range f.labels[tenantID] {
		labels[key] = label
	}
	return labels, nil
}

func (f *fakeStore) MergeColumnLabels(_ context.Context, tenantID string, labels map[string]string) error {
	stored := f.labels[tenantID]
	if stored == nil {
		stored = make(map[string]string)
		f.labels[tenantID] = stored
	}
	for key, label := range labels {
		stored[key] = label
	}
	return nil
}

func staffContext(tenantID string) *auth.RequestContext {
	return &auth.RequestContext{
		RealUserID:      "staff-1",
		TenantID:        tenantID,
		RealRole:        auth.RoleStaff,
		EffectiveUserID: "staff-1",
		EffectiveRole:   auth.RoleStaff,
	}
}

// newTestRouter wires the handlers behind a middleware that injects rc,
// standing in for the full token-resolving middleware.
func newTestRouter(store Store, rc *auth.RequestContext) *gin.Engine {
	gin.SetMode(gin.TestMode)

	deps := &Dependencies{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:    store,
		Recorder: audit.NopRecorder{},
	}
	jobs := NewJobHandler(deps)
	settings := NewSettingsHandler(deps)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if rc != nil {
			c.Request = c.Request.WithContext(auth.WithRequestContext(c.Request.Context(), rc))
		}
		c.Next()
	})

	r.POST("/jobs", jobs.CreateJob)
	r.GET("/jobs", jobs.ListJobs)
	r.GET("/jobs/:job_id", jobs.GetJob)
	r.PATCH("/jobs/:job_id", jobs.UpdateJob)
	r.DELETE("/jobs/:job_id", jobs.DeleteJob)
	r.POST("/jobs/:job_id/transition", jobs.TransitionJob)
	r.GET("/jobs/:job_id/assignments", jobs.ListAssignments)
	r.PUT("/jobs/:job_id/assignments", jobs.ReplaceAssignments)
	r.GET("/jobs/:job_id/checklists", jobs.ListChecklists)
	r.POST("/jobs/:job_id/checklists", jobs.AttachChecklist)
	r.GET("/settings/kanban", settings.GetKanbanSettings)
	r.PATCH("/settings/kanban", settings.UpdateColumnLabels)

	return r
}

func perform(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dest); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func seedJob(store *fakeStore, tenantID, status string) *model.Job {
	job := &model.Job{
		JobID:      uuid.New().String(),
		TenantID:   tenantID,
		CustomerID: uuid.New().String(),
		Title:      "Replace water heater",
		Status:     status,
		Priority:   "normal",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	store.jobs[job.JobID] = job
	return job
}
