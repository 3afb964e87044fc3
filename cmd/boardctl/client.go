package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/opsfield/fieldserve/internal/api/domain"
	"github.com/opsfield/fieldserve/internal/api/dto"
	"github.com/opsfield/fieldserve/internal/auth"
	"github.com/opsfield/fieldserve/internal/board"
)

// Client is a minimal HTTP client for the fieldserve API, speaking the same
// DTOs the server binds.
type Client struct {
	baseURL string
	token   string

	// Optional impersonation directives, honored server-side only for admins.
	impersonateID   string
	impersonateType string

	http *http.Client
}

func NewClient(baseURL, token, impersonateID, impersonateType string) *Client {
	return &Client{
		baseURL:         baseURL,
		token:           token,
		impersonateID:   impersonateID,
		impersonateType: impersonateType,
		http:            &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.impersonateID != "" {
		req.Header.Set(auth.HeaderImpersonateID, c.impersonateID)
		req.Header.Set(auth.HeaderImpersonateType, c.impersonateType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", method, path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// FetchSnapshot assembles a confirmed board snapshot: all jobs, their
// assignments, and the tenant's column labels.
func (c *Client) FetchSnapshot(ctx context.Context) (board.Snapshot, error) {
	var snapshot board.Snapshot

	var settings dto.KanbanSettingsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/settings/kanban", nil, &settings); err != nil {
		return snapshot, err
	}
	snapshot.Labels = settings.Columns

	cursor := ""
	for {
		path := "/api/v1/jobs?page_size=100"
		if cursor != "" {
			path += "&cursor=" + cursor
		}

		var page dto.ListJobsResponse
		if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
			return snapshot, err
		}

		for _, job := range page.Jobs {
			card := board.Card{
				JobID:    job.JobID,
				Title:    job.Title,
				Status:   domain.Status(job.Status),
				Priority: job.Priority,
			}

			var assignments dto.ListAssignmentsResponse
			if err := c.do(ctx, http.MethodGet, "/api/v1/jobs/"+job.JobID+"/assignments", nil, &assignments); err != nil {
				return snapshot, err
			}
			for _, a := range assignments.Assignments {
				card.Assignments = append(card.Assignments, domain.AssignmentRef{
					WorkerID:     a.WorkerID,
					ContractorID: a.ContractorID,
				})
			}

			snapshot.Cards = append(snapshot.Cards, card)
		}

		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	return snapshot, nil
}

// Apply issues the HTTP mutation for one reducer intent.
func (c *Client) Apply(ctx context.Context, intent board.Intent) error {
	switch in := intent.(type) {
	case board.TransitionJob:
		return c.do(ctx, http.MethodPost, "/api/v1/jobs/"+in.JobID+"/transition",
			dto.TransitionJobRequest{Column: string(in.Column)}, nil)

	case board.ReplaceAssignments:
		req := dto.ReplaceAssignmentsRequest{
			Assignments: make([]dto.AssignmentDTO, len(in.Assignments)),
		}
		for i, a := range in.Assignments {
			req.Assignments[i] = dto.AssignmentDTO{
				WorkerID:     a.WorkerID,
				ContractorID: a.ContractorID,
			}
		}
		return c.do(ctx, http.MethodPut, "/api/v1/jobs/"+in.JobID+"/assignments", req, nil)

	case board.AttachChecklist:
		return c.do(ctx, http.MethodPost, "/api/v1/jobs/"+in.JobID+"/checklists",
			dto.AttachChecklistRequest{TemplateID: in.TemplateID}, nil)

	case board.RenameColumn:
		return c.do(ctx, http.MethodPatch, "/api/v1/settings/kanban",
			dto.UpdateColumnLabelsRequest{Columns: map[string]string{string(in.Column): in.Label}}, nil)
	}

	return fmt.Errorf("unknown intent %T", intent)
}
