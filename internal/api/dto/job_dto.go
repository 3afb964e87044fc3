package dto

import "time"

type CreateJobRequest struct {
	CustomerID string     `json:"customer_id" binding:"required"`
	JobSiteID  *string    `json:"job_site_id"`
	Title      string     `json:"title" binding:"required"`
	Priority   string     `json:"priority"`
	StartTime  *time.Time `json:"start_time"`
	EndTime    *time.Time `json:"end_time"`
}

type UpdateJobRequest struct {
	CustomerID *string    `json:"customer_id"`
	JobSiteID  *string    `json:"job_site_id"`
	Title      *string    `json:"title"`
	Priority   *string    `json:"priority"`
	StartTime  *time.Time `json:"start_time"`
	EndTime    *time.Time `json:"end_time"`
}

type TransitionJobRequest struct {
	Column string `json:"column" binding:"required"`
}

type ListJobsRequest struct {
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	JobSiteID  string `form:"job_site_id"`
	PageSize   int    `form:"page_size"`
	Cursor     string `form:"cursor"`
}

type ListJobsResponse struct {
	Jobs       []JobDTO `json:"jobs"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

type JobDTO struct {
	JobID      string  `json:"job_id"`
	CustomerID string  `json:"customer_id"`
	JobSiteID  *string `json:"job_site_id,omitempty"`
	Title      string  `json:"title"`
	Status     string  `json:"status"`
	Column     string  `json:"column"`
	Priority   string  `json:"priority"`
	StartTime  *string `json:"start_time,omitempty"`
	EndTime    *string `json:"end_time,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}
