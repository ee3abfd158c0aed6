package service

import (
	"context"
	"net/http"

	"github.com/unarmedpuppy/command-grid/engine/core"
)

// JobsClient talks to the external job service.
type JobsClient struct {
	*Client
}

// NewJobsClient creates a job service client.
func NewJobsClient(baseURL string) *JobsClient {
	return &JobsClient{Client: NewClient(baseURL)}
}

// Dispatch submits a prompt against an agent profile and returns the created
// job record.
func (c *JobsClient) Dispatch(ctx context.Context, prompt string, agent core.Profile) (core.Job, error) {
	body := map[string]any{
		"prompt": prompt,
		"agent":  agent,
	}
	var job core.Job
	err := c.do(ctx, http.MethodPost, "v0/jobs", body, &job)
	return job, err
}

// List returns the current job list, in service order.
func (c *JobsClient) List(ctx context.Context) ([]core.Job, error) {
	raw, err := c.doRaw(ctx, http.MethodGet, "v0/jobs", nil)
	if err != nil {
		return nil, err
	}
	var jobs []core.Job
	if err := validateAndDecode(jobListSchema, raw, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}
