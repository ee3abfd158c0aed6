package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/unarmedpuppy/command-grid/engine/core"
)

// TasksClient talks to the external task service.
type TasksClient struct {
	*Client
}

// NewTasksClient creates a task service client.
func NewTasksClient(baseURL string) *TasksClient {
	return &TasksClient{Client: NewClient(baseURL)}
}

// List returns work items, optionally filtered by status.
func (c *TasksClient) List(ctx context.Context, status core.TaskStatus) ([]core.Task, error) {
	endpoint := "v0/tasks"
	if status != "" {
		endpoint = fmt.Sprintf("%s?status=%s", endpoint, url.QueryEscape(string(status)))
	}
	raw, err := c.doRaw(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	var tasks []core.Task
	if err := validateAndDecode(taskListSchema, raw, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
