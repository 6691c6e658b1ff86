// Package client talks to the task API and degrades to a local
// in-memory store when the backend is slow, erroring or unreachable.
// API is the thin wire client; Gateway is the facade callers use.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avoran/taskmate/internal/models"
)

// DefaultBaseURL is used when no backend address is configured.
const DefaultBaseURL = "http://localhost:8000"

// maxResponseSize caps response bodies read from the backend.
const maxResponseSize = 4 * 1024 * 1024

// APIError is a non-2xx response from the backend. Carrying the status
// as a value lets the gateway classify failures without string parsing.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api responded with status %d: %s", e.Status, e.Body)
}

// API is a typed HTTP client for the task API.
type API struct {
	baseURL    string
	httpClient *http.Client
}

// APIOption configures an API client.
type APIOption func(*API)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) APIOption {
	return func(a *API) {
		a.httpClient = c
	}
}

// NewAPI creates a client for the backend at baseURL. An empty baseURL
// falls back to DefaultBaseURL. Deadlines are supplied per call through
// the context; the underlying client carries no timeout of its own.
func NewAPI(baseURL string, opts ...APIOption) *API {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	a := &API{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ListTasks fetches a page of tasks, optionally filtered by label.
func (a *API) ListTasks(ctx context.Context, label string, skip, limit int) (*models.TaskList, error) {
	query := url.Values{}
	if label != "" && label != "all" {
		query.Set("label", label)
	}
	query.Set("skip", strconv.Itoa(skip))
	query.Set("limit", strconv.Itoa(limit))

	var list models.TaskList
	err := a.do(ctx, http.MethodGet, "/api/v1/tasks/?"+query.Encode(), nil, &list)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return &list, nil
}

// GetTask fetches a single task by id.
func (a *API) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	err := a.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", id), nil, &task)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

type taskRequest struct {
	Description string `json:"description"`
}

// CreateTask submits a description for AI extraction and returns the
// stored task.
func (a *API) CreateTask(ctx context.Context, description string) (*models.Task, error) {
	var task models.Task
	err := a.do(ctx, http.MethodPost, "/api/v1/tasks/", taskRequest{Description: description}, &task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &task, nil
}

// UpdateTask replaces a task's description, triggering re-extraction.
func (a *API) UpdateTask(ctx context.Context, id int64, description string) (*models.Task, error) {
	var task models.Task
	err := a.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/tasks/%d", id), taskRequest{Description: description}, &task)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return &task, nil
}

// DeleteTask removes a task by id.
func (a *API) DeleteTask(ctx context.Context, id int64) error {
	err := a.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/tasks/%d", id), nil, nil)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// ListLabels fetches the distinct labels currently in use.
func (a *API) ListLabels(ctx context.Context) ([]string, error) {
	var labels []string
	err := a.do(ctx, http.MethodGet, "/api/v1/tasks/labels/", nil, &labels)
	if err != nil {
		return nil, fmt.Errorf("list labels: %w", err)
	}
	return labels, nil
}

type summaryRequest struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Summarize requests an AI summary of tasks created in [start, end].
func (a *API) Summarize(ctx context.Context, start, end time.Time) (*models.Summary, error) {
	var summary models.Summary
	err := a.do(ctx, http.MethodPost, "/api/v1/tasks/summary", summaryRequest{StartDate: start, EndDate: end}, &summary)
	if err != nil {
		return nil, fmt.Errorf("summarize tasks: %w", err)
	}
	return &summary, nil
}

// Health probes the backend's health endpoint.
func (a *API) Health(ctx context.Context) error {
	err := a.do(ctx, http.MethodGet, "/health", nil, nil)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	return nil
}

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: string(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
