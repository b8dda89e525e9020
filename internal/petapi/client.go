package petapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrDayNotReady is returned by DayOutput when the backend has not computed
// the requested day yet. Callers poll until the day appears.
var ErrDayNotReady = errors.New("day output not ready")

// StatusError reports a non-2xx response from the backend.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: backend returned status %d", e.Op, e.Code)
}

const defaultTimeout = 15 * time.Second

// Client talks to the Pandemic Exercise Tool backend. The backend performs
// simulation work asynchronously, so every call may be slow or transiently
// unavailable; callers own retry/poll policy.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New returns a Client for the backend at baseURL (e.g. http://localhost:8000).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// CreateScenario posts scenario parameters and returns the scenario ID.
func (c *Client) CreateScenario(ctx context.Context, p ScenarioParameters) (string, error) {
	w, err := p.wire()
	if err != nil {
		return "", fmt.Errorf("encode scenario: %w", err)
	}
	body, err := json.Marshal(w)
	if err != nil {
		return "", fmt.Errorf("encode scenario: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/pet/", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("create scenario: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Op: "create scenario", Code: resp.StatusCode}
	}
	var out struct {
		ID json.Number `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode scenario id: %w", err)
	}
	return out.ID.String(), nil
}

// StartRun asks the backend to run the scenario and returns the task ID of
// the queued simulation job.
func (c *Client) StartRun(ctx context.Context, scenarioID string) (string, error) {
	var out struct {
		TaskID string `json:"task_id"`
	}
	if err := c.getJSON(ctx, "start run", fmt.Sprintf("/api/pet/%s/run", scenarioID), &out); err != nil {
		return "", err
	}
	return out.TaskID, nil
}

// DayOutput fetches the SEATIRD snapshot for one day. ErrDayNotReady is
// returned for days the worker has not written yet.
func (c *Client) DayOutput(ctx context.Context, day int) (*DayOutput, error) {
	var out DayOutput
	err := c.getJSON(ctx, "fetch day output", fmt.Sprintf("/api/output/%d", day), &out)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, ErrDayNotReady
		}
		return nil, err
	}
	return &out, nil
}

// StopRun revokes the running simulation task.
func (c *Client) StopRun(ctx context.Context, taskID string) error {
	return c.getJSON(ctx, "stop run", "/api/delete/"+taskID, nil)
}

// Reset clears all stored day outputs and purges queued work.
func (c *Client) Reset(ctx context.Context) error {
	return c.getJSON(ctx, "reset state", "/api/reset", nil)
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: op, Code: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
