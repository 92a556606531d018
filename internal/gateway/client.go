// Package gateway wraps the remote task board API. It is a thin
// request/response layer: authorization and storage live on the server.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/valgq/tablero/internal/model"
)

// ErrUnauthorized matches any 401 from the server via errors.Is.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response. Message carries the server's own error
// text verbatim when the body provides one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed (status %d)", e.Status)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Client talks to one task board API. user supplies the identity header
// value for each call; it returns empty when logged out.
type Client struct {
	base string
	http *http.Client
	user func() string
}

// NewClient builds a client for base. user may be nil for anonymous use.
func NewClient(base string, timeout time.Duration, user func() string) *Client {
	if user == nil {
		user = func() string { return "" }
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
		user: user,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if u := c.user(); u != "" {
		req.Header.Set("X-User", u)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorMessage pulls {"error": "..."} out of a failure body, if present.
func errorMessage(raw []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil {
		return strings.TrimSpace(e.Error)
	}
	return ""
}

// Health reports whether the API answers its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

// List fetches the task collection for the active filter. Filtering and
// ordering are the server's; the response order is trusted.
func (c *Client) List(ctx context.Context, filter model.FilterSpec) ([]model.Task, error) {
	path := "/api/tasks"
	if q := filter.Query().Encode(); q != "" {
		path += "?" + q
	}
	var body struct {
		Tasks []model.Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &body); err != nil {
		return nil, err
	}
	if body.Tasks == nil {
		return []model.Task{}, nil
	}
	return body.Tasks, nil
}

// CreateRequest is the payload for a new task. The server mints the id.
type CreateRequest struct {
	Title    string       `json:"title"`
	Points   int          `json:"points"`
	Assignee string       `json:"assignee"`
	Status   model.Status `json:"status"`
}

// Create posts a new task and returns the server's copy.
func (c *Client) Create(ctx context.Context, req CreateRequest) (model.Task, error) {
	if req.Status == "" {
		req.Status = model.StatusTodo
	}
	var t model.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", req, &t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// Patch is a partial task update. Only non-nil fields reach the wire.
type Patch struct {
	Title    *string       `json:"title,omitempty"`
	Assignee *string       `json:"assignee,omitempty"`
	Points   *int          `json:"points,omitempty"`
	Status   *model.Status `json:"status,omitempty"`
}

// Update patches one task.
func (c *Client) Update(ctx context.Context, id string, p Patch) (model.Task, error) {
	var t model.Task
	if err := c.do(ctx, http.MethodPatch, "/api/tasks/"+id, p, &t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// Delete removes one task.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type authResponse struct {
	Role string `json:"role"`
}

// Login exchanges credentials for a role label. The label is stored as
// returned; the policy layer decides what it unlocks.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out authResponse
	err := c.do(ctx, http.MethodPost, "/api/login", credentials{Username: username, Password: password}, &out)
	if err != nil {
		return "", err
	}
	return out.Role, nil
}

// Register creates an account and returns the assigned role label.
func (c *Client) Register(ctx context.Context, username, password, role string) (string, error) {
	var out authResponse
	err := c.do(ctx, http.MethodPost, "/api/register", credentials{Username: username, Password: password, Role: role}, &out)
	if err != nil {
		return "", err
	}
	if out.Role == "" {
		out.Role = role
	}
	return out.Role, nil
}
