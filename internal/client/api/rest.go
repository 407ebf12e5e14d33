package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster-app/taskmaster-cli/internal/client/models"
	"github.com/taskmaster-app/taskmaster-cli/internal/common"
	"github.com/taskmaster-app/taskmaster-cli/internal/logging"
)

// maxErrorBody caps how much of an error response is read for diagnostics.
const maxErrorBody = 64 << 10

// TokenFunc supplies the current access token for outbound requests.
// It returns the empty string when no session is active.
type TokenFunc func() string

// RESTClient talks JSON over HTTP to the backend. Every request carries a
// generated X-Request-ID so client and server logs can be correlated.
type RESTClient struct {
	baseURL string
	httpc   *http.Client
	tokenFn TokenFunc
	log     logging.Logger
}

// NewRESTClient builds a client for the API rooted at baseURL
// (e.g. "http://localhost:8000/api").
func NewRESTClient(baseURL string, timeout time.Duration, tokenFn TokenFunc, log logging.Logger) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		tokenFn: tokenFn,
		log:     log,
	}
}

// do performs one request/response cycle: marshal body, attach headers,
// execute, map the status code, and decode the response into out (when
// out is non-nil and the response succeeded).
func (c *RESTClient) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.tokenFn(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %w", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "request completed",
		"method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return c.mapError(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// mapError converts an HTTP error status into the client error taxonomy.
func (c *RESTClient) mapError(status int, body []byte) error {
	switch {
	case status == http.StatusBadRequest:
		return parseValidationBody(body)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return common.ErrUnauthorized
	case status == http.StatusNotFound:
		return common.ErrNotFound
	case status >= 500:
		return fmt.Errorf("%w: status %d", common.ErrServer, status)
	default:
		return fmt.Errorf("%w: unexpected status %d", common.ErrServer, status)
	}
}

func (c *RESTClient) ObtainToken(ctx context.Context, username, password string) (*models.TokenPair, error) {
	var pair models.TokenPair
	payload := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/token/", nil, payload, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (c *RESTClient) Register(ctx context.Context, reg Registration) error {
	return c.do(ctx, http.MethodPost, "/register/", nil, reg, nil)
}

func (c *RESTClient) ListTasks(ctx context.Context, q TaskQuery) (*models.TaskPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Completed != "" {
		query.Set("completed", q.Completed)
	}
	if q.Category != "" {
		query.Set("category", q.Category)
	}

	var page models.TaskPage
	if err := c.do(ctx, http.MethodGet, "/tasks/", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *RESTClient) CreateTask(ctx context.Context, fields map[string]any) error {
	return c.do(ctx, http.MethodPost, "/tasks/", nil, fields, nil)
}

func (c *RESTClient) UpdateTask(ctx context.Context, id int, fields map[string]any) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPatch, taskPath(id), nil, fields, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *RESTClient) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil, nil)
}

func (c *RESTClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out struct {
		Results []models.Category `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/categories/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *RESTClient) CreateCategory(ctx context.Context, name, color string) error {
	payload := map[string]string{"name": name, "color": color}
	return c.do(ctx, http.MethodPost, "/categories/", nil, payload, nil)
}

func (c *RESTClient) UpdateCategory(ctx context.Context, id int, name, color string) error {
	payload := map[string]string{"name": name, "color": color}
	return c.do(ctx, http.MethodPatch, categoryPath(id), nil, payload, nil)
}

func (c *RESTClient) DeleteCategory(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, categoryPath(id), nil, nil, nil)
}

func (c *RESTClient) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	params := url.Values{}
	params.Set("search", query)

	var out struct {
		Results []models.User `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/", params, nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func taskPath(id int) string {
	return fmt.Sprintf("/tasks/%d/", id)
}

func categoryPath(id int) string {
	return fmt.Sprintf("/categories/%d/", id)
}
