// Package clickup implements the service.Service interface using the ClickUp REST API v2.
package clickup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"reltool/internal/config"
	"reltool/internal/logging"
	"reltool/internal/service"
)

const (
	// DefaultTimeout bounds each API call when the settings leave it unset.
	DefaultTimeout = 10 * time.Second

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 4 << 10
)

// Client implements service.Service using the ClickUp API.
type Client struct {
	http    *http.Client
	baseURL string
	timeout time.Duration
}

// task is the subset of the ClickUp task payload reltool reads.
type task struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Status struct {
		Status string `json:"status"`
	} `json:"status"`
}

// apiError is the ClickUp error body, e.g. {"err":"Task not found","ECODE":"ITEM_013"}.
type apiError struct {
	Err   string `json:"err"`
	ECode string `json:"ECODE"`
}

// New creates a ClickUp client.
// A personal token from CLICKUP_TOKEN takes precedence over token.json written by login.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	settings := cfg.Settings.ClickUp

	if settings.Token != "" {
		httpClient := &http.Client{Transport: &tokenTransport{token: settings.Token}}
		return NewWithHTTPClient(httpClient, settings), nil
	}

	data, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: set %s or run: reltool login", service.ErrNoCredentials, config.EnvClickUpToken)
		}
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: token.json has no access token (run: reltool login)", service.ErrNoCredentials)
	}

	// ClickUp OAuth tokens do not expire, so a static source is enough.
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&token))
	return NewWithHTTPClient(httpClient, settings), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(httpClient *http.Client, settings config.ClickUpSettings) *Client {
	timeout := time.Duration(settings.Timeout)
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(settings.APIURL, "/"),
		timeout: timeout,
	}
}

// GetTask fetches a task by id.
func (c *Client) GetTask(ctx context.Context, id string) (service.Task, error) {
	var t task
	if err := c.do(ctx, http.MethodGet, "/task/"+url.PathEscape(id), nil, &t); err != nil {
		return service.Task{}, err
	}
	return service.Task{
		ID:     t.ID,
		Name:   t.Name,
		URL:    t.URL,
		Status: t.Status.Status,
	}, nil
}

// UpdateTaskStatus moves a task to the named status.
func (c *Client) UpdateTaskStatus(ctx context.Context, id, status string) error {
	body := map[string]string{"status": status}
	return c.do(ctx, http.MethodPut, "/task/"+url.PathEscape(id), body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer resp.Body.Close()

	logging.FromContext(ctx).Debug("clickup",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid ClickUp response: %w", err)
	}
	return nil
}

// statusError maps a non-2xx response to an error.
func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := strings.TrimSpace(string(data))
	var apiErr apiError
	if json.Unmarshal(data, &apiErr) == nil && apiErr.Err != "" {
		msg = apiErr.Err
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return service.ErrNotFound
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", service.ErrUnauthorized, msg)
	}
	return fmt.Errorf("ClickUp API %d: %s", resp.StatusCode, msg)
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	return err
}

// tokenTransport sends a ClickUp personal token verbatim in the
// Authorization header (no "Bearer" scheme).
type tokenTransport struct {
	token string
	base  http.RoundTripper
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", t.token)
	return base.RoundTrip(clone)
}
