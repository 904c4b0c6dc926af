// Package api is the facade over the Lattice Cloud REST API. It owns
// transport concerns end to end: auth headers, request IDs, retries
// with backoff, and the mapping of HTTP failures onto service error
// categories. Nothing above this package retries a remote call.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/lattice-labs/beacon-ctl/internal/errors"
)

// Client is the set of remote operations the core consumes.
type Client interface {
	FetchDeviceByHostname(ctx context.Context, hostname string) (*Device, error)
	FetchActiveLicense(ctx context.Context, deviceID int) (*License, error)
	ActivateLicense(ctx context.Context, licenseID int) (*License, error)
	CreateTask(ctx context.Context, deviceID int, taskType string) (*Task, error)
	SubmitTaskStatus(ctx context.Context, deviceID, taskID int, status Status, detail, helpURL string) (*Task, error)
	SettingsRepo(ctx context.Context, deviceID int) (*SettingsRepo, error)
}

// HTTPClient implements Client against the Lattice Cloud API.
type HTTPClient struct {
	baseURL string
	token   string
	http    *retryablehttp.Client
}

// NewClient returns an HTTP client for the given API base URL. An empty
// token makes anonymous requests.
func NewClient(baseURL, token string) *HTTPClient {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil

	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		http:    rc,
	}
}

// BaseURL returns the configured API base URL.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) FetchDeviceByHostname(ctx context.Context, hostname string) (*Device, error) {
	var device Device
	path := fmt.Sprintf("/api/devices/hostname/%s", hostname)
	if err := c.do(ctx, http.MethodGet, path, nil, &device); err != nil {
		return nil, err
	}
	return &device, nil
}

func (c *HTTPClient) FetchActiveLicense(ctx context.Context, deviceID int) (*License, error) {
	var license License
	path := fmt.Sprintf("/api/devices/%d/active-license", deviceID)
	if err := c.do(ctx, http.MethodGet, path, nil, &license); err != nil {
		return nil, err
	}
	return &license, nil
}

func (c *HTTPClient) ActivateLicense(ctx context.Context, licenseID int) (*License, error) {
	var license License
	path := fmt.Sprintf("/api/licenses/%d/activate", licenseID)
	if err := c.do(ctx, http.MethodPost, path, nil, &license); err != nil {
		return nil, err
	}
	return &license, nil
}

func (c *HTTPClient) CreateTask(ctx context.Context, deviceID int, taskType string) (*Task, error) {
	body := map[string]any{
		"task_type": taskType,
		"active":    true,
	}
	var task Task
	path := fmt.Sprintf("/api/devices/%d/tasks", deviceID)
	if err := c.do(ctx, http.MethodPost, path, body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) SubmitTaskStatus(ctx context.Context, deviceID, taskID int, status Status, detail, helpURL string) (*Task, error) {
	body := map[string]any{
		"status": status,
	}
	if detail != "" {
		body["detail"] = detail
	}
	if helpURL != "" {
		body["help_url"] = helpURL
	}

	var task Task
	path := fmt.Sprintf("/api/devices/%d/tasks/%d/statuses", deviceID, taskID)
	if err := c.do(ctx, http.MethodPost, path, body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) SettingsRepo(ctx context.Context, deviceID int) (*SettingsRepo, error) {
	var repo SettingsRepo
	path := fmt.Sprintf("/api/devices/%d/settings-repo", deviceID)
	if err := c.do(ctx, http.MethodGet, path, nil, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// do executes one API request and decodes the response into out.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.ServiceError(errors.ServiceValidation, "failed to encode request body", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.ServiceError(errors.ServiceValidation, "failed to build request", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.ServiceError(errors.ServiceTransport, fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(method, path, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.ServiceError(errors.ServiceValidation, fmt.Sprintf("%s %s returned an undecodable response", method, path), err)
	}
	return nil
}

// statusError maps an HTTP failure status onto a service error
// category.
func statusError(method, path string, resp *http.Response) error {
	detail := fmt.Sprintf("%s %s returned %s", method, path, resp.Status)
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 1024)); err == nil && len(data) > 0 {
		detail = fmt.Sprintf("%s: %s", detail, bytes.TrimSpace(data))
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.ServiceError(errors.ServiceAuth, detail, nil)
	case resp.StatusCode == http.StatusNotFound:
		return errors.ServiceError(errors.ServiceNotFound, detail, nil)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return errors.ServiceError(errors.ServiceValidation, detail, nil)
	default:
		return errors.ServiceError(errors.ServiceTransport, detail, nil)
	}
}
