package hosting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/delivize/delivize/internal/config"
	"github.com/delivize/delivize/internal/customdomain/domain"
)

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to a Vercel-style projects/domains API with a bearer token.
type Client struct {
	baseURL   string
	projectID string
	token     string
	client    *http.Client
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.Hosting.APIBaseURL, "/"),
		projectID: cfg.Hosting.ProjectID,
		token:     cfg.Hosting.AuthToken,
		client:    &http.Client{Timeout: 12 * time.Second},
	}
}

func (c *Client) AddDomain(ctx context.Context, host string) error {
	body, err := json.Marshal(map[string]string{"name": host})
	if err != nil {
		return err
	}
	path := fmt.Sprintf("/v10/projects/%s/domains", url.PathEscape(c.projectID))
	return c.doRequest(ctx, http.MethodPost, path, body, "domain_already_in_use")
}

func (c *Client) RemoveDomain(ctx context.Context, host string) error {
	path := fmt.Sprintf("/v9/projects/%s/domains/%s", url.PathEscape(c.projectID), url.PathEscape(host))
	return c.doRequest(ctx, http.MethodDelete, path, nil, "not_found")
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte, tolerated string) error {
	if c.token == "" || c.projectID == "" {
		return domain.ErrProvisioningFailed
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	var apiErr errorResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil {
		// Re-adding an attached domain or removing a missing one is fine.
		if apiErr.Error.Code == tolerated {
			return nil
		}
	}
	return domain.ErrProvisioningFailed
}

var _ domain.Provisioner = (*Client)(nil)

type noop struct{}

// NewNoop returns a provisioner for environments without hosting credentials.
func NewNoop() domain.Provisioner {
	return noop{}
}

func (noop) AddDomain(ctx context.Context, host string) error {
	_ = ctx
	_ = host
	return nil
}

func (noop) RemoveDomain(ctx context.Context, host string) error {
	_ = ctx
	_ = host
	return nil
}
