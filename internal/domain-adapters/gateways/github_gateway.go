// Package gateways implements the domain gateway interfaces over HTTP and the filesystem.
package gateways

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

	"github.com/ochairo/casebot/internal/domain/interfaces"
	"github.com/ochairo/casebot/internal/domain/interfaces/gateways"
)

const (
	// DefaultGitHubAPIURL is the public GitHub REST endpoint
	DefaultGitHubAPIURL = "https://api.github.com"

	// maxErrorBody caps how much of an error response is kept
	maxErrorBody = 64 * 1024
)

// HTTPGitHubGateway implements WorkflowGateway using standard HTTP client
type HTTPGitHubGateway struct {
	client    *http.Client
	baseURL   string
	token     string
	userAgent string
	logger    interfaces.Logger
}

// GitHubGatewayConfig configures an HTTPGitHubGateway
type GitHubGatewayConfig struct {
	BaseURL string
	Token   string
	// Timeout is the client-level ceiling; callers normally pass a tighter context deadline
	Timeout time.Duration
}

// NewHTTPGitHubGateway creates a new GitHub gateway with HTTP client
func NewHTTPGitHubGateway(config GitHubGatewayConfig, logger interfaces.Logger) *HTTPGitHubGateway {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultGitHubAPIURL
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPGitHubGateway{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:   baseURL,
		token:     config.Token,
		userAgent: "casebot/1.0",
		logger:    interfaces.OrNoOp(logger),
	}
}

// checkRateLimit warns when the GitHub API rate limit is nearly exhausted
func (g *HTTPGitHubGateway) checkRateLimit(resp *http.Response) {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return
	}

	remainingInt, err := strconv.Atoi(remaining)
	if err != nil || remainingInt > 10 {
		return
	}

	fields := []interfaces.Field{interfaces.F("remaining", remainingInt)}
	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if resetUnix, err := strconv.ParseInt(reset, 10, 64); err == nil {
			fields = append(fields, interfaces.F("resets_at", time.Unix(resetUnix, 0).UTC().Format(time.RFC3339)))
		}
	}
	g.logger.Warn("GitHub API rate limit low", fields...)
}

// workflowDispatchRequest represents the GitHub API workflow_dispatch body
type workflowDispatchRequest struct {
	Ref    string            `json:"ref"`
	Inputs map[string]string `json:"inputs"`
}

// DispatchURL returns the workflow_dispatch endpoint for a workflow
func (g *HTTPGitHubGateway) DispatchURL(owner, repo, workflowID string) string {
	return fmt.Sprintf("%s/repos/%s/%s/actions/workflows/%s/dispatches",
		g.baseURL, url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(workflowID))
}

// DispatchWorkflow triggers a workflow_dispatch event. Any non-2xx answer is a *gateways.DispatchError.
func (g *HTTPGitHubGateway) DispatchWorkflow(ctx context.Context, dispatch gateways.WorkflowDispatch) error {
	inputs := dispatch.Inputs
	if inputs == nil {
		inputs = map[string]string{}
	}

	body, err := json.Marshal(workflowDispatchRequest{Ref: dispatch.Ref, Inputs: inputs})
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch request: %w", err)
	}

	endpoint := g.DispatchURL(dispatch.Owner, dispatch.Repo, dispatch.WorkflowID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to dispatch workflow: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	g.checkRateLimit(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return &gateways.DispatchError{StatusCode: resp.StatusCode}
		}
		return &gateways.DispatchError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(bodyBytes))}
	}

	return nil
}
