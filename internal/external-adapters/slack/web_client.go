// Package slack connects the request orchestrator to Slack over Socket Mode.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultAPIURL is the Slack Web API base
const DefaultAPIURL = "https://slack.com/api"

// WebClient calls the few Slack Web API methods the bot needs
type WebClient struct {
	client   *http.Client
	apiURL   string
	botToken string
	appToken string
}

// WebClientConfig configures a WebClient
type WebClientConfig struct {
	APIURL   string
	BotToken string
	AppToken string
	// HTTPClient overrides the default client (tests)
	HTTPClient *http.Client
}

// NewWebClient creates a Slack Web API client
func NewWebClient(config WebClientConfig) *WebClient {
	apiURL := strings.TrimRight(config.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &WebClient{
		client:   client,
		apiURL:   apiURL,
		botToken: config.BotToken,
		appToken: config.AppToken,
	}
}

// apiResponse is the envelope every Web API method answers with
type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	URL   string `json:"url,omitempty"`
}

// PostMessage is a chat.postMessage request
type PostMessage struct {
	Channel string  `json:"channel"`
	Text    string  `json:"text"`
	Blocks  []Block `json:"blocks,omitempty"`
}

// OpenConnection asks Slack for a Socket Mode WebSocket URL
func (c *WebClient) OpenConnection(ctx context.Context) (string, error) {
	if c.appToken == "" {
		return "", fmt.Errorf("slack app token is not set")
	}
	resp, err := c.call(ctx, "apps.connections.open", c.appToken, nil)
	if err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", fmt.Errorf("apps.connections.open returned no url")
	}
	return resp.URL, nil
}

// PostMessage sends a message to a channel
func (c *WebClient) PostMessage(ctx context.Context, msg PostMessage) error {
	if c.botToken == "" {
		return fmt.Errorf("slack bot token is not set")
	}
	_, err := c.call(ctx, "chat.postMessage", c.botToken, msg)
	return err
}

func (c *WebClient) call(ctx context.Context, method, token string, payload interface{}) (*apiResponse, error) {
	var body io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s request: %w", method, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/"+method, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", method, err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err != nil {
			return nil, fmt.Errorf("%s failed: status %d (body unreadable: %w)", method, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("%s failed: status %d: %s", method, resp.StatusCode, string(bodyBytes))
	}

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if !result.OK {
		return nil, fmt.Errorf("%s failed: %s", method, result.Error)
	}
	return &result, nil
}
