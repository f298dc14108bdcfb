package datadog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/oskar-korczak/mcp-server-datadog/pkg/utils"
)

// Datadog API client shared by all tool packages.

const defaultSite = "datadoghq.com"

// Config holds Datadog credentials and site routing.
type Config struct {
	APIKey string
	AppKey string
	Site   string
	// BaseURL overrides the site-derived https://api.<site> endpoint.
	BaseURL string
}

// NewConfigFromEnv reads the standard Datadog environment variables.
func NewConfigFromEnv() Config {
	site := os.Getenv("DD_SITE")
	if site == "" {
		site = defaultSite
	}
	return Config{
		APIKey: os.Getenv("DD_API_KEY"),
		AppKey: os.Getenv("DD_APPLICATION_KEY"),
		Site:   site,
	}
}

// Client issues authenticated requests against the Datadog v1/v2 REST APIs.
// It is stateless and safe for concurrent use.
type Client struct {
	config     Config
	httpClient *http.Client
}

func NewClient(config Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientFromEnv is NewClient over NewConfigFromEnv.
func NewClientFromEnv() *Client {
	return NewClient(NewConfigFromEnv())
}

func (c *Client) baseURL() string {
	if c.config.BaseURL != "" {
		return strings.TrimSuffix(c.config.BaseURL, "/")
	}
	return fmt.Sprintf("https://api.%s", c.config.Site)
}

// Do issues a request against the given API endpoint (e.g. "/api/v1/query").
// A non-nil payload is sent as a JSON body. Responses with status >= 400
// surface as errors carrying the status and body.
func (c *Client) Do(ctx context.Context, method, endpoint string, query url.Values, payload interface{}) ([]byte, error) {
	reqURL := c.baseURL() + "/" + strings.TrimPrefix(endpoint, "/")
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody []byte
	var err error
	if payload != nil {
		reqBody, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("DD-API-KEY", c.config.APIKey)
	req.Header.Set("DD-APPLICATION-KEY", c.config.AppKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return utils.DoRequest(c.httpClient, req)
}

// Get issues a GET request and unmarshals the JSON response into out.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	body, err := c.Do(ctx, http.MethodGet, endpoint, query, nil)
	if err != nil {
		return err
	}
	return unmarshal(body, out)
}

// Post issues a POST request with a JSON payload and unmarshals the JSON
// response into out (skipped when out is nil).
func (c *Client) Post(ctx context.Context, endpoint string, payload interface{}, out interface{}) error {
	body, err := c.Do(ctx, http.MethodPost, endpoint, nil, payload)
	if err != nil {
		return err
	}
	return unmarshal(body, out)
}

// Delete issues a DELETE request, ignoring the response body.
func (c *Client) Delete(ctx context.Context, endpoint string) error {
	_, err := c.Do(ctx, http.MethodDelete, endpoint, nil, nil)
	return err
}

func unmarshal(body []byte, out interface{}) error {
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
