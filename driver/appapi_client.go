// ABOUTME: This file implements the authenticated app-API HTTP driver
// ABOUTME: Issues Bearer GET requests and returns the parsed JSON page body

package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// StatusError reports a data-fetch call that returned a non-success
// status. The status code is preserved so callers can report expected vs
// actual without re-parsing error strings.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("API request to %s failed with status %d", e.Endpoint, e.StatusCode)
}

// AppAPIClient executes authenticated GET requests against the pixiv app-API host
type AppAPIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewAppAPIClient creates a new app-API client
func NewAppAPIClient(baseURL string, logger *slog.Logger) *AppAPIClient {
	if logger == nil {
		logger = slog.Default()
	}

	return &AppAPIClient{
		baseURL: baseURL,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 30 * time.Second,
				IdleConnTimeout:       90 * time.Second,
				MaxIdleConns:          10,
				MaxIdleConnsPerHost:   2,
			},
		},
	}
}

// Get makes an authenticated GET request and parses the JSON response body.
// Parameters with empty values are omitted from the query string, matching
// the server's treatment of unset continuation parameters on the first page.
func (c *AppAPIClient) Get(ctx context.Context, accessToken, path string, params map[string]string) (map[string]interface{}, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		values := url.Values{}
		for key, value := range params {
			if value == "" {
				continue
			}
			values.Set(key, value)
		}
		if encoded := values.Encode(); encoded != "" {
			reqURL += "?" + encoded
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("User-Agent", "pixiv-app-client/1.0")

	requestID := uuid.NewString()
	c.logger.Debug("Executing app-API request",
		"request_id", requestID,
		"endpoint", path,
		"param_count", len(params))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("App-API request failed",
			"request_id", requestID,
			"endpoint", path,
			"status_code", resp.StatusCode)
		return nil, &StatusError{Endpoint: path, StatusCode: resp.StatusCode}
	}

	var responseData map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&responseData); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}

	c.logger.Debug("App-API request completed",
		"request_id", requestID,
		"endpoint", path,
		"key_count", len(responseData))

	return responseData, nil
}

// SetHTTPClient allows injecting a custom HTTP client (useful for testing with proxies)
func (c *AppAPIClient) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// SetTimeout sets the HTTP client timeout for testing purposes
func (c *AppAPIClient) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}
