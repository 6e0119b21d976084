// ABOUTME: This file implements the OAuth token endpoint driver
// ABOUTME: Handles password-grant login and refresh-grant renewal against the pixiv OAuth host

package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pixiv-app-client/models"
	"pixiv-app-client/utils"
)

// OAuth specific error types for better error handling
var (
	ErrInvalidCredentials    = errors.New("credentials were rejected by the token endpoint")
	ErrInvalidGrant          = errors.New("invalid grant type or parameters")
	ErrMalformedAuthResponse = errors.New("token endpoint response is malformed")
	ErrUnexpectedAuthStatus  = errors.New("unexpected token endpoint status")
)

// Fixed protocol fields the token endpoint expects on every exchange,
// regardless of grant type. These must be reproduced exactly for the
// server to accept the request.
const (
	deviceToken       = "pixiv"
	tokenPath         = "/auth/token"
	grantTypePassword = "password"
	grantTypeRefresh  = "refresh_token"
)

// OAuth2Client executes token exchanges against the pixiv OAuth host
type OAuth2Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client
	logger       *slog.Logger
}

// NewOAuth2Client creates a new OAuth client for the pixiv token endpoint
func NewOAuth2Client(clientID, clientSecret, baseURL string, logger *slog.Logger) *OAuth2Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &OAuth2Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      baseURL,
		logger:       logger,
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

// PasswordGrant exchanges a username and password for a fresh token pair.
// The password is sent form-encoded and never logged.
func (c *OAuth2Client) PasswordGrant(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	data := url.Values{
		"client_id":      {c.clientID},
		"client_secret":  {c.clientSecret},
		"grant_type":     {grantTypePassword},
		"username":       {username},
		"password":       {password},
		"device_token":   {deviceToken},
		"get_secure_url": {"true"},
		"include_policy": {"true"},
	}

	response, err := c.exchange(ctx, data)
	if err != nil {
		return nil, err
	}

	c.logger.Info("OAuth password grant successful",
		"access_token", utils.MaskToken(response.AccessToken),
		"expires_in_seconds", response.ExpiresIn)

	return response, nil
}

// RefreshGrant exchanges a refresh token for a new token pair
func (c *OAuth2Client) RefreshGrant(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	data := url.Values{
		"client_id":      {c.clientID},
		"client_secret":  {c.clientSecret},
		"grant_type":     {grantTypeRefresh},
		"refresh_token":  {refreshToken},
		"device_token":   {deviceToken},
		"get_secure_url": {"true"},
		"include_policy": {"true"},
	}

	response, err := c.exchange(ctx, data)
	if err != nil {
		return nil, err
	}

	c.logger.Info("OAuth refresh grant successful",
		"access_token", utils.MaskToken(response.AccessToken),
		"refresh_token", utils.MaskToken(response.RefreshToken),
		"expires_in_seconds", response.ExpiresIn)

	return response, nil
}

// exchange posts a form-encoded grant request and parses the token payload
func (c *OAuth2Client) exchange(ctx context.Context, data url.Values) (*models.TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token exchange request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "pixiv-app-client/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute token exchange request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token exchange response: %w", err)
	}

	// Check for HTTP errors FIRST before parsing JSON
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Token exchange failed",
			"status_code", resp.StatusCode,
			"grant_type", data.Get("grant_type"))

		switch resp.StatusCode {
		case http.StatusBadRequest:
			return nil, fmt.Errorf("%w: HTTP %d", ErrInvalidGrant, resp.StatusCode)
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("%w: HTTP %d", ErrInvalidCredentials, resp.StatusCode)
		default:
			return nil, fmt.Errorf("%w: HTTP %d", ErrUnexpectedAuthStatus, resp.StatusCode)
		}
	}

	return parseTokenResponse(body)
}

// parseTokenResponse validates the token exchange body shape:
// {"response": {"access_token": str, "refresh_token": str, "expires_in": int}}.
// A "has_error" field marks failure even under a 200 status.
func parseTokenResponse(body []byte) (*models.TokenResponse, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAuthResponse, err)
	}

	if _, hasError := raw["has_error"]; hasError {
		return nil, fmt.Errorf("%w: has_error flag set in response", ErrMalformedAuthResponse)
	}

	payload, ok := raw["response"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %q key missing or not an object", ErrMalformedAuthResponse, "response")
	}

	accessToken, ok := payload["access_token"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: %q key missing or not a string", ErrMalformedAuthResponse, "access_token")
	}

	refreshToken, ok := payload["refresh_token"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: %q key missing or not a string", ErrMalformedAuthResponse, "refresh_token")
	}

	// JSON numbers decode as float64
	expiresIn, ok := payload["expires_in"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: %q key missing or not an integer", ErrMalformedAuthResponse, "expires_in")
	}

	return &models.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(expiresIn),
	}, nil
}

// SetHTTPClient allows injecting a custom HTTP client (useful for testing with proxies)
func (c *OAuth2Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// SetTimeout sets the HTTP client timeout for testing purposes
func (c *OAuth2Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}
