// ABOUTME: This file handles configuration management for pixiv-app-client
// ABOUTME: Loads environment variables and validates configuration for the pixiv API hosts

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default client identity of the pixiv mobile app. The token endpoint only
// accepts known client identities, so these are real protocol constants,
// overridable for testing.
const (
	DefaultClientID     = "MOBrBDS8blbauoSck0ZfDbtuzpyT"
	DefaultClientSecret = "lsACyCD94FhDUtGTXi3QzcFE2uU1hqtDaKeqrdwj"

	DefaultAPIBaseURL   = "https://app-api.pixiv.net"
	DefaultOAuthBaseURL = "https://oauth.secure.pixiv.net"
)

// Config holds all configuration for the pixiv-app-client
type Config struct {
	// Service configuration
	ServiceName string
	LogLevel    string

	// Pixiv API configuration
	Pixiv PixivConfig

	// OAuth configuration
	OAuth OAuthConfig
}

// PixivConfig holds app-API settings
type PixivConfig struct {
	APIBaseURL  string
	HTTPTimeout time.Duration
}

// OAuthConfig holds token endpoint and credential settings
type OAuthConfig struct {
	BaseURL       string
	ClientID      string
	ClientSecret  string
	Username      string
	Password      string
	RefreshToken  string
	RefreshBuffer time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServiceName: getEnvOrDefault("SERVICE_NAME", "pixiv-app-client"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),

		Pixiv: PixivConfig{
			APIBaseURL: getEnvOrDefault("PIXIV_API_BASE_URL", DefaultAPIBaseURL),
		},

		OAuth: OAuthConfig{
			BaseURL:      getEnvOrDefault("PIXIV_OAUTH_BASE_URL", DefaultOAuthBaseURL),
			ClientID:     getEnvOrDefault("PIXIV_CLIENT_ID", DefaultClientID),
			ClientSecret: getEnvOrDefault("PIXIV_CLIENT_SECRET", DefaultClientSecret),
			Username:     os.Getenv("PIXIV_USERNAME"),
			Password:     os.Getenv("PIXIV_PASSWORD"),     // Never logged
			RefreshToken: os.Getenv("PIXIV_REFRESH_TOKEN"), // Alternative to username/password
		},
	}

	// Parse duration configurations
	if timeout := os.Getenv("HTTP_TIMEOUT"); timeout != "" {
		if duration, err := time.ParseDuration(timeout); err == nil {
			cfg.Pixiv.HTTPTimeout = duration
		} else {
			cfg.Pixiv.HTTPTimeout = 60 * time.Second // Default
		}
	} else {
		cfg.Pixiv.HTTPTimeout = 60 * time.Second
	}

	// Refresh buffer defaults to zero: a token is refreshed exactly when
	// its expiry instant has passed.
	if buffer := os.Getenv("TOKEN_REFRESH_BUFFER"); buffer != "" {
		if bufferSeconds, err := strconv.Atoi(buffer); err == nil {
			cfg.OAuth.RefreshBuffer = time.Duration(bufferSeconds) * time.Second
		} else {
			cfg.OAuth.RefreshBuffer = 0
		}
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.OAuth.ClientID == "" {
		return fmt.Errorf("PIXIV_CLIENT_ID is required")
	}

	if c.OAuth.ClientSecret == "" {
		return fmt.Errorf("PIXIV_CLIENT_SECRET is required")
	}

	if c.Pixiv.APIBaseURL == "" {
		return fmt.Errorf("PIXIV_API_BASE_URL is required")
	}

	if c.OAuth.BaseURL == "" {
		return fmt.Errorf("PIXIV_OAUTH_BASE_URL is required")
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
