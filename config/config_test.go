package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearPixivEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVICE_NAME", "LOG_LEVEL",
		"PIXIV_API_BASE_URL", "PIXIV_OAUTH_BASE_URL",
		"PIXIV_CLIENT_ID", "PIXIV_CLIENT_SECRET",
		"PIXIV_USERNAME", "PIXIV_PASSWORD", "PIXIV_REFRESH_TOKEN",
		"HTTP_TIMEOUT", "TOKEN_REFRESH_BUFFER",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearPixivEnv(t)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "pixiv-app-client", cfg.ServiceName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DefaultAPIBaseURL, cfg.Pixiv.APIBaseURL)
	assert.Equal(t, DefaultOAuthBaseURL, cfg.OAuth.BaseURL)
	assert.Equal(t, DefaultClientID, cfg.OAuth.ClientID)
	assert.Equal(t, DefaultClientSecret, cfg.OAuth.ClientSecret)
	assert.Equal(t, 60*time.Second, cfg.Pixiv.HTTPTimeout)
	assert.Equal(t, time.Duration(0), cfg.OAuth.RefreshBuffer)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	clearPixivEnv(t)
	t.Setenv("PIXIV_API_BASE_URL", "http://localhost:8080")
	t.Setenv("PIXIV_OAUTH_BASE_URL", "http://localhost:8081")
	t.Setenv("PIXIV_CLIENT_ID", "test_client")
	t.Setenv("PIXIV_CLIENT_SECRET", "test_secret")
	t.Setenv("PIXIV_REFRESH_TOKEN", "stored_refresh")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("TOKEN_REFRESH_BUFFER", "300")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.Pixiv.APIBaseURL)
	assert.Equal(t, "http://localhost:8081", cfg.OAuth.BaseURL)
	assert.Equal(t, "test_client", cfg.OAuth.ClientID)
	assert.Equal(t, "test_secret", cfg.OAuth.ClientSecret)
	assert.Equal(t, "stored_refresh", cfg.OAuth.RefreshToken)
	assert.Equal(t, 5*time.Second, cfg.Pixiv.HTTPTimeout)
	assert.Equal(t, 5*time.Minute, cfg.OAuth.RefreshBuffer)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_InvalidDurationsFallBack(t *testing.T) {
	clearPixivEnv(t)
	t.Setenv("HTTP_TIMEOUT", "not-a-duration")
	t.Setenv("TOKEN_REFRESH_BUFFER", "not-a-number")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.Pixiv.HTTPTimeout)
	assert.Equal(t, time.Duration(0), cfg.OAuth.RefreshBuffer)
}

func TestConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		mutate      func(cfg *Config)
		expectError string
	}{
		"valid": {
			mutate: func(cfg *Config) {},
		},
		"missing_client_id": {
			mutate:      func(cfg *Config) { cfg.OAuth.ClientID = "" },
			expectError: "PIXIV_CLIENT_ID",
		},
		"missing_client_secret": {
			mutate:      func(cfg *Config) { cfg.OAuth.ClientSecret = "" },
			expectError: "PIXIV_CLIENT_SECRET",
		},
		"missing_api_base_url": {
			mutate:      func(cfg *Config) { cfg.Pixiv.APIBaseURL = "" },
			expectError: "PIXIV_API_BASE_URL",
		},
		"missing_oauth_base_url": {
			mutate:      func(cfg *Config) { cfg.OAuth.BaseURL = "" },
			expectError: "PIXIV_OAUTH_BASE_URL",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := &Config{
				Pixiv: PixivConfig{APIBaseURL: DefaultAPIBaseURL},
				OAuth: OAuthConfig{
					BaseURL:      DefaultOAuthBaseURL,
					ClientID:     DefaultClientID,
					ClientSecret: DefaultClientSecret,
				},
			}
			tc.mutate(cfg)

			err := cfg.Validate()

			if tc.expectError == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectError)
			}
		})
	}
}
