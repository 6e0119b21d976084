// ABOUTME: This file implements OAuth token lifecycle management
// ABOUTME: Handles initial login and expiry-driven renewal with single-flight refresh

package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"pixiv-app-client/driver"
	"pixiv-app-client/models"
	"pixiv-app-client/utils"

	"golang.org/x/sync/singleflight"
)

// authEndpointName labels token exchange failures in the error taxonomy.
const authEndpointName = "auth_token"

// OAuth2Driver interface for token endpoint operations
type OAuth2Driver interface {
	PasswordGrant(ctx context.Context, username, password string) (*models.TokenResponse, error)
	RefreshGrant(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
}

// TokenService handles the OAuth token lifecycle: initial password-grant
// login and refresh-grant renewal of expired tokens. Tokens are immutable
// values; renewal always returns a new snapshot.
type TokenService struct {
	oauth2Client  OAuth2Driver
	logger        *slog.Logger
	refreshBuffer time.Duration

	// Single-flight group prevents concurrent refreshes of the same
	// refresh token
	refreshGroup *singleflight.Group

	// metricsMu guards metrics: EnsureFresh is called concurrently and
	// every refresh mutates the counters
	metricsMu sync.Mutex
	metrics   TokenServiceMetrics

	monitor *utils.Monitor
}

// TokenServiceMetrics tracks token lifecycle operations
type TokenServiceMetrics struct {
	TotalRefreshAttempts int64         `json:"total_refresh_attempts"`
	SuccessfulRefreshes  int64         `json:"successful_refreshes"`
	FailedRefreshes      int64         `json:"failed_refreshes"`
	SingleFlightHits     int64         `json:"singleflight_hits"`
	LastRefreshTime      time.Time     `json:"last_refresh_time"`
	LastRefreshDuration  time.Duration `json:"last_refresh_duration"`
}

// NewTokenService creates a token service that refreshes exactly at expiry
func NewTokenService(oauth2Client OAuth2Driver, logger *slog.Logger) *TokenService {
	return NewTokenServiceWithBuffer(oauth2Client, logger, 0)
}

// NewTokenServiceWithBuffer creates a token service that treats a token as
// stale refreshBuffer before its actual expiry instant
func NewTokenServiceWithBuffer(oauth2Client OAuth2Driver, logger *slog.Logger, refreshBuffer time.Duration) *TokenService {
	if logger == nil {
		logger = slog.Default()
	}

	return &TokenService{
		oauth2Client:  oauth2Client,
		logger:        logger,
		refreshBuffer: refreshBuffer,
		refreshGroup:  &singleflight.Group{},
	}
}

// SetMonitor attaches a monitor that observes token exchanges
func (s *TokenService) SetMonitor(monitor *utils.Monitor) {
	s.monitor = monitor
}

// Login performs the initial password-grant exchange and returns a new
// token. Credentials are handed straight to the driver and never logged or
// retried.
func (s *TokenService) Login(ctx context.Context, username, password string) (models.AuthToken, error) {
	response, err := s.oauth2Client.PasswordGrant(ctx, username, password)
	if err != nil {
		s.logger.Error("Password grant failed", "error", err)
		return models.AuthToken{}, models.NewAuthenticationFailed(authEndpointName, "password grant exchange failed", err)
	}

	token := models.NewAuthToken(*response, time.Now())

	s.logger.Info("Logged in",
		"access_token", utils.MaskToken(token.AccessToken),
		"expires_at", token.ExpiresAt)

	return token, nil
}

// FromRefreshToken bootstraps a token from a stored refresh token without
// a password login. The returned token is already fresh.
func (s *TokenService) FromRefreshToken(ctx context.Context, refreshToken string) (models.AuthToken, error) {
	return s.refresh(ctx, refreshToken)
}

// EnsureFresh returns the token unchanged while it is still fresh;
// otherwise it performs a refresh-grant exchange and returns a new token
// value. The input token is never mutated.
//
// A request that begins just before expiry can still complete after it;
// widening refreshBuffer shrinks that window but cannot close it.
func (s *TokenService) EnsureFresh(ctx context.Context, token models.AuthToken) (models.AuthToken, error) {
	if !token.NeedsRefresh(s.refreshBuffer) {
		return token, nil
	}

	s.logger.Info("Token needs refresh",
		"expires_at", token.ExpiresAt,
		"time_until_expiry", token.TimeUntilExpiry(),
		"refresh_buffer", s.refreshBuffer)

	return s.refresh(ctx, token.RefreshToken)
}

// refresh performs the refresh-grant exchange, deduplicating concurrent
// calls that hold the same refresh token.
func (s *TokenService) refresh(ctx context.Context, refreshToken string) (models.AuthToken, error) {
	startTime := time.Now()

	result, err, shared := s.refreshGroup.Do(refreshToken, func() (interface{}, error) {
		s.metricsMu.Lock()
		s.metrics.TotalRefreshAttempts++
		s.metricsMu.Unlock()

		response, err := s.oauth2Client.RefreshGrant(ctx, refreshToken)
		if err != nil {
			s.metricsMu.Lock()
			s.metrics.FailedRefreshes++
			s.metricsMu.Unlock()
			if errors.Is(err, driver.ErrInvalidCredentials) || errors.Is(err, driver.ErrInvalidGrant) {
				s.logger.Error("Refresh token was rejected", "error", err)
			}
			return nil, err
		}

		s.metricsMu.Lock()
		s.metrics.SuccessfulRefreshes++
		s.metricsMu.Unlock()
		return models.NewAuthToken(*response, time.Now()), nil
	})

	duration := time.Since(startTime)

	s.metricsMu.Lock()
	s.metrics.LastRefreshTime = startTime
	s.metrics.LastRefreshDuration = duration
	if shared {
		s.metrics.SingleFlightHits++
	}
	s.metricsMu.Unlock()

	if s.monitor != nil {
		s.monitor.LogTokenRefresh(ctx, err == nil, duration, err)
	}

	if err != nil {
		return models.AuthToken{}, models.NewAuthenticationFailed(authEndpointName, "refresh grant exchange failed", err)
	}

	if shared {
		s.logger.Info("Token refresh result shared from concurrent operation")
	}

	token := result.(models.AuthToken)

	s.logger.Info("Token refresh completed",
		"access_token", utils.MaskToken(token.AccessToken),
		"expires_at", token.ExpiresAt,
		"duration", duration,
		"shared_result", shared)

	return token, nil
}

// GetMetrics returns a snapshot of the token lifecycle metrics
func (s *TokenService) GetMetrics() TokenServiceMetrics {
	s.metricsMu.Lock()
	defer s.metricsMu.Unlock()
	return s.metrics
}

// ResetMetrics resets all metrics counters (useful for testing)
func (s *TokenService) ResetMetrics() {
	s.metricsMu.Lock()
	defer s.metricsMu.Unlock()
	s.metrics = TokenServiceMetrics{}
}
