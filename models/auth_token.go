// ABOUTME: This file defines domain models for OAuth token management
// ABOUTME: Handles access token, refresh token, and expiration logic

package models

import (
	"time"
)

// AuthToken represents an OAuth bearer token with expiry metadata.
//
// AuthToken is a value type on purpose: renewal produces a new AuthToken
// rather than mutating a shared one, so concurrent holders of a token
// snapshot never observe a half-updated credential.
type AuthToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TimeToLive   int       `json:"expires_in"` // Seconds until expiration
	IssuedAt     time.Time `json:"issued_at"`
	ExpiresAt    time.Time `json:"expires_at"` // IssuedAt + TimeToLive
}

// TokenResponse represents the payload of a successful token exchange,
// i.e. the "response" object of the OAuth endpoint's JSON body.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// NewAuthToken builds an AuthToken from a token exchange response,
// anchoring the expiry instant at issuedAt + expires_in.
func NewAuthToken(response TokenResponse, issuedAt time.Time) AuthToken {
	return AuthToken{
		AccessToken:  response.AccessToken,
		RefreshToken: response.RefreshToken,
		TimeToLive:   response.ExpiresIn,
		IssuedAt:     issuedAt,
		ExpiresAt:    issuedAt.Add(time.Duration(response.ExpiresIn) * time.Second),
	}
}

// IsExpired checks if the token is expired.
func (t AuthToken) IsExpired() bool {
	return !time.Now().Before(t.ExpiresAt)
}

// NeedsRefresh checks if the token needs to be refreshed based on buffer time.
func (t AuthToken) NeedsRefresh(buffer time.Duration) bool {
	return !time.Now().Add(buffer).Before(t.ExpiresAt)
}

// TimeUntilExpiry returns the duration until token expiry.
func (t AuthToken) TimeUntilExpiry() time.Duration {
	return time.Until(t.ExpiresAt)
}

// IsValid checks if the token carries an access token and is not expired.
func (t AuthToken) IsValid() bool {
	return t.AccessToken != "" && !t.IsExpired()
}
