package spotify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"spotisheet/internal/domain"
	"spotisheet/internal/port"
)

// DefaultAccountsURL is the production Spotify accounts service base URL.
const DefaultAccountsURL = "https://accounts.spotify.com"

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Error        string `json:"error"`
	ErrorDesc    string `json:"error_description"`
}

// TokenClient talks to the Spotify accounts service token endpoint.
type TokenClient struct {
	http *resty.Client
}

// NewTokenClient creates a token client for the given accounts base URL.
func NewTokenClient(baseURL string) *TokenClient {
	return &TokenClient{http: resty.New().SetBaseURL(baseURL)}
}

// Refresh exchanges a refresh token for a new access token using the OAuth
// refresh-token grant. Spotify does not always rotate refresh tokens; the
// returned grant carries an empty RefreshToken when the old one remains
// valid and the caller keeps it.
func (c *TokenClient) Refresh(ctx context.Context, clientID, clientSecret, refreshToken string) (*domain.TokenGrant, error) {
	var body tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(clientID, clientSecret).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": refreshToken,
		}).
		SetResult(&body).
		Post("/api/token")
	if err != nil {
		return nil, fmt.Errorf("refresh token request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("refresh token (status %d): %w", resp.StatusCode(), port.ErrTokenRefresh)
	}
	if body.AccessToken == "" {
		return nil, fmt.Errorf("refresh token: no access token in response: %w", port.ErrTokenRefresh)
	}

	return &domain.TokenGrant{
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(body.ExpiresIn) * time.Second),
	}, nil
}
