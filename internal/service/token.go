package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spotisheet/internal/domain"
	"spotisheet/internal/port"
)

// AccountStore is the slice of the persistence layer the services need.
type AccountStore interface {
	AccountByUserID(ctx context.Context, userID string) (*domain.Account, error)
	UpdateAccountToken(ctx context.Context, userID, accessToken, refreshToken string, expiresAt time.Time) error
}

// TokenRefresher exchanges a refresh token for a new access token.
type TokenRefresher interface {
	Refresh(ctx context.Context, clientID, clientSecret, refreshToken string) (*domain.TokenGrant, error)
}

// TokenService guarantees a valid access token exists before any Spotify
// call and persists refreshed credentials.
//
// There is no cross-request locking around the check-and-refresh sequence:
// two near-expiry requests from the same user may both refresh, and the
// last persisted token wins. Each request still holds its own valid token,
// so the race costs a redundant remote call, not correctness.
type TokenService struct {
	store        AccountStore
	refresher    TokenRefresher
	clientID     string
	clientSecret string
	margin       time.Duration
}

// NewTokenService creates a token service. margin is the remaining-lifetime
// threshold below which a token is treated as expired and refreshed
// proactively.
func NewTokenService(store AccountStore, refresher TokenRefresher, clientID, clientSecret string, margin time.Duration) *TokenService {
	return &TokenService{
		store:        store,
		refresher:    refresher,
		clientID:     clientID,
		clientSecret: clientSecret,
		margin:       margin,
	}
}

// AccessToken returns a guaranteed-valid access token for the account:
// the stored one when its remaining lifetime is at least the margin, a
// freshly refreshed and persisted one otherwise. The account is mutated in
// place on refresh so callers keep a consistent view.
func (s *TokenService) AccessToken(ctx context.Context, acct *domain.Account) (string, error) {
	if time.Until(acct.ExpiresAt) >= s.margin {
		return acct.AccessToken, nil
	}

	if s.clientID == "" || s.clientSecret == "" {
		return "", fmt.Errorf("refresh for user %s: %w", acct.UserID, port.ErrConfiguration)
	}

	grant, err := s.refresher.Refresh(ctx, s.clientID, s.clientSecret, acct.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh for user %s: %w", acct.UserID, err)
	}

	// Spotify does not always rotate refresh tokens.
	refreshToken := grant.RefreshToken
	if refreshToken == "" {
		refreshToken = acct.RefreshToken
	}

	// The in-memory token is only trusted once it is durable; a concurrent
	// request could otherwise read stale data and refresh again.
	if err := s.store.UpdateAccountToken(ctx, acct.UserID, grant.AccessToken, refreshToken, grant.ExpiresAt); err != nil {
		return "", fmt.Errorf("persist refreshed token: %w", err)
	}

	acct.AccessToken = grant.AccessToken
	acct.RefreshToken = refreshToken
	acct.ExpiresAt = grant.ExpiresAt

	slog.Info("access token refreshed", "user_id", acct.UserID, "expires_at", grant.ExpiresAt)
	return grant.AccessToken, nil
}
