package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spotisheet/internal/domain"
	"spotisheet/internal/middleware"
	"spotisheet/internal/port"
)

// UserStore persists the user identity together with its credential record.
type UserStore interface {
	UpsertUserAccount(ctx context.Context, p *domain.SpotifyProfile, grant *domain.TokenGrant) (*domain.User, error)
}

// AuthService handles the Spotify login flow.
type AuthService struct {
	provider port.AuthProvider
	store    UserStore
	jwtCfg   middleware.JWTConfig
}

// NewAuthService creates a new authentication service.
func NewAuthService(provider port.AuthProvider, store UserStore, jwtCfg middleware.JWTConfig) *AuthService {
	return &AuthService{provider: provider, store: store, jwtCfg: jwtCfg}
}

// AuthURL returns the Spotify consent screen URL for the given state.
func (s *AuthService) AuthURL(state string) string {
	return s.provider.AuthURL(state)
}

// HandleCallback processes the OAuth callback: it exchanges the code,
// fetches the Spotify profile, persists user and credential, and returns a
// signed session token.
func (s *AuthService) HandleCallback(ctx context.Context, code string) (string, *domain.User, error) {
	grant, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("exchange code: %w", err)
	}

	profile, err := s.provider.Profile(ctx, grant.AccessToken)
	if err != nil {
		return "", nil, fmt.Errorf("get profile: %w", err)
	}

	user, err := s.store.UpsertUserAccount(ctx, profile, grant)
	if err != nil {
		return "", nil, fmt.Errorf("upsert user account: %w", err)
	}

	jwt, err := middleware.GenerateJWT(user, profile.ID, s.jwtCfg)
	if err != nil {
		return "", nil, fmt.Errorf("generate jwt: %w", err)
	}

	slog.Info("user authenticated", "user_id", user.ID, "spotify_id", profile.ID)
	return jwt, user, nil
}

// JWTConfigFor builds the middleware configuration from raw settings.
func JWTConfigFor(secret, issuer string, expirationHours int) middleware.JWTConfig {
	return middleware.JWTConfig{
		Secret:    secret,
		Issuer:    issuer,
		ExpiresIn: time.Duration(expirationHours) * time.Hour,
	}
}
