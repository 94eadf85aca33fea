package port

import (
	"context"

	"spotisheet/internal/domain"
)

// AuthProvider abstracts the OAuth2 login handshake with Spotify.
type AuthProvider interface {
	// AuthURL returns the full authorization URL for redirecting the user
	// to the Spotify consent screen.
	AuthURL(state string) string

	// Exchange trades an authorization code for an access/refresh token pair.
	Exchange(ctx context.Context, code string) (*domain.TokenGrant, error)

	// Profile fetches the authenticated user's Spotify profile.
	Profile(ctx context.Context, accessToken string) (*domain.SpotifyProfile, error)
}
