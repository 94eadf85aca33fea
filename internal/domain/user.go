package domain

import "time"

// User represents an authenticated user in the system.
type User struct {
	ID          string    `json:"id"           db:"id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Email       string    `json:"email"        db:"email"`
	AvatarURL   string    `json:"avatar_url"   db:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"   db:"updated_at"`
}

// SpotifyProfile is the subset of a Spotify user profile the service reads.
type SpotifyProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatar_url"`
}

// TokenGrant holds the OAuth2 tokens returned by Spotify after a code
// exchange or a refresh-token grant.
type TokenGrant struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// UserContext is the authenticated user context injected into request handlers.
type UserContext struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	SpotifyID string `json:"spotify_id"`
}
