package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"spotisheet/internal/domain"
)

const (
	spotifyAuthURL    = "https://accounts.spotify.com/authorize"
	spotifyTokenURL   = "https://accounts.spotify.com/api/token"
	spotifyProfileURL = "https://api.spotify.com/v1/me"
)

// SpotifyProvider implements port.AuthProvider for the Spotify
// authorization-code flow.
type SpotifyProvider struct {
	config     *oauth2.Config
	httpClient *http.Client
	profileURL string
}

// NewSpotifyProvider creates a new Spotify OAuth provider.
func NewSpotifyProvider(clientID, clientSecret, redirectURL string) *SpotifyProvider {
	return &SpotifyProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"user-read-private",
				"user-read-email",
				"playlist-read-private",
				"playlist-read-collaborative",
			},
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyAuthURL,
				TokenURL: spotifyTokenURL,
			},
		},
		httpClient: &http.Client{},
		profileURL: spotifyProfileURL,
	}
}

// AuthURL returns the Spotify consent screen URL.
func (p *SpotifyProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for an access/refresh token pair.
func (p *SpotifyProvider) Exchange(ctx context.Context, code string) (*domain.TokenGrant, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("spotify: exchange code: %w", err)
	}
	return &domain.TokenGrant{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}, nil
}

// Profile fetches the authenticated user's Spotify profile.
func (p *SpotifyProvider) Profile(ctx context.Context, accessToken string) (*domain.SpotifyProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("spotify: create profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spotify: fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("spotify: profile fetch failed (%d): %s", resp.StatusCode, string(body))
	}

	var profile struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		Email       string `json:"email"`
		Images      []struct {
			URL string `json:"url"`
		} `json:"images"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("spotify: decode profile: %w", err)
	}

	out := &domain.SpotifyProfile{
		ID:          profile.ID,
		DisplayName: profile.DisplayName,
		Email:       profile.Email,
	}
	if len(profile.Images) > 0 {
		out.AvatarURL = profile.Images[0].URL
	}
	return out, nil
}
