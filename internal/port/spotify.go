package port

import (
	"context"

	"spotisheet/internal/domain"
)

// Remote page-size maxima, empirically the largest limits each endpoint
// accepts.
const (
	PlaylistPageSize = 50
	TrackPageSize    = 100
)

// SpotifyAPI abstracts the Spotify Web API endpoints the export pipeline
// reads. Every call is bearer-token authenticated.
type SpotifyAPI interface {
	// User fetches a Spotify user profile. Besides the display-name lookup
	// this doubles as the existence/permission probe: a 403 from the remote
	// API surfaces as ErrForbidden, any other non-200 as ErrNotFound.
	User(ctx context.Context, token, spotifyID string) (*domain.SpotifyProfile, error)

	// Playlists fetches one page of up to 50 playlist summaries for an
	// account, starting at offset.
	Playlists(ctx context.Context, token, spotifyID string, offset int) (*domain.PlaylistPage, error)

	// PlaylistTracks fetches one page of up to 100 track items of a
	// playlist, starting at offset.
	PlaylistTracks(ctx context.Context, token, ownerID, playlistID string, offset int) (*domain.TrackPage, error)
}
