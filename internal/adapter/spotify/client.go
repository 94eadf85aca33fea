// Spotify Web API client used by the export pipeline.
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"spotisheet/internal/domain"
	"spotisheet/internal/port"
)

// DefaultAPIURL is the production Spotify Web API base URL.
const DefaultAPIURL = "https://api.spotify.com/v1"

type externalURLs struct {
	Spotify string `json:"spotify"`
}

type apiOwner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type apiImage struct {
	URL string `json:"url"`
}

type apiUser struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email"`
	Images      []apiImage `json:"images"`
}

type apiPlaylistTracksRef struct {
	Href  string `json:"href"`
	Total int    `json:"total"`
}

type apiSimplePlaylist struct {
	ID     string               `json:"id"`
	Name   string               `json:"name"`
	Owner  apiOwner             `json:"owner"`
	Tracks apiPlaylistTracksRef `json:"tracks"`
}

type apiPlaylistPage struct {
	Items  []apiSimplePlaylist `json:"items"`
	Total  int                 `json:"total"`
	Offset int                 `json:"offset"`
}

type apiArtist struct {
	Name string `json:"name"`
}

type apiAlbum struct {
	Name         string       `json:"name"`
	ExternalURLs externalURLs `json:"external_urls"`
}

type apiTrack struct {
	Name         string       `json:"name"`
	Artists      []apiArtist  `json:"artists"`
	Album        apiAlbum     `json:"album"`
	ExternalURLs externalURLs `json:"external_urls"`
	IsLocal      bool         `json:"is_local"`
}

type apiAddedBy struct {
	ID           string       `json:"id"`
	ExternalURLs externalURLs `json:"external_urls"`
}

type apiPlaylistTrack struct {
	AddedAt string     `json:"added_at"`
	AddedBy apiAddedBy `json:"added_by"`
	Track   *apiTrack  `json:"track"`
}

type apiTrackPage struct {
	Href   string             `json:"href"`
	Items  []apiPlaylistTrack `json:"items"`
	Total  int                `json:"total"`
	Offset int                `json:"offset"`
}

// Client implements port.SpotifyAPI against the Spotify Web API.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for the given API base URL.
func NewClient(baseURL string) *Client {
	return &Client{http: resty.New().SetBaseURL(baseURL)}
}

// User fetches a Spotify user profile. A 403 is classified as
// port.ErrForbidden, any other non-200 as port.ErrNotFound, so callers can
// tell a policy rejection from an invalid id.
func (c *Client) User(ctx context.Context, token, spotifyID string) (*domain.SpotifyProfile, error) {
	var user apiUser
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("id", spotifyID).
		SetResult(&user).
		Get("/users/{id}")
	if err != nil {
		return nil, fmt.Errorf("fetch user %s: %w", spotifyID, err)
	}

	switch {
	case resp.StatusCode() == http.StatusOK:
	case resp.StatusCode() == http.StatusForbidden:
		return nil, fmt.Errorf("user %s: %w", spotifyID, port.ErrForbidden)
	default:
		return nil, fmt.Errorf("user %s (status %d): %w", spotifyID, resp.StatusCode(), port.ErrNotFound)
	}

	profile := &domain.SpotifyProfile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
	}
	if len(user.Images) > 0 {
		profile.AvatarURL = user.Images[0].URL
	}
	return profile, nil
}

// Playlists fetches one page of playlist summaries for an account.
func (c *Client) Playlists(ctx context.Context, token, spotifyID string, offset int) (*domain.PlaylistPage, error) {
	var page apiPlaylistPage
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParam("id", spotifyID).
		SetQueryParams(map[string]string{
			"limit":  strconv.Itoa(port.PlaylistPageSize),
			"offset": strconv.Itoa(offset),
		}).
		SetResult(&page).
		Get("/users/{id}/playlists")
	if err != nil {
		return nil, fmt.Errorf("fetch playlists of %s: %w", spotifyID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("playlists of %s at offset %d (status %d): %w",
			spotifyID, offset, resp.StatusCode(), port.ErrUpstream)
	}

	out := &domain.PlaylistPage{Total: page.Total, Offset: page.Offset}
	for _, p := range page.Items {
		out.Items = append(out.Items, domain.PlaylistSummary{
			ID:         p.ID,
			Name:       p.Name,
			OwnerID:    p.Owner.ID,
			TrackCount: p.Tracks.Total,
			TracksHref: p.Tracks.Href,
		})
	}
	return out, nil
}

// PlaylistTracks fetches one page of track items of a playlist. Null track
// entries (removed or unavailable tracks) are dropped.
func (c *Client) PlaylistTracks(ctx context.Context, token, ownerID, playlistID string, offset int) (*domain.TrackPage, error) {
	var page apiTrackPage
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetPathParams(map[string]string{
			"owner":    ownerID,
			"playlist": playlistID,
		}).
		SetQueryParams(map[string]string{
			"limit":  strconv.Itoa(port.TrackPageSize),
			"offset": strconv.Itoa(offset),
		}).
		SetResult(&page).
		Get("/users/{owner}/playlists/{playlist}/tracks")
	if err != nil {
		return nil, fmt.Errorf("fetch tracks of %s: %w", playlistID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("tracks of %s at offset %d (status %d): %w",
			playlistID, offset, resp.StatusCode(), port.ErrUpstream)
	}

	out := &domain.TrackPage{
		PlaylistID: playlistID,
		Offset:     offset,
		Href:       page.Href,
		Total:      page.Total,
	}
	for _, item := range page.Items {
		if item.Track == nil {
			continue
		}
		track := domain.Track{
			Name:      item.Track.Name,
			AlbumName: item.Track.Album.Name,
			AlbumURL:  item.Track.Album.ExternalURLs.Spotify,
			URL:       item.Track.ExternalURLs.Spotify,
			IsLocal:   item.Track.IsLocal,
		}
		for _, a := range item.Track.Artists {
			track.Artists = append(track.Artists, a.Name)
		}
		out.Items = append(out.Items, domain.PlaylistTrack{
			AddedAt:    item.AddedAt,
			AddedByID:  item.AddedBy.ID,
			AddedByURL: item.AddedBy.ExternalURLs.Spotify,
			Track:      track,
		})
	}
	return out, nil
}
