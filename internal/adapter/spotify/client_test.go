package spotify

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spotisheet/internal/port"
)

func TestClientUser(t *testing.T) {
	t.Run("Profile Parsed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/users/wizzler" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer tok" {
				t.Errorf("unexpected authorization header %q", got)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"id": "wizzler",
				"display_name": "JM Wizzler",
				"email": "wizzler@example.com",
				"images": [{"url": "https://i.scdn.co/image/abc"}]
			}`))
		}))
		defer srv.Close()

		profile, err := NewClient(srv.URL).User(context.Background(), "tok", "wizzler")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if profile.ID != "wizzler" || profile.DisplayName != "JM Wizzler" {
			t.Errorf("unexpected profile %+v", profile)
		}
		if profile.AvatarURL != "https://i.scdn.co/image/abc" {
			t.Errorf("unexpected avatar url %q", profile.AvatarURL)
		}
	})

	t.Run("Forbidden", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).User(context.Background(), "tok", "someone")
		if !errors.Is(err, port.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("Other Statuses Mean Not Found", func(t *testing.T) {
		for _, status := range []int{http.StatusNotFound, http.StatusBadRequest, http.StatusInternalServerError} {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(status)
			}))
			_, err := NewClient(srv.URL).User(context.Background(), "tok", "ghost")
			srv.Close()
			if !errors.Is(err, port.ErrNotFound) {
				t.Fatalf("status %d: expected ErrNotFound, got %v", status, err)
			}
		}
	})
}

func TestClientPlaylists(t *testing.T) {
	t.Run("Page Parsed With Limit And Offset", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/users/wizzler/playlists" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			q := r.URL.Query()
			if q.Get("limit") != "50" || q.Get("offset") != "100" {
				t.Errorf("unexpected query %v", q)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"items": [{
					"id": "53Y8wT46QIMz5H4WQ8O22c",
					"name": "Wizzlers Big Playlist",
					"owner": {"id": "wizzler"},
					"tracks": {
						"href": "https://api.spotify.com/v1/users/wizzler/playlists/53Y8wT46QIMz5H4WQ8O22c/tracks",
						"total": 30
					}
				}],
				"total": 108,
				"offset": 100
			}`))
		}))
		defer srv.Close()

		page, err := NewClient(srv.URL).Playlists(context.Background(), "tok", "wizzler", 100)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if page.Total != 108 || page.Offset != 100 {
			t.Errorf("unexpected page meta %+v", page)
		}
		if len(page.Items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(page.Items))
		}
		p := page.Items[0]
		if p.ID != "53Y8wT46QIMz5H4WQ8O22c" || p.OwnerID != "wizzler" || p.TrackCount != 30 {
			t.Errorf("unexpected summary %+v", p)
		}
		if p.TracksHref == "" {
			t.Error("tracks href must be carried through")
		}
	})

	t.Run("Error Status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).Playlists(context.Background(), "tok", "wizzler", 0)
		if !errors.Is(err, port.ErrUpstream) {
			t.Fatalf("expected ErrUpstream, got %v", err)
		}
	})
}

func TestClientPlaylistTracks(t *testing.T) {
	t.Run("Items Parsed And Null Tracks Dropped", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/users/wizzler/playlists/p1/tracks" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			q := r.URL.Query()
			if q.Get("limit") != "100" || q.Get("offset") != "200" {
				t.Errorf("unexpected query %v", q)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"href": "https://api.spotify.com/v1/users/wizzler/playlists/p1/tracks",
				"items": [
					{
						"added_at": "2014-08-18T17:40:21Z",
						"added_by": {"id": "wizzler", "external_urls": {"spotify": "https://open.spotify.com/user/wizzler"}},
						"track": {
							"name": "Time",
							"artists": [{"name": "Hans Zimmer"}, {"name": "Satellite Empire"}],
							"album": {"name": "Inception", "external_urls": {"spotify": "https://open.spotify.com/album/a1"}},
							"external_urls": {"spotify": "https://open.spotify.com/track/t1"},
							"is_local": false
						}
					},
					{
						"added_at": "2015-01-01T00:00:00Z",
						"added_by": {"id": "wizzler"},
						"track": null
					},
					{
						"added_at": "2016-02-02T00:00:00Z",
						"added_by": {"id": "wizzler"},
						"track": {
							"name": "Basement Tape",
							"artists": [{"name": "Unknown"}],
							"album": {"name": ""},
							"external_urls": {},
							"is_local": true
						}
					}
				],
				"total": 230,
				"offset": 200
			}`))
		}))
		defer srv.Close()

		page, err := NewClient(srv.URL).PlaylistTracks(context.Background(), "tok", "wizzler", "p1", 200)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if page.PlaylistID != "p1" || page.Offset != 200 || page.Total != 230 {
			t.Errorf("unexpected page meta %+v", page)
		}
		if len(page.Items) != 2 {
			t.Fatalf("expected null track dropped, got %d items", len(page.Items))
		}

		first := page.Items[0]
		if first.Track.Name != "Time" {
			t.Errorf("unexpected track %+v", first.Track)
		}
		if len(first.Track.Artists) != 2 || first.Track.Artists[1] != "Satellite Empire" {
			t.Errorf("unexpected artists %v", first.Track.Artists)
		}
		if first.AddedByURL != "https://open.spotify.com/user/wizzler" {
			t.Errorf("unexpected added-by url %q", first.AddedByURL)
		}

		local := page.Items[1]
		if !local.Track.IsLocal || local.Track.URL != "" {
			t.Errorf("expected local track without url, got %+v", local.Track)
		}
	})

	t.Run("Error Status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).PlaylistTracks(context.Background(), "tok", "wizzler", "p1", 0)
		if !errors.Is(err, port.ErrUpstream) {
			t.Fatalf("expected ErrUpstream, got %v", err)
		}
	})
}

func TestTokenClientRefresh(t *testing.T) {
	t.Run("Grant Parsed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/token" {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("cid:csecret"))
			if got := r.Header.Get("Authorization"); got != wantAuth {
				t.Errorf("unexpected authorization header %q", got)
			}
			if err := r.ParseForm(); err != nil {
				t.Fatalf("parse form: %v", err)
			}
			if r.PostForm.Get("grant_type") != "refresh_token" || r.PostForm.Get("refresh_token") != "old-refresh" {
				t.Errorf("unexpected form %v", r.PostForm)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token": "new-access", "refresh_token": "new-refresh", "expires_in": 3600}`))
		}))
		defer srv.Close()

		before := time.Now()
		grant, err := NewTokenClient(srv.URL).Refresh(context.Background(), "cid", "csecret", "old-refresh")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if grant.AccessToken != "new-access" || grant.RefreshToken != "new-refresh" {
			t.Errorf("unexpected grant %+v", grant)
		}
		expiry := grant.ExpiresAt.Sub(before)
		if expiry < 59*time.Minute || expiry > 61*time.Minute {
			t.Errorf("expected roughly one hour of validity, got %v", expiry)
		}
	})

	t.Run("Rotation Is Optional", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token": "new-access", "expires_in": 3600}`))
		}))
		defer srv.Close()

		grant, err := NewTokenClient(srv.URL).Refresh(context.Background(), "cid", "csecret", "old-refresh")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if grant.RefreshToken != "" {
			t.Errorf("expected empty refresh token when not rotated, got %q", grant.RefreshToken)
		}
	})

	t.Run("Error Status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "invalid_grant", "error_description": "Refresh token revoked"}`))
		}))
		defer srv.Close()

		_, err := NewTokenClient(srv.URL).Refresh(context.Background(), "cid", "csecret", "revoked")
		if !errors.Is(err, port.ErrTokenRefresh) {
			t.Fatalf("expected ErrTokenRefresh, got %v", err)
		}
	})

	t.Run("Missing Access Token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		_, err := NewTokenClient(srv.URL).Refresh(context.Background(), "cid", "csecret", "old-refresh")
		if !errors.Is(err, port.ErrTokenRefresh) {
			t.Fatalf("expected ErrTokenRefresh, got %v", err)
		}
	})
}
