package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"spotisheet/internal/domain"
	"spotisheet/internal/port"
)

// ExportTarget selects whose playlists to export.
type ExportTarget struct {
	// Own selects the logged-in user's Spotify account. When false,
	// SpotifyID names the target account; blank falls back to the user's
	// own account.
	Own       bool
	SpotifyID string
}

// ExportResult is the finished spreadsheet artifact.
type ExportResult struct {
	Filename string
	Data     []byte
}

// ExportService runs the playlist-aggregation pipeline: token check,
// existence probe, playlist listing, concurrent track-page fetch, merge,
// workbook assembly. Failures are all-or-nothing; no partial spreadsheet
// is ever returned.
type ExportService struct {
	store       AccountStore
	tokens      *TokenService
	api         port.SpotifyAPI
	newWorkbook func() (port.Workbook, error)
}

// NewExportService creates the export service. newWorkbook is invoked once
// per export to obtain a fresh workbook.
func NewExportService(store AccountStore, tokens *TokenService, api port.SpotifyAPI, newWorkbook func() (port.Workbook, error)) *ExportService {
	return &ExportService{
		store:       store,
		tokens:      tokens,
		api:         api,
		newWorkbook: newWorkbook,
	}
}

// Export collects every playlist owned by the target account and renders
// one worksheet per non-empty playlist.
func (s *ExportService) Export(ctx context.Context, userID string, target ExportTarget) (*ExportResult, error) {
	acct, token, err := s.validAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	spotifyID := acct.ProviderAccountID
	if !target.Own {
		if id := strings.TrimSpace(target.SpotifyID); id != "" {
			spotifyID = id
		}
	}

	// Existence/permission gate; the profile also supplies the file name.
	profile, err := s.api.User(ctx, token, spotifyID)
	if err != nil {
		return nil, err
	}

	summaries, err := s.listPlaylists(ctx, token, spotifyID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(summaries))
	for _, p := range summaries {
		names[p.ID] = p.Name
	}

	pages, err := s.fetchTrackPages(ctx, token, spotifyID, summaries)
	if err != nil {
		return nil, err
	}
	merged := mergeTrackPages(pages)

	wb, err := s.newWorkbook()
	if err != nil {
		return nil, fmt.Errorf("create workbook: %w", err)
	}
	if err := writeWorkbook(wb, merged, names); err != nil {
		return nil, err
	}
	data, err := wb.Bytes()
	if err != nil {
		return nil, err
	}

	slog.Info("playlists exported",
		"user_id", userID,
		"spotify_id", spotifyID,
		"playlists", len(summaries),
		"sheets", len(merged),
		"bytes", len(data),
	)
	return &ExportResult{Filename: exportFilename(profile, spotifyID), Data: data}, nil
}

// VerifyPermission pre-flights an export: it validates the stored account,
// ensures a valid token and probes the Spotify API with the user's own
// account id. A port.ErrForbidden result means the caller may not query
// third-party accounts.
func (s *ExportService) VerifyPermission(ctx context.Context, userID string) error {
	acct, token, err := s.validAccount(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.api.User(ctx, token, acct.ProviderAccountID); err != nil {
		return err
	}
	return nil
}

// validAccount loads the persisted account record and runs it through the
// token guardian.
func (s *ExportService) validAccount(ctx context.Context, userID string) (*domain.Account, string, error) {
	if userID == "" {
		return nil, "", port.ErrSession
	}
	acct, err := s.store.AccountByUserID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if !acct.Complete() {
		return nil, "", fmt.Errorf("account for user %s: %w", userID, port.ErrAccountState)
	}
	token, err := s.tokens.AccessToken(ctx, acct)
	if err != nil {
		return nil, "", err
	}
	return acct, token, nil
}

// listPlaylists paginates the complete playlist summary collection.
// Pages are fetched sequentially because the total is unknown until the
// first response; any page error aborts the listing and partial results
// are discarded.
func (s *ExportService) listPlaylists(ctx context.Context, token, spotifyID string) ([]domain.PlaylistSummary, error) {
	var all []domain.PlaylistSummary
	for offset := 0; ; offset = len(all) {
		page, err := s.api.Playlists(ctx, token, spotifyID, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if len(all) >= page.Total || len(page.Items) == 0 {
			return all, nil
		}
	}
}

// pageRequest is one track-page fetch, tagged with its logical key at
// dispatch time so the merge stage never relies on completion order.
type pageRequest struct {
	playlistID string
	offset     int
}

// buildPageRequests constructs the full request batch upfront: for each
// playlist owned by the target account with N tracks, ⌈N/100⌉ requests at
// offsets 0, 100, 200, … Zero-track playlists are skipped entirely.
// Playlists merely followed by the account are excluded.
func buildPageRequests(summaries []domain.PlaylistSummary, ownerID string) []pageRequest {
	var reqs []pageRequest
	for _, p := range summaries {
		if p.OwnerID != ownerID {
			continue
		}
		for offset := 0; offset < p.TrackCount; offset += port.TrackPageSize {
			reqs = append(reqs, pageRequest{playlistID: p.ID, offset: offset})
		}
	}
	return reqs
}

// fetchTrackPages dispatches the whole page-request batch concurrently and
// waits for all of it. A single failing page fails the batch; the export
// does not support partial playlist output.
func (s *ExportService) fetchTrackPages(ctx context.Context, token, spotifyID string, summaries []domain.PlaylistSummary) ([]*domain.TrackPage, error) {
	reqs := buildPageRequests(summaries, spotifyID)
	results := make([]*domain.TrackPage, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		g.Go(func() error {
			page, err := s.api.PlaylistTracks(gctx, token, spotifyID, req.playlistID, req.offset)
			if err != nil {
				return err
			}
			page.PlaylistID = req.playlistID
			page.Offset = req.offset
			results[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// playlistIDFromHref extracts the playlist id from a tracks href, the
// substring between "playlists/" and "/tracks".
func playlistIDFromHref(href string) string {
	const marker = "playlists/"
	start := strings.Index(href, marker)
	end := strings.Index(href, "/tracks")
	if start < 0 || end < 0 || start+len(marker) > end {
		return ""
	}
	return href[start+len(marker) : end]
}

// mergeTrackPages reduces the unordered page results into one merged
// playlist per playlist id, in first-seen order. Pages of a playlist are
// sorted by offset before concatenation so row order matches the playlist
// even when requests completed out of sequence.
func mergeTrackPages(pages []*domain.TrackPage) []domain.MergedPlaylist {
	grouped := make(map[string][]*domain.TrackPage)
	var order []string
	for _, page := range pages {
		id := playlistIDFromHref(page.Href)
		if id == "" {
			id = page.PlaylistID
		}
		if _, seen := grouped[id]; !seen {
			order = append(order, id)
		}
		grouped[id] = append(grouped[id], page)
	}

	merged := make([]domain.MergedPlaylist, 0, len(order))
	for _, id := range order {
		group := grouped[id]
		sort.Slice(group, func(i, j int) bool { return group[i].Offset < group[j].Offset })
		mp := domain.MergedPlaylist{ID: id, Href: group[0].Href}
		for _, page := range group {
			mp.Items = append(mp.Items, page.Items...)
		}
		merged = append(merged, mp)
	}
	return merged
}

// exportFilename derives the attachment name from the account's display
// name, falling back to the Spotify id. Whitespace runs become underscores.
func exportFilename(profile *domain.SpotifyProfile, spotifyID string) string {
	name := spotifyID
	if fields := strings.Fields(profile.DisplayName); len(fields) > 0 {
		name = strings.Join(fields, "_")
	}
	return name + ".xlsx"
}
