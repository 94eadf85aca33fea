package domain

// PlaylistSummary is the lightweight playlist descriptor returned by the
// listing endpoint, distinct from its track contents.
type PlaylistSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	OwnerID    string `json:"owner_id"`
	TrackCount int    `json:"track_count"`
	TracksHref string `json:"tracks_href"`
}

// PlaylistPage is one paginated response from the playlist listing endpoint.
type PlaylistPage struct {
	Items  []PlaylistSummary `json:"items"`
	Total  int               `json:"total"`
	Offset int               `json:"offset"`
}

// Track holds the fields of a track that end up in the spreadsheet.
// URL is empty for local files, which have no Spotify page.
type Track struct {
	Name      string   `json:"name"`
	Artists   []string `json:"artists"`
	AlbumName string   `json:"album_name"`
	AlbumURL  string   `json:"album_url"`
	URL       string   `json:"url"`
	IsLocal   bool     `json:"is_local"`
}

// PlaylistTrack is a track within a playlist context.
type PlaylistTrack struct {
	AddedAt    string `json:"added_at"`
	AddedByID  string `json:"added_by_id"`
	AddedByURL string `json:"added_by_url"`
	Track      Track  `json:"track"`
}

// TrackPage is one paginated response of up to 100 track items for a single
// playlist. PlaylistID and Offset are tagged at dispatch time so pages can
// be keyed and ordered deterministically no matter in which order their
// requests complete.
type TrackPage struct {
	PlaylistID string          `json:"playlist_id"`
	Offset     int             `json:"offset"`
	Href       string          `json:"href"`
	Items      []PlaylistTrack `json:"items"`
	Total      int             `json:"total"`
}

// MergedPlaylist is the reduction of all track pages of one playlist into a
// single track list ordered by source page offset.
type MergedPlaylist struct {
	ID    string          `json:"id"`
	Href  string          `json:"href"`
	Items []PlaylistTrack `json:"items"`
}
