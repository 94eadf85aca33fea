package service

import (
	"fmt"
	"strings"

	"spotisheet/internal/domain"
	"spotisheet/internal/port"
)

// Worksheet column layout.
const (
	colArtist = iota + 1
	colTrack
	colAlbum
	colTrackURL
	colAddedAt
	colAddedBy
	columnCount = colAddedBy
)

const playlistURLPrefix = "https://open.spotify.com/playlist/"

// writeWorkbook renders one worksheet per non-empty merged playlist. An
// account without playlists gets a single informational sheet. Playlists
// whose merged track list is empty get no sheet.
func writeWorkbook(wb port.Workbook, merged []domain.MergedPlaylist, names map[string]string) error {
	sheets := 0
	used := make(map[string]struct{})
	for _, pl := range merged {
		if len(pl.Items) == 0 {
			continue
		}
		name := worksheetName(names[pl.ID], used)
		used[name] = struct{}{}

		sheet, err := wb.AddSheet(name)
		if err != nil {
			return err
		}
		if err := writePlaylistSheet(sheet, pl, names[pl.ID]); err != nil {
			return fmt.Errorf("sheet %q: %w", name, err)
		}
		sheets++
	}

	if sheets == 0 {
		sheet, err := wb.AddSheet("No Playlists")
		if err != nil {
			return err
		}
		return sheet.WriteMergedCell(1, 1, 4, "This account has no playlists", port.StyleHeader)
	}
	return nil
}

// writePlaylistSheet writes the fixed layout of one playlist: a merged
// title row, the playlist URL, the column header row, then one row per
// track.
func writePlaylistSheet(sheet port.Sheet, pl domain.MergedPlaylist, playlistName string) error {
	if err := sheet.WriteMergedCell(1, 1, columnCount, playlistName, port.StyleHeader); err != nil {
		return err
	}

	if err := sheet.WriteCell(2, 1, "Playlist URL:", port.StyleNormal); err != nil {
		return err
	}
	playlistURL := playlistURLPrefix + pl.ID
	if err := sheet.WriteMergedLink(2, 2, columnCount-1, playlistURL, "", ""); err != nil {
		return err
	}

	headers := []string{"Artist", "Track", "Album", "Spotify URL", "Added at", "Added by"}
	for col, header := range headers {
		if err := sheet.WriteCell(3, col+1, header, port.StyleHeader); err != nil {
			return err
		}
	}

	row := 4
	for _, item := range pl.Items {
		if err := writeTrackRow(sheet, row, item); err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
		row++
	}
	return nil
}

func writeTrackRow(sheet port.Sheet, row int, item domain.PlaylistTrack) error {
	track := item.Track

	if err := sheet.WriteCell(row, colArtist, strings.Join(track.Artists, "; "), port.StyleNormal); err != nil {
		return err
	}
	if err := sheet.WriteCell(row, colTrack, track.Name, port.StyleNormal); err != nil {
		return err
	}

	if track.AlbumURL != "" {
		if err := sheet.WriteLink(row, colAlbum, track.AlbumURL, track.AlbumName, ""); err != nil {
			return err
		}
	} else {
		if err := sheet.WriteCell(row, colAlbum, track.AlbumName, port.StyleNormal); err != nil {
			return err
		}
	}

	// Local files have no Spotify page.
	if track.URL != "" {
		if err := sheet.WriteLink(row, colTrackURL, track.URL, "", ""); err != nil {
			return err
		}
	} else {
		if err := sheet.WriteCell(row, colTrackURL, "Local", port.StyleNormal); err != nil {
			return err
		}
	}

	if err := sheet.WriteCell(row, colAddedAt, item.AddedAt, port.StyleNormal); err != nil {
		return err
	}

	if item.AddedByURL != "" {
		tooltip := "Added by Spotify id " + item.AddedByID
		return sheet.WriteLink(row, colAddedBy, item.AddedByURL, item.AddedByID, tooltip)
	}
	return sheet.WriteCell(row, colAddedBy, item.AddedByID, port.StyleNormal)
}
