package format

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/verdeloop/spotify"
)

// TrackRow is one flattened track in a playlist export.
type TrackRow struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	DurationMS int    `json:"duration_ms"`
	ISRC       string `json:"isrc,omitempty"`
}

// PlaylistExport is the flattened form of a playlist written by the export
// command.
type PlaylistExport struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Owner       string     `json:"owner,omitempty"`
	Public      bool       `json:"public"`
	Tracks      []TrackRow `json:"tracks"`
}

// NewPlaylistExport flattens a playlist and its items into an export.
// Items whose track is missing (removed or unavailable) are skipped.
func NewPlaylistExport(playlist *spotify.Playlist, items []spotify.PlaylistTrack) *PlaylistExport {
	export := &PlaylistExport{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		Owner:       playlist.Owner.DisplayName,
		Public:      playlist.Public,
		Tracks:      make([]TrackRow, 0, len(items)),
	}

	for _, item := range items {
		if item.Track == nil {
			continue
		}
		export.Tracks = append(export.Tracks, TrackRow{
			ID:         item.Track.ID,
			Title:      item.Track.Name,
			Artist:     ArtistNames(item.Track.Artists),
			Album:      item.Track.Album.Name,
			DurationMS: item.Track.DurationMS,
			ISRC:       item.Track.ExternalIDs.ISRC,
		})
	}

	return export
}

// ExportToJSON converts a playlist export to indented JSON.
func ExportToJSON(export *PlaylistExport) ([]byte, error) {
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToCSV converts a playlist export to CSV with columns: ID, Title,
// Artist, Album, Duration, ISRC.
func ExportToCSV(export *PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration", "ISRC"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range export.Tracks {
		record := []string{
			track.ID,
			track.Title,
			track.Artist,
			track.Album,
			strconv.Itoa(track.DurationMS),
			track.ISRC,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a playlist export to Markdown.
func ExportToMarkdown(export *PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Name))

	if export.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", export.Description))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", len(export.Tracks)))
	buf.WriteString(fmt.Sprintf("**Visibility**: %s\n\n", visibilityString(export.Public)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range export.Tracks {
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, track.Artist, track.Title, albumPart, FormatDuration(track.DurationMS)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a playlist export to plain text.
func ExportToText(export *PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", export.Name))
	if export.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", export.Description))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(export.Tracks)))

	for i, track := range export.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.Title))
	}

	return buf.Bytes(), nil
}

func visibilityString(public bool) string {
	if public {
		return "Public"
	}
	return "Private"
}
