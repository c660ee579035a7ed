// package format renders API objects for the terminal and writes playlist
// exports in various formats (CSV, Markdown, plain text, JSON).
package format

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/verdeloop/spotify"
)

var styles = NewPalette("#1DB954", "#04B575", "#FF0000", "#FFA500", "#626262")

// Palette is a simple stylesheet built with named [lipgloss.Style] fields.
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Title renders a section heading.
func Title(text string) string { return styles.title.Render(text) }

// Success renders a success message.
func Success(text string) string { return styles.ok.Render(text) }

// Error renders an error message.
func Error(text string) string { return styles.err.Render(text) }

// Warning renders a warning message.
func Warning(text string) string { return styles.warn.Render(text) }

// Help renders secondary help text.
func Help(text string) string { return styles.help.Render(text) }

// FormatDuration renders a track duration in milliseconds as m:ss.
func FormatDuration(ms int) string {
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// ArtistNames joins the names of the given artists with commas.
func ArtistNames(artists []spotify.SimplifiedArtist) string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}

// RenderPlaylists renders a numbered playlist listing.
func RenderPlaylists(playlists []spotify.SimplifiedPlaylist) string {
	var b strings.Builder
	for i, p := range playlists {
		owner := ""
		if p.Owner.DisplayName != "" {
			owner = styles.help.Render(" by " + p.Owner.DisplayName)
		}
		fmt.Fprintf(&b, "%d. %s%s (%d tracks)\n", i+1, p.Name, owner, p.Tracks.Total)
	}
	return b.String()
}

// RenderTracks renders a numbered track listing with artists and durations.
func RenderTracks(tracks []spotify.Track) string {
	var b strings.Builder
	for i, t := range tracks {
		fmt.Fprintf(&b, "%d. %s - %s [%s]\n", i+1, ArtistNames(t.Artists), t.Name, FormatDuration(t.DurationMS))
	}
	return b.String()
}

// RenderAlbums renders a numbered album listing.
func RenderAlbums(albums []spotify.SimplifiedAlbum) string {
	var b strings.Builder
	for i, a := range albums {
		fmt.Fprintf(&b, "%d. %s - %s (%s)\n", i+1, ArtistNames(a.Artists), a.Name, a.ReleaseDate)
	}
	return b.String()
}

// RenderPlaybackState renders the current playback state for the player
// status command.
func RenderPlaybackState(state *spotify.PlaybackState) string {
	if state == nil || state.Item == nil {
		return styles.help.Render("Nothing playing") + "\n"
	}

	var b strings.Builder
	verb := "Paused"
	if state.IsPlaying {
		verb = "Playing"
	}

	fmt.Fprintf(&b, "%s %s - %s\n", styles.ok.Render(verb+":"), ArtistNames(state.Item.Artists), state.Item.Name)
	fmt.Fprintf(&b, "  %s / %s", FormatDuration(state.ProgressMS), FormatDuration(state.Item.DurationMS))
	if state.Device != nil && state.Device.Name != "" {
		fmt.Fprintf(&b, " on %s", state.Device.Name)
	}
	b.WriteString("\n")
	return b.String()
}
