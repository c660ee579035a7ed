package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/verdeloop/spotify"
	"github.com/verdeloop/spotify/internal/format"
)

// Search searches the catalog and prints the results per type.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("a search query is required")
	}

	var types []spotify.SearchType
	for _, t := range strings.Split(cmd.String("type"), ",") {
		switch strings.TrimSpace(t) {
		case "track":
			types = append(types, spotify.SearchTrack)
		case "album":
			types = append(types, spotify.SearchAlbum)
		case "artist":
			types = append(types, spotify.SearchArtist)
		case "playlist":
			types = append(types, spotify.SearchPlaylist)
		case "":
		default:
			return fmt.Errorf("unknown search type %q", t)
		}
	}

	return r.withClient(cmd, func(client *spotify.Client) error {
		results, err := client.Search(query, types...).
			Limit(cmd.Int("limit")).
			Get(ctx)
		if err != nil {
			return err
		}

		if cmd.Bool("json") {
			return r.writeJSON(results, true)
		}

		if results.Tracks != nil && len(results.Tracks.Items) > 0 {
			r.writePlain("%s\n", format.Title("Tracks"))
			r.writePlain("%s\n", format.RenderTracks(results.Tracks.Items))
		}
		if results.Albums != nil && len(results.Albums.Items) > 0 {
			r.writePlain("%s\n", format.Title("Albums"))
			r.writePlain("%s\n", format.RenderAlbums(results.Albums.Items))
		}
		if results.Artists != nil && len(results.Artists.Items) > 0 {
			r.writePlain("%s\n", format.Title("Artists"))
			for i, a := range results.Artists.Items {
				r.writePlain("%d. %s\n", i+1, a.Name)
			}
			r.writePlain("\n")
		}
		if results.Playlists != nil && len(results.Playlists.Items) > 0 {
			r.writePlain("%s\n", format.Title("Playlists"))
			r.writePlain("%s\n", format.RenderPlaylists(results.Playlists.Items))
		}

		return nil
	})
}

// Album shows an album and its tracks.
func (r *Runner) Album(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("an album ID is required")
	}

	return r.withClient(cmd, func(client *spotify.Client) error {
		album, err := client.Album(id).Get(ctx)
		if err != nil {
			return err
		}

		if cmd.Bool("json") {
			return r.writeJSON(album, true)
		}

		r.writePlain("%s\n", format.Title(fmt.Sprintf("%s - %s", format.ArtistNames(album.Artists), album.Name)))
		r.writePlain("Released: %s\n", album.ReleaseDate)
		if album.Label != "" {
			r.writePlain("Label: %s\n", album.Label)
		}
		r.writePlain("\n")

		for i, track := range album.Tracks.Items {
			r.writePlain("%d. %s [%s]\n", i+1, track.Name, format.FormatDuration(track.DurationMS))
		}

		return nil
	})
}

// Playlists lists the current user's playlists.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	return r.withClient(cmd, func(client *spotify.Client) error {
		page, err := client.CurrentUserPlaylists().
			Limit(cmd.Int("limit")).
			Get(ctx)
		if err != nil {
			return err
		}

		playlists := page.Items
		if cmd.Bool("all") {
			if playlists, err = page.AllItems(ctx, client); err != nil {
				return err
			}
		}

		if cmd.Bool("json") {
			return r.writeJSON(playlists, true)
		}

		r.writePlain("Found %d playlists:\n\n", len(playlists))
		r.writePlain("%s", format.RenderPlaylists(playlists))
		return nil
	})
}
