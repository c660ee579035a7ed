// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

// setupCommand initializes the config file and token store.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create a config file and initialize the token store",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// authCommand handles login, logout and status.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize with Spotify using OAuth2",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the authorization URL instead of opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the saved token and the logged-in user",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Delete the saved token",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogout,
			},
		},
	}
}

// searchCommand searches the catalog.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the Spotify catalog",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Comma-separated result types: track, album, artist, playlist",
				Value:   "track",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results per type",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Search,
	}
}

// albumCommand shows a single album with its tracks.
func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "album",
		Usage: "Show an album and its tracks",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Album,
	}
}

// playlistCommand lists and inspects the user's playlists.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "List your playlists",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of playlists to return",
				Value: 50,
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Follow pagination and list every playlist",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Playlists,
	}
}

// playerCommand controls and inspects playback.
func playerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "player",
		Usage: "Control playback on your devices",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show what is currently playing",
				Flags:  []cli.Flag{configFlag()},
				Action: r.PlayerStatus,
			},
			{
				Name:  "play",
				Usage: "Resume playback, or start a context URI",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "context",
						Usage: "Context URI to play (album, playlist or artist)",
					},
					&cli.StringFlag{
						Name:  "device",
						Usage: "Device ID to play on",
					},
				},
				Action: r.PlayerPlay,
			},
			{
				Name:   "pause",
				Usage:  "Pause playback",
				Flags:  []cli.Flag{configFlag()},
				Action: r.PlayerPause,
			},
			{
				Name:   "next",
				Usage:  "Skip to the next track",
				Flags:  []cli.Flag{configFlag()},
				Action: r.PlayerNext,
			},
			{
				Name:    "previous",
				Aliases: []string{"prev"},
				Usage:   "Skip to the previous track",
				Flags:   []cli.Flag{configFlag()},
				Action:  r.PlayerPrevious,
			},
			{
				Name:  "volume",
				Usage: "Set playback volume (0-100)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "percent"},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.PlayerVolume,
			},
			{
				Name:   "devices",
				Usage:  "List available playback devices",
				Flags:  []cli.Flag{configFlag()},
				Action: r.PlayerDevices,
			},
		},
	}
}

// exportCommand exports playlists to disk.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export playlists to disk",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Export playlists by ID, or every playlist with --all",
				Arguments: []cli.Argument{
					&cli.StringArgs{Name: "ids", Min: 0, Max: -1},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Export every playlist in your library",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent workers",
					},
				},
				Action: r.ExportRun,
			},
			{
				Name:   "history",
				Usage:  "List previous exports",
				Flags:  []cli.Flag{configFlag()},
				Action: r.ExportHistory,
			},
		},
	}
}
