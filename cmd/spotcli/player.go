package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/verdeloop/spotify"
	"github.com/verdeloop/spotify/internal/format"
)

// PlayerStatus shows the current playback state.
func (r *Runner) PlayerStatus(ctx context.Context, cmd *cli.Command) error {
	return r.withClient(cmd, func(client *spotify.Client) error {
		state, err := client.PlaybackState().Get(ctx)
		if err != nil {
			return err
		}

		return r.writePlain("%s", format.RenderPlaybackState(state))
	})
}

// PlayerPlay resumes playback, optionally starting a context URI on a
// specific device.
func (r *Runner) PlayerPlay(ctx context.Context, cmd *cli.Command) error {
	return r.withClient(cmd, func(client *spotify.Client) error {
		req := client.StartPlayback()
		if uri := cmd.String("context"); uri != "" {
			req.ContextURI(uri)
		}
		if device := cmd.String("device"); device != "" {
			req.DeviceID(device)
		}

		if err := req.Send(ctx); err != nil {
			return err
		}
		return r.writePlain("%s Playing\n", format.Success("▶"))
	})
}

// PlayerPause pauses playback.
func (r *Runner) PlayerPause(ctx context.Context, cmd *cli.Command) error {
	return r.withClient(cmd, func(client *spotify.Client) error {
		if err := client.PausePlayback().Send(ctx); err != nil {
			return err
		}
		return r.writePlain("%s Paused\n", format.Success("⏸"))
	})
}

// PlayerNext skips to the next track.
func (r *Runner) PlayerNext(ctx context.Context, cmd *cli.Command) error {
	return r.withClient(cmd, func(client *spotify.Client) error {
		if err := client.SkipToNext().Send(ctx); err != nil {
			return err
		}
		return r.writePlain("%s Skipped\n", format.Success("⏭"))
	})
}

// PlayerPrevious skips to the previous track.
func (r *Runner) PlayerPrevious(ctx context.Context, cmd *cli.Command) error {
	return r.withClient(cmd, func(client *spotify.Client) error {
		if err := client.SkipToPrevious().Send(ctx); err != nil {
			return err
		}
		return r.writePlain("%s Skipped back\n", format.Success("⏮"))
	})
}

// PlayerVolume sets the playback volume.
func (r *Runner) PlayerVolume(ctx context.Context, cmd *cli.Command) error {
	arg := cmd.StringArg("percent")
	if arg == "" {
		return fmt.Errorf("a volume percentage is required")
	}
	percent, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid volume %q", arg)
	}

	return r.withClient(cmd, func(client *spotify.Client) error {
		if err := client.SetPlaybackVolume(percent).Send(ctx); err != nil {
			return err
		}
		return r.writePlain("%s Volume set\n", format.Success("✓"))
	})
}

// PlayerDevices lists available playback devices.
func (r *Runner) PlayerDevices(ctx context.Context, cmd *cli.Command) error {
	return r.withClient(cmd, func(client *spotify.Client) error {
		devices, err := client.AvailableDevices(ctx)
		if err != nil {
			return err
		}

		if len(devices) == 0 {
			return r.writePlain("%s\n", format.Help("No devices available"))
		}

		for _, d := range devices {
			marker := " "
			if d.IsActive {
				marker = format.Success("*")
			}
			r.writePlain("%s %s (%s) vol %d%%\n", marker, d.Name, d.Type, d.VolumePercent)
		}
		return nil
	})
}
