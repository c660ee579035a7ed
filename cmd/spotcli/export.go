package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/verdeloop/spotify"
	"github.com/verdeloop/spotify/internal/export"
	"github.com/verdeloop/spotify/internal/format"
)

// ExportRun exports the given playlists, or every playlist with --all.
func (r *Runner) ExportRun(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd); err != nil {
		return err
	}

	st, err := r.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	client, err := r.client(st)
	if err != nil {
		return err
	}

	ids := cmd.StringArgs("ids")
	if cmd.Bool("all") {
		if ids, err = r.allPlaylistIDs(ctx, client); err != nil {
			return err
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("no playlists to export: pass IDs or --all")
	}

	opts := export.Options{
		Format:     r.config.Export.Format,
		OutputDir:  r.config.Export.OutputDir,
		NumWorkers: r.config.Export.NumWorkers,
		RateLimit:  r.config.Export.RateLimit,
	}
	if f := cmd.String("format"); f != "" {
		opts.Format = f
	}
	if o := cmd.String("output"); o != "" {
		opts.OutputDir = o
	}
	if w := cmd.Int("workers"); w > 0 {
		opts.NumWorkers = w
	}

	engine := export.New(client, st)

	r.writePlain("Exporting %d playlists to %s...\n", len(ids), opts.OutputDir)

	result, err := engine.BulkExport(ctx, ids, opts, func(completed, total int, name string, err error) {
		if err != nil {
			r.writePlain("%s [%d/%d] %s: %v\n", format.Error("✗"), completed, total, name, err)
		} else {
			r.writePlain("%s [%d/%d] %s\n", format.Success("✓"), completed, total, name)
		}
	})

	if saveErr := st.SaveToken(client.Token()); saveErr != nil {
		r.logger.Warnf("failed to persist token: %v", saveErr)
	}
	if err != nil {
		return err
	}

	r.writePlain("\n%d exported, %d failed\n", result.SuccessfulExports, result.FailedExports)
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	return nil
}

// allPlaylistIDs lists every playlist in the user's library.
func (r *Runner) allPlaylistIDs(ctx context.Context, client *spotify.Client) ([]string, error) {
	page, err := client.CurrentUserPlaylists().Limit(50).Get(ctx)
	if err != nil {
		return nil, err
	}

	playlists, err := page.AllItems(ctx, client)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(playlists))
	for i, p := range playlists {
		ids[i] = p.ID
	}
	return ids, nil
}

// ExportHistory lists previous exports.
func (r *Runner) ExportHistory(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd); err != nil {
		return err
	}

	st, err := r.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.ListExports()
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return r.writePlain("%s\n", format.Help("No exports yet"))
	}

	for _, rec := range records {
		r.writePlain("%s  %s (%s) → %s\n", rec.CreatedAt.Local().Format(time.DateTime), rec.Name, rec.Format, rec.Path)
	}
	return nil
}
