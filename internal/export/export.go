// package export writes playlists to disk concurrently with rate limiting.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/verdeloop/spotify"
	"github.com/verdeloop/spotify/internal/format"
	"github.com/verdeloop/spotify/internal/store"
)

// Options configures a bulk export run.
type Options struct {
	// Format is one of "json", "csv", "markdown" or "txt".
	Format string
	// OutputDir is the target directory (default: spotify_export_{epoch}).
	OutputDir string
	// NumWorkers is the number of concurrent writers (default 5, max 10).
	NumWorkers int
	// RateLimit is the maximum number of API requests per second (default 5).
	RateLimit float64
}

// PlaylistResult is the outcome of exporting one playlist.
type PlaylistResult struct {
	PlaylistID   string `json:"playlist_id"`
	PlaylistName string `json:"playlist_name"`
	Success      bool   `json:"success"`
	File         string `json:"file,omitempty"`
	Error        string `json:"error,omitempty"`

	err error
}

// Err returns the failure cause, nil on success.
func (r PlaylistResult) Err() error { return r.err }

// Result summarizes a bulk export run.
type Result struct {
	TotalPlaylists    int              `json:"total_playlists"`
	SuccessfulExports int              `json:"successful_exports"`
	FailedExports     int              `json:"failed_exports"`
	OutputDirectory   string           `json:"output_directory"`
	ManifestPath      string           `json:"manifest_path,omitempty"`
	Results           []PlaylistResult `json:"results"`
}

// ProgressFunc receives an update per completed playlist.
type ProgressFunc func(completed, total int, name string, err error)

// job carries one fetched playlist to the writer pool.
type job struct {
	playlist *format.PlaylistExport
}

// Engine exports playlists through a client, optionally recording each
// completed export in a store.
type Engine struct {
	client *spotify.Client
	store  *store.Store
}

// New creates an export engine. The store may be nil, in which case no
// history is recorded.
func New(client *spotify.Client, st *store.Store) *Engine {
	return &Engine{client: client, store: st}
}

// BulkExport fetches and writes the given playlists concurrently. Fetches
// are rate limited on a single limiter; writes run on a worker pool. A
// manifest summarizing the run is written to the output directory.
//
// Partial failures do not abort the run; they are reported per playlist in
// the result.
func (e *Engine) BulkExport(ctx context.Context, ids []string, opts Options, progress ProgressFunc) (*Result, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("spotify_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Format == "" {
		opts.Format = "json"
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &Result{
		TotalPlaylists:  len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan job, len(ids))
	results := make(chan PlaylistResult, len(ids))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.writeWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for _, playlistID := range ids {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				return
			}

			export, err := e.fetchPlaylist(ctx, playlistID)
			if err != nil {
				results <- PlaylistResult{
					PlaylistID:   playlistID,
					PlaylistName: fmt.Sprintf("Unknown (%s)", playlistID),
					Error:        err.Error(),
					err:          fmt.Errorf("failed to fetch playlist: %w", err),
				}
				continue
			}

			jobs <- job{playlist: export}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
		} else {
			result.FailedExports++
		}
		if progress != nil {
			progress(completed, len(ids), res.PlaylistName, res.err)
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// fetchPlaylist retrieves a playlist and all of its items, following
// pagination to the end.
func (e *Engine) fetchPlaylist(ctx context.Context, id string) (*format.PlaylistExport, error) {
	playlist, err := e.client.Playlist(id).Get(ctx)
	if err != nil {
		return nil, err
	}

	page, err := e.client.PlaylistItems(id).Limit(50).Get(ctx)
	if err != nil {
		return nil, err
	}

	items, err := page.AllItems(ctx, e.client)
	if err != nil {
		return nil, err
	}

	return format.NewPlaylistExport(playlist, items), nil
}

// writeWorker writes playlists from the jobs channel to disk.
func (e *Engine) writeWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan job, results chan<- PlaylistResult, opts Options) {
	defer wg.Done()

	for j := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.writePlaylist(j.playlist, opts)
	}
}

// writePlaylist renders one playlist in the selected format and writes it
// under the output directory.
func (e *Engine) writePlaylist(export *format.PlaylistExport, opts Options) PlaylistResult {
	result := PlaylistResult{
		PlaylistID:   export.ID,
		PlaylistName: export.Name,
	}

	var (
		data []byte
		ext  string
		err  error
	)

	switch opts.Format {
	case "csv":
		data, err = format.ExportToCSV(export)
		ext = "csv"
	case "markdown":
		data, err = format.ExportToMarkdown(export)
		ext = "md"
	case "txt":
		data, err = format.ExportToText(export)
		ext = "txt"
	case "json", "":
		data, err = format.ExportToJSON(export)
		ext = "json"
	default:
		result.err = fmt.Errorf("unsupported export format %q", opts.Format)
		result.Error = result.err.Error()
		return result
	}
	if err != nil {
		result.err = fmt.Errorf("%s export failed: %w", opts.Format, err)
		result.Error = result.err.Error()
		return result
	}

	path := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.%s", export.ID, ext))
	if err := os.WriteFile(path, data, 0644); err != nil {
		result.err = fmt.Errorf("failed to write export: %w", err)
		result.Error = result.err.Error()
		return result
	}

	result.File = path
	result.Success = true

	if e.store != nil {
		if _, err := e.store.RecordExport(export.ID, export.Name, opts.Format, path); err != nil {
			// The file is on disk; a history failure should not fail the export.
			result.Error = fmt.Sprintf("export succeeded but history was not recorded: %v", err)
		}
	}

	return result
}

func writeManifest(result *Result, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
