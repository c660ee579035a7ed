package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/verdeloop/spotify"
	"github.com/verdeloop/spotify/internal/config"
	"github.com/verdeloop/spotify/internal/store"
)

// newLogger creates a [log.Logger] writing to w, with timestamps enabled.
// The writer defaults to [os.Stderr].
func newLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{ReportTimestamp: true})
}

// Runner holds all dependencies for CLI commands and provides a method for
// each command action.
type Runner struct {
	config *config.Config
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *config.Config
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided options.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = newLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, searchCommand, albumCommand, playlistCommand, playerCommand, exportCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// reloadConfig re-reads the config file named by the command's --config flag.
func (r *Runner) reloadConfig(cmd *cli.Command) error {
	path := cmd.String("config")
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if path == defaultConfigPath {
			return nil
		}
		return fmt.Errorf("config file not found: %s", path)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	r.config = cfg
	return nil
}

// openStore opens the token store named by the config.
func (r *Runner) openStore() (*store.Store, error) {
	st, err := store.Open(r.config.Database.Path)
	if err != nil {
		return nil, err
	}
	st.Configure(r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return st, nil
}

// client builds an API client from the saved token. The refreshed token is
// written back to the store when the command finishes.
func (r *Runner) client(st *store.Store) (*spotify.Client, error) {
	token, err := st.LoadToken()
	if err != nil {
		if errors.Is(err, store.ErrNoToken) {
			return nil, fmt.Errorf("not logged in, run `spotcli login` first")
		}
		return nil, err
	}

	return spotify.FromToken(spotify.Config{
		ClientID:     r.config.Credentials.ClientID,
		ClientSecret: r.config.Credentials.ClientSecret,
		RedirectURI:  r.config.RedirectURI(),
		Scopes:       r.config.Credentials.Scopes,
		AutoRefresh:  true,
		Logger:       r.logger,
	}, *token)
}

// withClient runs fn with a client built from the saved token, persisting
// the (possibly refreshed) token afterwards.
func (r *Runner) withClient(cmd *cli.Command, fn func(client *spotify.Client) error) error {
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

	runErr := fn(client)

	if err := st.SaveToken(client.Token()); err != nil {
		r.logger.Warnf("failed to persist token: %v", err)
	}

	return runErr
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
