package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/verdeloop/spotify/internal/config"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := newLogger(nil)

	cfg := config.Default()
	if _, err := os.Stat(defaultConfigPath); err == nil {
		if loaded, err := config.Load(defaultConfigPath); err == nil {
			cfg = loaded
		} else {
			logger.Warnf("ignoring unreadable config: %v", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: cfg,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "spotcli",
		Usage:    "Browse, play and export your Spotify library",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
