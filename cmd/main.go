package main

import (
	"context"
	"errors"
	"os"

	"github.com/judgeLC/VupPlaylist-sub000/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnv(""); err != nil {
		logger.Warn("failed to load .env file", "error", err)
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "vupctl",
		Usage:    "Run and manage the song request site",
		Version:  "1.0.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
