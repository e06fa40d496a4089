package main

import (
	"context"
	"fmt"
	"os"

	"github.com/judgeLC/VupPlaylist-sub000/internal/shared"
	"github.com/judgeLC/VupPlaylist-sub000/internal/store"
	"github.com/urfave/cli/v3"
)

// Setup creates the configuration file and seeds the data directory with
// defaults.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using defaults", "error", err)
			config = shared.DefaultConfig()
		}
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
			config = shared.DefaultConfig()
		} else {
			r.logger.Info("config file created", "path", configPath)
			if config, err = shared.LoadConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using defaults", "error", err)
				config = shared.DefaultConfig()
			}
		}
	}

	r.logger.Info("initializing data directory", "path", config.Data.Dir)

	st := store.NewStore(config.Data.Dir, config.Data.SnapshotPath, r.logger)
	if err := st.Init(); err != nil {
		return fmt.Errorf("failed to initialize data directory: %w", err)
	}

	if err := os.MkdirAll(config.Server.UploadsDir, 0755); err != nil {
		return fmt.Errorf("failed to create uploads directory: %w", err)
	}

	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		env := "# Redis session store (optional; leave unset for in-memory sessions)\n" +
			"#REDIS_HOST=127.0.0.1\n" +
			"#REDIS_PORT=6379\n" +
			"#REDIS_USERNAME=\n" +
			"#REDIS_PASSWORD=\n"
		if err := os.WriteFile(".env", []byte(env), 0644); err != nil {
			r.logger.Warn("failed to create .env file", "error", err)
		} else {
			r.logger.Info("starter .env file created")
		}
	}

	r.writePlain("✓ Setup complete\n")
	r.writePlain("Config: %s\n", configPath)
	r.writePlain("Data directory: %s\n", config.Data.Dir)
	r.writePlainln("Next steps:")
	r.writePlain("1. Run 'vupctl serve' to start the server\n")
	r.writePlain("2. Run 'vupctl admin' and set the admin password on first login\n")

	return nil
}
