package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/judgeLC/VupPlaylist-sub000/internal/client"
	"github.com/judgeLC/VupPlaylist-sub000/internal/models"
	"github.com/urfave/cli/v3"
)

// Watch follows the live song list until interrupted, printing each applied
// view.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	baseURL := config.Client.BaseURL
	if override := cmd.String("server"); override != "" {
		baseURL = override
	}
	asJSON := cmd.Bool("json")

	api := client.NewAPIClient(baseURL, r.httpClient)

	cache, err := client.OpenCache(config.Client.CachePath, r.logger)
	if err != nil {
		r.logger.Warn("snapshot cache unavailable, continuing without it", "error", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	sources := []client.Source{
		&client.APISource{API: api},
		&client.FileSource{Path: config.Data.SnapshotPath},
	}
	if cache != nil {
		sources = append(sources, &client.CacheSource{Cache: cache})
	}
	sources = append(sources, &client.DefaultSource{})

	pollInterval := time.Duration(config.Client.PollIntervalSecs) * time.Second
	reconciler := client.NewReconciler(sources, cache, pollInterval, r.logger)
	reconciler.OnChange(func(snap *models.Snapshot) {
		if asJSON {
			if err := r.writeJSON(snap, true); err != nil {
				r.logger.Warn("failed to print view", "error", err)
			}
			return
		}
		title := ""
		if snap.Profile != nil {
			title = snap.Profile.WebsiteTitle
		}
		r.writePlain("%s: %d songs, %d genres\n", title, len(snap.Songs), len(snap.Genres))
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reconciler.Run(ctx)
	return nil
}
