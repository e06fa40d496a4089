package main

import (
	"context"
	"fmt"

	"github.com/judgeLC/VupPlaylist-sub000/internal/client"
	"github.com/judgeLC/VupPlaylist-sub000/internal/formatter"
	"github.com/judgeLC/VupPlaylist-sub000/internal/models"
	"github.com/judgeLC/VupPlaylist-sub000/internal/store"
	"github.com/urfave/cli/v3"
)

// Export writes the song list to a file in the requested format, reading
// either the local data directory or the running server.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	format := cmd.String("format")
	output := cmd.String("output")

	var snapshot *models.Snapshot
	if cmd.Bool("remote") {
		api := client.NewAPIClient(config.Client.BaseURL, r.httpClient)
		snap, err := api.Snapshot(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch snapshot from server: %w", err)
		}
		snapshot = snap
	} else {
		st := store.NewStore(config.Data.Dir, config.Data.SnapshotPath, r.logger)
		snapshot = st.Snapshot()
	}

	path, err := formatter.WriteExport(snapshot, format, output)
	if err != nil {
		return err
	}

	r.writePlain("✓ Exported %d songs to %s\n", len(snapshot.Songs), path)
	return nil
}
