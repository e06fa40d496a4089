package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/judgeLC/VupPlaylist-sub000/internal/auth"
	"github.com/judgeLC/VupPlaylist-sub000/internal/server"
	"github.com/judgeLC/VupPlaylist-sub000/internal/store"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP API server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	if host := cmd.String("host"); host != "" {
		config.Server.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		config.Server.Port = int(port)
	}

	st := store.NewStore(config.Data.Dir, config.Data.SnapshotPath, r.logger)
	if err := st.Init(); err != nil {
		return fmt.Errorf("failed to initialize data directory: %w", err)
	}

	creds := auth.NewCredentialStore(filepath.Join(config.Data.Dir, "credential.json"), r.logger)
	sessions := auth.NewSessionStore(config.Session.Backend, r.logger)
	defer sessions.Close()

	authService := auth.NewService(creds, sessions, r.logger)
	if status := authService.Status(); status.IsFirstTime {
		r.logger.Warn("no admin password set, any password will unlock first-time setup")
	}

	hub := server.NewHub(r.logger)
	defer hub.Close()

	api := server.NewAPI(authService, st, hub, config.Server.UploadsDir, r.logger)

	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	api.Register(router)

	srv := server.NewServer(config.Server.Addr(), router, r.logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
