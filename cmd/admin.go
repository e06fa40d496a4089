package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/judgeLC/VupPlaylist-sub000/internal/client"
	"github.com/judgeLC/VupPlaylist-sub000/internal/shared"
	"github.com/judgeLC/VupPlaylist-sub000/internal/ui"
	"github.com/urfave/cli/v3"
)

// Admin launches the interactive terminal admin panel.
func (r *Runner) Admin(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	baseURL := config.Client.BaseURL
	if override := cmd.String("server"); override != "" {
		baseURL = override
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/vupctl-admin.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	api := client.NewAPIClient(baseURL, r.httpClient)
	tokens := client.NewTokenFile(config.Client.TokenPath, r.logger)
	flow := client.NewLoginFlow(api, tokens, r.logger)

	model := ui.NewModel(ctx, flow, api)
	p := tea.NewProgram(model, tea.WithReportFocus())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running admin panel: %w", err)
	}

	return nil
}
