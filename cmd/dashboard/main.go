package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/exampleapp/example-api/internal/dashboard"
	"github.com/exampleapp/example-api/internal/dashboard/tui"
	"github.com/exampleapp/example-api/internal/infrastructure/config"
	"github.com/exampleapp/example-api/pkg/logger"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadDashboard(ctx)
	if err != nil {
		return err
	}

	// the alt screen owns stdout, so logs go to a file
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Output: f, Service: "dashboard"})

	if cfg.APIToken == "" {
		log.Warn().Msg("API_TOKEN not set; private endpoints will fail")
	}
	log.Info().Str("api_url", cfg.APIURL).Msg("dashboard starting")

	client := dashboard.NewClient(cfg.APIURL, dashboard.StaticToken(cfg.APIToken), nil)
	deps := tui.Deps{Client: client, Timeout: cfg.Timeout}
	app := tui.NewApp(func() tea.Model { return tui.NewModel(deps) })

	if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return err
	}
	log.Info().Msg("dashboard stopped")
	return nil
}
