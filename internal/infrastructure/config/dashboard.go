package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Dashboard configures the terminal dashboard client.
type Dashboard struct {
	APIURL   string `env:"API_URL, default=http://localhost:8080"`
	APIToken string `env:"API_TOKEN"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	LogFile  string `env:"DASHBOARD_LOG_FILE, default=dashboard.log"`

	// Timeout bounds each dashboard call; zero means no limit.
	Timeout time.Duration `env:"DASHBOARD_TIMEOUT, default=0s"`
}

func LoadDashboard(ctx context.Context) (*Dashboard, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return LoadDashboardFrom(ctx, envconfig.OsLookuper())
}

func LoadDashboardFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Dashboard, error) {
	var cfg Dashboard
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load dashboard configuration: %w", err)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("config: DASHBOARD_TIMEOUT must not be negative")
	}
	return &cfg, nil
}
