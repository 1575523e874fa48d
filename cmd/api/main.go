// @title                       Example API
// @version                     1.0
// @description                 Items CRUD, cache-test and identity endpoints behind JWKS-verified bearer tokens.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/exampleapp/example-api/internal/api"
	"github.com/exampleapp/example-api/internal/api/handler"
	"github.com/exampleapp/example-api/internal/api/middleware"
	"github.com/exampleapp/example-api/internal/core/ports"
	"github.com/exampleapp/example-api/internal/core/service"
	"github.com/exampleapp/example-api/internal/infrastructure/config"
	"github.com/exampleapp/example-api/internal/infrastructure/db/memory"
	"github.com/exampleapp/example-api/internal/infrastructure/db/mongo"
	"github.com/exampleapp/example-api/internal/infrastructure/db/postgres"
	"github.com/exampleapp/example-api/internal/infrastructure/db/redis"
	"github.com/exampleapp/example-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
	})

	store, closeStore, err := openItemStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	keyfunc, err := middleware.NewJWKSKeyfunc(ctx, cfg.Auth.KeySetURL())
	if err != nil {
		return err
	}

	e := api.NewRouter(api.Dependencies{
		Logger:      log,
		Items:       service.NewItemService(store, log.With().Str("component", "item_service").Logger()),
		ItemStore:   store,
		Cache:       redis.NewCacheStore(rdb),
		Keyfunc:     keyfunc,
		Issuer:      cfg.Auth.Issuer,
		Audience:    cfg.Auth.Audience,
		GroupsClaim: cfg.Auth.GroupsClaim,
		App: handler.AppInfo{
			Name:        cfg.App.Name,
			Version:     cfg.App.Version,
			Environment: cfg.Env,
		},
		PodName:  podName(cfg.App.PodName),
		CacheTTL: cfg.Cache.DefaultTTL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.Store.Driver).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openItemStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.ItemStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		repo, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  cfg.App.Name,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")
		return repo, func() { _ = repo.Close(context.Background()) }, nil

	case config.StoreDriverMemory:
		log.Warn().Msg("using in-memory item store; data is lost on restart")
		return memory.NewItemStore(), func() {}, nil

	default:
		db, err := postgres.Connect(ctx, postgres.Config{
			URL:          cfg.Postgres.URL,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
			MaxIdleConns: cfg.Postgres.MaxIdleConns,
			ConnLifetime: cfg.Postgres.ConnLifetime,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info().Msg("postgres connected and migrated")
		return postgres.NewItemStore(db), func() { _ = db.Close() }, nil
	}
}

func podName(configured string) string {
	if configured != "" {
		return configured
	}
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "unknown"
}
