package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koeppern/gtd-system-sub000/internal/config"
	"github.com/koeppern/gtd-system-sub000/internal/core"
	"github.com/koeppern/gtd-system-sub000/internal/logging"
)

// app holds what every command needs once configuration is loaded.
type app struct {
	cfg     *config.Config
	pool    *pgxpool.Pool
	service *core.Service
}

// bootstrap loads configuration, sets up logging and connects to the
// database. With tolerateOffline a failed ping is only logged, so a dry run
// can still report on a file using the built-in lookup defaults.
func bootstrap(ctx context.Context, tolerateOffline bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, withCode(exitConfig, err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config", cfg.String())

	pool, err := connect(ctx, cfg.Database, tolerateOffline)
	if err != nil {
		return nil, err
	}

	store := core.NewPgStore(pool)
	service := core.NewService(store, core.ServiceConfig{
		Owner:            cfg.Owner.UserID,
		DataDir:          cfg.Import.DataDir,
		BatchSize:        cfg.Import.BatchSize,
		StoreCallTimeout: cfg.Import.StoreCallTimeout,
		RunTimeout:       cfg.Import.RunTimeout,
	})

	slog.Debug("entities registered", "keys", core.Keys())

	return &app{cfg: cfg, pool: pool, service: service}, nil
}

func (a *app) Close() {
	a.pool.Close()
}

func connect(ctx context.Context, cfg config.DatabaseConfig, tolerateOffline bool) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, withCode(exitConfig, fmt.Errorf("parse database URL: %w", err))
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	if tolerateOffline {
		poolConfig.MinConns = 0
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, withCode(exitStore, fmt.Errorf("connect to database: %w", err))
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		if tolerateOffline {
			slog.Warn("database unreachable, continuing with built-in lookups", "error", err)
			return pool, nil
		}
		pool.Close()
		return nil, withCode(exitStore, fmt.Errorf("ping database: %w", err))
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Debug("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}
	return pool, nil
}
