package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tastingclub/tastings/internal/config"
	"github.com/tastingclub/tastings/internal/logger"
	"github.com/tastingclub/tastings/internal/services"
	"github.com/tastingclub/tastings/internal/store"
)

// app bundles what every command needs after flag parsing.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	backend store.Backend
	svc     *services.TastingService
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.storeType != "" {
		cfg.Store.Type = opts.storeType
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	return cfg, nil
}

func openApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logging.Mode, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	backend, err := store.Open(ctx, cfg.Store, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		log:     log,
		backend: backend,
		svc:     services.NewTastingService(backend, log),
	}, nil
}

func (a *app) Close() {
	if err := a.backend.Close(); err != nil {
		a.log.Warn("failed to close store", "error", err)
	}
	a.log.Sync()
}

func parseIndex(arg string) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: must be an integer", arg)
	}
	return i, nil
}
