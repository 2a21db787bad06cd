package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/focusdeck/internal/config"
	"github.com/sandeepkv93/focusdeck/internal/engine"
	"github.com/sandeepkv93/focusdeck/internal/logging"
	"github.com/sandeepkv93/focusdeck/internal/storage"
)

// app is the wired runtime shared by the TUI and the subcommands.
type app struct {
	cfg    config.RuntimeConfig
	loc    *time.Location
	logger *zap.Logger
	kv     storage.KV
	eng    *engine.Engine
	source storage.LoadSource
	closer func() error
}

func bootstrap(ctx context.Context, configFile string) (*app, error) {
	cfg, err := config.Load(config.DefaultRuntimeConfig(), configFile)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogPath()})
	if err != nil {
		return nil, err
	}

	kv, closer, err := openStore(ctx, cfg)
	if err != nil {
		logging.Sync(logger)
		return nil, err
	}
	logger.Info("store opened", zap.String("backend", cfg.StorageBackend), zap.String("data_dir", cfg.DataDir))

	eng := engine.New(storage.NewGateway(kv, logger), engine.WithLocation(loc), engine.WithLogger(logger))
	src, err := eng.Start(ctx)
	if err != nil {
		// The engine keeps running on an in-memory document; the header
		// flags the unsaved state.
		logger.Warn("start completed with errors", zap.Error(err))
	}
	return &app{cfg: cfg, loc: loc, logger: logger, kv: kv, eng: eng, source: src, closer: closer}, nil
}

func openStore(ctx context.Context, cfg config.RuntimeConfig) (storage.KV, func() error, error) {
	noop := func() error { return nil }
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return storage.NewMemoryStore(), noop, nil
	case config.BackendSQLite:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create data directory: %w", err)
		}
		store, err := storage.OpenSQLite(ctx, cfg.SQLitePath())
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, store.Close, nil
	case config.BackendFile, "":
		store, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file store: %w", err)
		}
		return store, noop, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown storage backend %q", config.ErrInvalidConfig, cfg.StorageBackend)
	}
}

func (a *app) Close() error {
	defer logging.Sync(a.logger)
	if err := a.closer(); err != nil {
		a.logger.Warn("close store", zap.Error(err))
		return err
	}
	return nil
}
