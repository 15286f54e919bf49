package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/capabilities"
	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/logger"
)

// app bundles what every command that touches the capabilities needs.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	providers *capabilities.Providers
}

// loadConfig reads the configuration and applies the persistent logging flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if debugLog {
		cfg.Log.Debug = true
	}
	if jsonLog {
		cfg.Log.JSON = true
	}
	return cfg, nil
}

// setup loads the configuration, builds the logger and the providers. Callers must
// call close when done.
func setup(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	providers, err := capabilities.Build(ctx, cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}

	return &app{cfg: cfg, logger: log, providers: providers}, nil
}

func (r *app) close() {
	if err := r.providers.Close(); err != nil {
		r.logger.Warn("failed to release resources", zap.Error(err))
	}
	_ = r.logger.Sync()
}

// writeJSON prints v as indented JSON.
func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}
