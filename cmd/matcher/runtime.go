package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/resume-matcher/internal/bootstrap"
	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/logger"
)

// buildComponents is swapped out in tests.
var buildComponents = bootstrap.Build

// loadConfig reads the environment, applies command overrides and validates.
func loadConfig(override func(cfg *config.Config)) (*config.Config, error) {
	cfg := config.Load()
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRuntime(ctx context.Context, cfg *config.Config) (*zap.Logger, *bootstrap.Components, error) {
	log, err := logger.NewWithOutput(cfg.Log.JSON, cfg.Log.Debug, "stderr")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	components, err := buildComponents(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize match pipeline: %w", err)
	}
	return log, components, nil
}
