// Package bootstrap wires the match pipeline from configuration. The API
// server and the CLI share it.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/resume-matcher/internal/config"
	"alfredoptarigan/resume-matcher/internal/repositories"
	"alfredoptarigan/resume-matcher/internal/services"
)

type Components struct {
	Embedder  services.Embedder
	Cache     services.QdrantService // nil unless QDRANT_ENABLED
	Scorer    services.Scorer
	Extractor services.TextExtractor
	Storage   services.StorageService

	filenameWeight float64
	log            *zap.Logger
	closers        []func() error
}

// Build creates the embedding backend, the optional qdrant cache and the
// scorer. An unusable embedding backend is reported here, before serving.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Components, error) {
	factory, err := services.GeminiEmbedderFactory(services.GeminiOptions{
		Backend:  cfg.Embedder.Backend,
		APIKey:   cfg.Embedder.APIKey,
		Model:    cfg.Embedder.Model,
		Project:  cfg.Embedder.VertexProject,
		Location: cfg.Embedder.VertexLocation,
	})
	if err != nil {
		return nil, err
	}

	provider, err := services.NewEmbedderProvider(factory)
	if err != nil {
		return nil, err
	}
	log.Info("✅ Embedding backend configured",
		zap.String("backend", cfg.Embedder.Backend),
		zap.String("model", cfg.Embedder.Model),
	)

	var embedder services.Embedder = provider
	var cache services.QdrantService
	closers := []func() error{provider.Close}

	if cfg.Qdrant.Enabled {
		cache, err = services.NewQdrantService(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			cfg.Qdrant.VectorSize,
			log,
		)
		if err != nil {
			provider.Close()
			return nil, fmt.Errorf("failed to initialize qdrant: %w", err)
		}
		closers = append(closers, cache.Close)

		if err := cache.InitCollection(ctx); err != nil {
			closeAll(closers)
			return nil, fmt.Errorf("failed to initialize qdrant collection: %w", err)
		}

		embedder = services.NewCachedEmbedder(provider, cache, cfg.Embedder.Model, log)
		log.Info("✅ Qdrant embedding cache enabled", zap.String("collection", cfg.Qdrant.Collection))
	}

	c, err := Assemble(embedder, cfg, log)
	if err != nil {
		closeAll(closers)
		return nil, err
	}
	c.Cache = cache
	c.closers = closers
	return c, nil
}

// Assemble builds the scoring side of the pipeline around an existing
// embedder.
func Assemble(embedder services.Embedder, cfg *config.Config, log *zap.Logger) (*Components, error) {
	scorer, err := services.NewSimilarityScorer(embedder, cfg.Scoring.FilenameWeight, cfg.Scoring.KeywordTopN)
	if err != nil {
		return nil, fmt.Errorf("failed to create scorer: %w", err)
	}

	storage := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storage.EnsureUploadDir(); err != nil {
		return nil, err
	}

	return &Components{
		Embedder:       embedder,
		Scorer:         scorer,
		Extractor:      services.NewTextExtractor(),
		Storage:        storage,
		filenameWeight: cfg.Scoring.FilenameWeight,
		log:            log,
	}, nil
}

// NewMatcher returns the request pipeline. runRepo may be nil.
func (c *Components) NewMatcher(runRepo repositories.MatchRunRepository) services.MatcherService {
	return services.NewMatcherService(c.Extractor, c.Storage, c.Scorer, runRepo, c.filenameWeight, c.log)
}

// Close releases the embedding backend and the cache connection.
func (c *Components) Close() error {
	err := closeAll(c.closers)
	c.closers = nil
	return err
}

func closeAll(closers []func() error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
