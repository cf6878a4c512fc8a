package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VectorCache persists embeddings under a content-derived key.
type VectorCache interface {
	Lookup(ctx context.Context, key string) ([]float32, bool, error)
	Store(ctx context.Context, key, model string, vector []float32) error
}

type cachedEmbedder struct {
	inner Embedder
	cache VectorCache
	model string
	log   *zap.Logger
}

// NewCachedEmbedder wraps inner with a read-through cache. Cache errors are
// logged and never fail an embedding.
func NewCachedEmbedder(inner Embedder, cache VectorCache, model string, log *zap.Logger) Embedder {
	return &cachedEmbedder{
		inner: inner,
		cache: cache,
		model: model,
		log:   log,
	}
}

// EmbeddingCacheKey derives a stable point ID from the model and the text.
func EmbeddingCacheKey(model, text string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(model+"\x00"+text)).String()
}

// Embed implements Embedder.
func (c *cachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := EmbeddingCacheKey(c.model, text)

	vector, ok, err := c.cache.Lookup(ctx, key)
	if err != nil {
		c.log.Warn("⚠️  Embedding cache lookup failed", zap.String("key", key), zap.Error(err))
	}
	if ok {
		c.log.Debug("embedding cache hit", zap.String("key", key))
		return vector, nil
	}

	vector, err = c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Store(ctx, key, c.model, vector); err != nil {
		c.log.Warn("⚠️  Embedding cache store failed", zap.String("key", key), zap.Error(err))
	}

	return vector, nil
}
