package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCachedEmbedder_ReadThrough(t *testing.T) {
	inner := &fakeEmbedder{}
	cache := newFakeVectorCache()
	emb := NewCachedEmbedder(inner, cache, "text-embedding-004", zap.NewNop())

	first, err := emb.Embed(context.Background(), "python engineer")
	require.NoError(t, err)
	second, err := emb.Embed(context.Background(), "python engineer")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.callCount())

	key := EmbeddingCacheKey("text-embedding-004", "python engineer")
	assert.Equal(t, "text-embedding-004", cache.models[key])
}

func TestCachedEmbedder_CacheErrorsFallBack(t *testing.T) {
	inner := &fakeEmbedder{}
	cache := newFakeVectorCache()
	cache.lookupErr = errBackendDown
	cache.storeErr = errBackendDown
	emb := NewCachedEmbedder(inner, cache, "m", zap.NewNop())

	vec, err := emb.Embed(context.Background(), "docker")
	require.NoError(t, err)
	assert.NotEmpty(t, vec)
	assert.Equal(t, 1, inner.callCount())
}

func TestCachedEmbedder_InnerErrorPropagates(t *testing.T) {
	emb := NewCachedEmbedder(&fakeEmbedder{err: errBackendDown}, newFakeVectorCache(), "m", zap.NewNop())

	_, err := emb.Embed(context.Background(), "docker")
	assert.ErrorIs(t, err, errBackendDown)
}

func TestEmbeddingCacheKey(t *testing.T) {
	a := EmbeddingCacheKey("m1", "text")
	assert.Equal(t, a, EmbeddingCacheKey("m1", "text"))
	assert.NotEqual(t, a, EmbeddingCacheKey("m2", "text"))
	assert.NotEqual(t, a, EmbeddingCacheKey("m1", "other"))
	assert.Len(t, a, 36)
}
