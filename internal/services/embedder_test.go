package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closingEmbedder struct {
	fakeEmbedder
	closed bool
}

func (c *closingEmbedder) Close() error {
	c.closed = true
	return nil
}

func TestEmbedderProvider_InitializesOnce(t *testing.T) {
	builds := 0
	var mu sync.Mutex
	provider, err := NewEmbedderProvider(func(context.Context) (Embedder, error) {
		mu.Lock()
		defer mu.Unlock()
		builds++
		return &fakeEmbedder{}, nil
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := provider.Embed(context.Background(), "python")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, builds)
}

func TestEmbedderProvider_RetriesAfterInitError(t *testing.T) {
	builds := 0
	provider, err := NewEmbedderProvider(func(context.Context) (Embedder, error) {
		builds++
		if builds == 1 {
			return nil, errBackendDown
		}
		return &fakeEmbedder{}, nil
	})
	require.NoError(t, err)

	_, err = provider.Embed(context.Background(), "x")
	assert.ErrorIs(t, err, errBackendDown)

	_, err = provider.Embed(context.Background(), "python")
	require.NoError(t, err)
	_, err = provider.Embed(context.Background(), "docker")
	require.NoError(t, err)

	assert.Equal(t, 2, builds)
}

func TestEmbedderProvider_CancelledFirstCallDoesNotDisable(t *testing.T) {
	provider, err := NewEmbedderProvider(func(ctx context.Context) (Embedder, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &fakeEmbedder{}, nil
	})
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = provider.Get(cancelled)
	assert.ErrorIs(t, err, context.Canceled)

	emb, err := provider.Get(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, emb)
}

func TestEmbedderProvider_NilBackendIsAnError(t *testing.T) {
	provider, err := NewEmbedderProvider(func(context.Context) (Embedder, error) {
		return nil, nil
	})
	require.NoError(t, err)

	_, err = provider.Get(context.Background())
	assert.ErrorIs(t, err, ErrNoEmbedder)
}

func TestEmbedderProvider_Close(t *testing.T) {
	backend := &closingEmbedder{}
	provider, err := NewEmbedderProvider(func(context.Context) (Embedder, error) {
		return backend, nil
	})
	require.NoError(t, err)

	_, err = provider.Get(context.Background())
	require.NoError(t, err)

	require.NoError(t, provider.Close())
	assert.True(t, backend.closed)

	_, err = provider.Get(context.Background())
	assert.ErrorIs(t, err, ErrProviderClosed)
	assert.NoError(t, provider.Close())
}

func TestNewEmbedderProvider_RequiresFactory(t *testing.T) {
	_, err := NewEmbedderProvider(nil)
	assert.ErrorIs(t, err, ErrNoEmbedder)
}

func TestGeminiEmbedderFactory_FailsFast(t *testing.T) {
	tests := []struct {
		name string
		opts GeminiOptions
	}{
		{"empty backend", GeminiOptions{Model: "m", APIKey: "k"}},
		{"unknown backend", GeminiOptions{Backend: "local", Model: "m"}},
		{"gemini without key", GeminiOptions{Backend: BackendGemini, Model: "m"}},
		{"vertex without project", GeminiOptions{Backend: BackendVertex, Model: "m", Location: "us-central1"}},
		{"missing model", GeminiOptions{Backend: BackendGemini, APIKey: "k"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GeminiEmbedderFactory(tt.opts)
			assert.ErrorIs(t, err, ErrNoEmbedder)
		})
	}

	factory, err := GeminiEmbedderFactory(GeminiOptions{Backend: BackendGemini, APIKey: "k", Model: "text-embedding-004"})
	require.NoError(t, err)
	assert.NotNil(t, factory)
}
