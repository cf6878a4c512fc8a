package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Embedder computes a semantic embedding vector for a text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type EmbedderFactory func(ctx context.Context) (Embedder, error)

var (
	ErrNoEmbedder     = errors.New("no embedding backend configured")
	ErrProviderClosed = errors.New("embedding provider closed")
)

// EmbedderProvider holds the process-wide embedding model. The backend is
// built on first successful use and shared read-only by all callers until
// Close. A failed build is not cached; the next call tries again.
type EmbedderProvider struct {
	factory EmbedderFactory

	mu       sync.RWMutex
	embedder Embedder
	closed   bool
}

func NewEmbedderProvider(factory EmbedderFactory) (*EmbedderProvider, error) {
	if factory == nil {
		return nil, ErrNoEmbedder
	}
	return &EmbedderProvider{factory: factory}, nil
}

// Get returns the shared backend, building it if no build has succeeded yet.
// Concurrent first callers wait for a single build.
func (p *EmbedderProvider) Get(ctx context.Context) (Embedder, error) {
	p.mu.RLock()
	emb, closed := p.embedder, p.closed
	p.mu.RUnlock()
	if closed {
		return nil, ErrProviderClosed
	}
	if emb != nil {
		return emb, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrProviderClosed
	}
	if p.embedder != nil {
		return p.embedder, nil
	}

	emb, err := p.factory(ctx)
	if err == nil && emb == nil {
		err = ErrNoEmbedder
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	p.embedder = emb
	return emb, nil
}

// Embed implements Embedder.
func (p *EmbedderProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	emb, err := p.Get(ctx)
	if err != nil {
		return nil, err
	}
	return emb.Embed(ctx, text)
}

// Close releases the backend if it holds resources. Later calls to Get fail.
func (p *EmbedderProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if c, ok := p.embedder.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
