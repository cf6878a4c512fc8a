package services

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const (
	BackendGemini = "gemini"
	BackendVertex = "vertex"

	// Longer inputs are cut before embedding, as the model truncates anyway.
	maxEmbedRunes = 40000
)

type GeminiOptions struct {
	Backend  string
	APIKey   string
	Model    string
	Project  string
	Location string
}

type geminiEmbedder struct {
	client     *genai.Client
	embedModel string
}

// GeminiEmbedderFactory validates opts up front so an unknown backend is
// reported at startup, and defers client creation to first use.
func GeminiEmbedderFactory(opts GeminiOptions) (EmbedderFactory, error) {
	cc := &genai.ClientConfig{}

	switch opts.Backend {
	case BackendGemini:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("%w: gemini backend requires an API key", ErrNoEmbedder)
		}
		cc.APIKey = opts.APIKey
		cc.Backend = genai.BackendGeminiAPI
	case BackendVertex:
		if opts.Project == "" || opts.Location == "" {
			return nil, fmt.Errorf("%w: vertex backend requires project and location", ErrNoEmbedder)
		}
		cc.Project = opts.Project
		cc.Location = opts.Location
		cc.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrNoEmbedder, opts.Backend)
	}

	if opts.Model == "" {
		return nil, fmt.Errorf("%w: embedding model name is empty", ErrNoEmbedder)
	}

	return func(ctx context.Context) (Embedder, error) {
		client, err := genai.NewClient(ctx, cc)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return &geminiEmbedder{
			client:     client,
			embedModel: opts.Model,
		}, nil
	}, nil
}

// Embed implements Embedder.
func (g *geminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if runes := []rune(text); len(runes) > maxEmbedRunes {
		text = string(runes[:maxEmbedRunes])
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), &genai.EmbedContentConfig{
		TaskType: "SEMANTIC_SIMILARITY",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}
