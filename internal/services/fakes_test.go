package services

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var fakeVocabulary = []string{
	"python", "backend", "engineer", "aws", "docker", "kubernetes",
	"senior", "java", "frontend", "react", "designer", "sales",
}

// fakeEmbedder maps text onto word counts over a fixed vocabulary.
type fakeEmbedder struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	vec := make([]float32, len(fakeVocabulary))
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r < 'a' || r > 'z'
	}) {
		for i, v := range fakeVocabulary {
			if word == v {
				vec[i]++
			}
		}
	}
	return vec, nil
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeVectorCache struct {
	mu        sync.Mutex
	vectors   map[string][]float32
	models    map[string]string
	lookupErr error
	storeErr  error
}

func newFakeVectorCache() *fakeVectorCache {
	return &fakeVectorCache{
		vectors: make(map[string][]float32),
		models:  make(map[string]string),
	}
}

func (c *fakeVectorCache) Lookup(_ context.Context, key string) ([]float32, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lookupErr != nil {
		return nil, false, c.lookupErr
	}
	vec, ok := c.vectors[key]
	return vec, ok, nil
}

func (c *fakeVectorCache) Store(_ context.Context, key, model string, vector []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.storeErr != nil {
		return c.storeErr
	}
	c.vectors[key] = vector
	c.models[key] = model
	return nil
}

var errBackendDown = errors.New("backend down")
