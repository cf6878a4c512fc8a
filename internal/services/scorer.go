package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"alfredoptarigan/resume-matcher/internal/models"
)

const DefaultFilenameWeight = 0.2

var ErrInvalidWeight = errors.New("filename weight must be within [0, 1]")

// Scorer ranks resumes against a job description.
type Scorer interface {
	Score(ctx context.Context, jobText string, resumes []models.ResumeDocument) ([]models.ScoreResult, error)
}

type similarityScorer struct {
	embedder       Embedder
	filenameWeight float64
	keywordTopN    int
}

func NewSimilarityScorer(embedder Embedder, filenameWeight float64, keywordTopN int) (Scorer, error) {
	if embedder == nil {
		return nil, ErrNoEmbedder
	}
	if filenameWeight < 0 || filenameWeight > 1 || math.IsNaN(filenameWeight) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidWeight, filenameWeight)
	}
	if keywordTopN <= 0 {
		keywordTopN = DefaultKeywordTopN
	}

	return &similarityScorer{
		embedder:       embedder,
		filenameWeight: filenameWeight,
		keywordTopN:    keywordTopN,
	}, nil
}

// Score implements Scorer. Blank resumes score 0 without an embedding call.
// The result is sorted by score descending, then by name, then input order.
func (s *similarityScorer) Score(ctx context.Context, jobText string, resumes []models.ResumeDocument) ([]models.ScoreResult, error) {
	keywords := ExtractKeywords(jobText, s.keywordTopN)

	var jobVector []float32
	results := make([]models.ScoreResult, 0, len(resumes))

	for _, resume := range resumes {
		result := models.ScoreResult{Name: resume.Name, Status: resume.Status}

		if resume.IsBlank() {
			results = append(results, result)
			continue
		}

		if jobVector == nil {
			vec, err := s.embedder.Embed(ctx, jobText)
			if err != nil {
				return nil, fmt.Errorf("failed to embed job description: %w", err)
			}
			jobVector = vec
		}

		resumeVector, err := s.embedder.Embed(ctx, resume.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed resume %q: %w", resume.Name, err)
		}

		contentScore, err := CosineSimilarity(jobVector, resumeVector)
		if err != nil {
			return nil, fmt.Errorf("failed to compare resume %q: %w", resume.Name, err)
		}

		filenameScore := FilenameScore(resume.Name, keywords)
		total := (1-s.filenameWeight)*contentScore + s.filenameWeight*filenameScore
		result.Score = toPercent(total)

		results = append(results, result)
	}

	SortResults(results)
	return results, nil
}

// SortResults orders results by score descending. Equal scores are ordered
// by name and otherwise keep their relative order.
func SortResults(results []models.ScoreResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Name < results[j].Name
	})
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0 when
// either vector has zero magnitude.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimensions differ: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// NormalizeCandidateName strips the extension, lowercases and turns
// underscores and hyphens into spaces.
func NormalizeCandidateName(name string) string {
	base := name
	if ext := filepath.Ext(name); ext != "" && ext != name {
		base = strings.TrimSuffix(name, ext)
	}
	base = strings.ToLower(base)
	return strings.NewReplacer("_", " ", "-", " ").Replace(base)
}

// FilenameScore is the fraction of keywords found as substrings of the
// normalized candidate name.
func FilenameScore(name string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}

	normalized := NormalizeCandidateName(name)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(normalized, kw) {
			matches++
		}
	}
	return float64(matches) / float64(len(keywords))
}

func toPercent(score float64) float64 {
	pct := math.Round(score*100*100) / 100
	switch {
	case math.IsNaN(pct) || pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}
