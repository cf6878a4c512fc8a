package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-matcher/internal/models"
)

const seniorPythonJob = "Senior Python Backend Engineer, AWS, Docker, Kubernetes"

func newTestScorer(t *testing.T, emb Embedder) Scorer {
	t.Helper()
	scorer, err := NewSimilarityScorer(emb, DefaultFilenameWeight, DefaultKeywordTopN)
	require.NoError(t, err)
	return scorer
}

func doc(name, text string) models.ResumeDocument {
	status := models.ExtractionOK
	if text == "" {
		status = models.ExtractionEmpty
	}
	return models.ResumeDocument{Name: name, Text: text, Status: status}
}

func TestScore_EndToEndScenario(t *testing.T) {
	emb := &fakeEmbedder{}
	scorer := newTestScorer(t, emb)

	results, err := scorer.Score(context.Background(), seniorPythonJob, []models.ResumeDocument{
		doc("alice_python_aws.pdf", "Experienced Python backend engineer with AWS and Docker."),
		doc("bob.docx", ""),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "alice_python_aws.pdf", results[0].Name)
	assert.Greater(t, results[0].Score, 0.0)
	assert.Equal(t, "bob.docx", results[1].Name)
	assert.Equal(t, 0.0, results[1].Score)
	assert.Equal(t, models.ExtractionEmpty, results[1].Status)
}

func TestScore_BlankResumesSkipEmbedding(t *testing.T) {
	emb := &fakeEmbedder{}
	scorer := newTestScorer(t, emb)

	results, err := scorer.Score(context.Background(), seniorPythonJob, []models.ResumeDocument{
		doc("python_aws_docker.pdf", "   \n\t "),
		{Name: "broken.pdf", Status: models.ExtractionFailed},
	})
	require.NoError(t, err)

	for _, r := range results {
		assert.Equal(t, 0.0, r.Score)
	}
	assert.Zero(t, emb.callCount())
}

func TestScore_EmbedsJobDescriptionOnce(t *testing.T) {
	emb := &fakeEmbedder{}
	scorer := newTestScorer(t, emb)

	_, err := scorer.Score(context.Background(), seniorPythonJob, []models.ResumeDocument{
		doc("a.pdf", "python"),
		doc("b.pdf", "docker"),
		doc("c.pdf", "java"),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, emb.callCount())
}

func TestScore_FilenameBonus(t *testing.T) {
	scorer := newTestScorer(t, &fakeEmbedder{})
	text := "Python backend engineer"

	results, err := scorer.Score(context.Background(), seniorPythonJob, []models.ResumeDocument{
		doc("candidate.pdf", text),
		doc("senior-python_kubernetes.pdf", text),
	})
	require.NoError(t, err)

	assert.Equal(t, "senior-python_kubernetes.pdf", results[0].Name)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestScore_SortedAndBounded(t *testing.T) {
	scorer := newTestScorer(t, &fakeEmbedder{})

	results, err := scorer.Score(context.Background(), seniorPythonJob, []models.ResumeDocument{
		doc("designer.pdf", "frontend react designer"),
		doc("empty.docx", ""),
		doc("python.pdf", "senior python backend engineer aws docker kubernetes"),
		doc("java.pdf", "java backend engineer"),
		doc("sales.pdf", "sales"),
	})
	require.NoError(t, err)

	for i, r := range results {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 100.0)
		assert.InDelta(t, r.Score, math.Round(r.Score*100)/100, 1e-9)
		if i > 0 {
			assert.GreaterOrEqual(t, results[i-1].Score, r.Score)
		}
	}
	assert.Equal(t, "python.pdf", results[0].Name)
}

func TestScore_TiesOrderedByName(t *testing.T) {
	scorer := newTestScorer(t, &fakeEmbedder{})

	results, err := scorer.Score(context.Background(), seniorPythonJob, []models.ResumeDocument{
		doc("zed.docx", ""),
		doc("amy.docx", ""),
		doc("mia.docx", ""),
	})
	require.NoError(t, err)

	names := []string{results[0].Name, results[1].Name, results[2].Name}
	assert.Equal(t, []string{"amy.docx", "mia.docx", "zed.docx"}, names)
}

func TestScore_Idempotent(t *testing.T) {
	scorer := newTestScorer(t, &fakeEmbedder{})
	resumes := []models.ResumeDocument{
		doc("alice_python_aws.pdf", "Experienced Python backend engineer with AWS and Docker."),
		doc("carol.pdf", "Java engineer"),
		doc("bob.docx", ""),
	}

	first, err := scorer.Score(context.Background(), seniorPythonJob, resumes)
	require.NoError(t, err)
	second, err := scorer.Score(context.Background(), seniorPythonJob, resumes)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScore_EmbeddingErrorPropagates(t *testing.T) {
	scorer := newTestScorer(t, &fakeEmbedder{err: errBackendDown})

	_, err := scorer.Score(context.Background(), seniorPythonJob, []models.ResumeDocument{
		doc("alice.pdf", "python"),
	})

	assert.ErrorIs(t, err, errBackendDown)
}

func TestScore_NoResumes(t *testing.T) {
	scorer := newTestScorer(t, &fakeEmbedder{})

	results, err := scorer.Score(context.Background(), seniorPythonJob, nil)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNewSimilarityScorer_Validation(t *testing.T) {
	_, err := NewSimilarityScorer(nil, 0.2, 10)
	assert.ErrorIs(t, err, ErrNoEmbedder)

	_, err = NewSimilarityScorer(&fakeEmbedder{}, -0.1, 10)
	assert.ErrorIs(t, err, ErrInvalidWeight)

	_, err = NewSimilarityScorer(&fakeEmbedder{}, 1.1, 10)
	assert.ErrorIs(t, err, ErrInvalidWeight)
}

func TestCosineSimilarity(t *testing.T) {
	sim, err := CosineSimilarity([]float32{1, 0}, []float32{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)

	sim, err = CosineSimilarity([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sim, 1e-9)

	sim, err = CosineSimilarity([]float32{0, 0}, []float32{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, sim)

	_, err = CosineSimilarity([]float32{1}, []float32{1, 2})
	assert.Error(t, err)
}

func TestNormalizeCandidateName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice_Python-AWS.pdf", "alice python aws"},
		{"bob.docx", "bob"},
		{"archive.tar.gz", "archive.tar"},
		{"no_extension", "no extension"},
		{".pdf", ".pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCandidateName(tt.in))
		})
	}
}

func TestFilenameScore(t *testing.T) {
	keywords := []string{"python", "backend", "docker", "kubernetes"}

	assert.InDelta(t, 0.5, FilenameScore("alice_python-docker.pdf", keywords), 1e-9)
	assert.Equal(t, 0.0, FilenameScore("alice.pdf", keywords))
	assert.Equal(t, 0.0, FilenameScore("python.pdf", nil))
	assert.Equal(t, 0.0, FilenameScore("python.pdf", ExtractKeywords("AI, ML, Go", 10)))
}

func TestToPercent(t *testing.T) {
	assert.Equal(t, 0.0, toPercent(-0.3))
	assert.Equal(t, 100.0, toPercent(1.2))
	assert.Equal(t, 57.35, toPercent(0.57349))
	assert.Equal(t, 0.0, toPercent(math.NaN()))
}
