package services

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords_FrequencyOrder(t *testing.T) {
	text := "Python python PYTHON docker Docker kubernetes aws go"

	keywords := ExtractKeywords(text, 10)

	assert.Equal(t, []string{"python", "docker", "kubernetes"}, keywords)
}

func TestExtractKeywords_TiesKeepFirstOccurrence(t *testing.T) {
	keywords := ExtractKeywords("zeta alpha mike alpha zeta mike", 10)

	assert.Equal(t, []string{"zeta", "alpha", "mike"}, keywords)
}

func TestExtractKeywords_TopN(t *testing.T) {
	text := "one1 alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima"

	assert.Len(t, ExtractKeywords(text, 3), 3)
	assert.Len(t, ExtractKeywords(text, 10), 10)
	assert.Empty(t, ExtractKeywords(text, 0))
}

func TestExtractKeywords_FewerThanTopN(t *testing.T) {
	assert.Equal(t, []string{"senior"}, ExtractKeywords("Senior dev, AWS", 10))
}

func TestExtractKeywords_OnlyWholeAlphabeticWords(t *testing.T) {
	text := "python3 node_js c++ data-driven résumé 2024 Kubernetes, e-mail"

	keywords := ExtractKeywords(text, 10)

	valid := regexp.MustCompile(`^[a-z]{4,}$`)
	for _, kw := range keywords {
		assert.Regexp(t, valid, kw)
	}
	assert.NotContains(t, keywords, "python")
	assert.Contains(t, keywords, "data")
	assert.Contains(t, keywords, "driven")
	assert.Contains(t, keywords, "kubernetes")
	assert.Contains(t, keywords, "mail")
	assert.NotContains(t, keywords, "node")
}

func TestExtractKeywords_NonASCIIWordsAreSkippedWhole(t *testing.T) {
	keywords := ExtractKeywords("experiência straße naïveté python3 e-mail", 10)

	assert.Equal(t, []string{"mail"}, keywords)
}

func TestExtractKeywords_NonASCIIDoesNotSplitWords(t *testing.T) {
	keywords := ExtractKeywords("Développeur Python, équipe backend, München office", 10)

	assert.Equal(t, []string{"python", "backend", "office"}, keywords)
	for _, fragment := range []string{"veloppeur", "quipe", "nchen"} {
		assert.NotContains(t, keywords, fragment)
	}
}

func TestExtractKeywords_NoKeywords(t *testing.T) {
	assert.Empty(t, ExtractKeywords("AI, ML & Go!", 10))
	assert.Empty(t, ExtractKeywords("", 10))
}
