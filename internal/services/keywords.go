package services

import (
	"regexp"
	"sort"
	"strings"
)

const DefaultKeywordTopN = 10

var (
	// wordPattern splits text into maximal runs of Unicode word characters.
	wordPattern    = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	keywordPattern = regexp.MustCompile(`^[a-z]{4,}$`)
)

// ExtractKeywords returns up to topN of the most frequent lowercase ASCII
// words of at least four letters. A word with any other letter, digit or
// underscore in it is skipped whole. Equal counts keep first-occurrence order.
func ExtractKeywords(text string, topN int) []string {
	if topN <= 0 {
		return []string{}
	}

	counts := make(map[string]int)
	var order []string
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if !keywordPattern.MatchString(word) {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > topN {
		order = order[:topN]
	}
	if order == nil {
		return []string{}
	}
	return order
}
