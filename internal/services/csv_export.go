package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"alfredoptarigan/resume-matcher/internal/models"
)

const CSVFilename = "resume_matching_results.csv"

var CSVHeader = []string{"Candidate Name", "Match Score (%)"}

// WriteResultsCSV writes results in their current order, UTF-8, without an
// index column.
func WriteResultsCSV(w io.Writer, results []models.ScoreResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range results {
		if err := cw.Write([]string{r.Name, FormatScore(r.Score)}); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatScore renders a percentage with exactly two decimals.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64)
}
