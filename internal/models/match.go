package models

// ScoreResult is a candidate's match score in percent, in [0, 100].
type ScoreResult struct {
	Name   string           `json:"name"`
	Score  float64          `json:"score"`
	Status ExtractionStatus `json:"extraction_status,omitempty"`
}
