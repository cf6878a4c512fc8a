package models

import (
	"time"

	"github.com/google/uuid"
)

type MatchRun struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobDescription string           `gorm:"type:text" json:"job_description"`
	FilenameWeight float64          `gorm:"type:decimal(4,3)" json:"filename_weight"`
	CandidateCount int              `gorm:"not null" json:"candidate_count"`
	CreatedAt      time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	Results        []MatchRunResult `gorm:"foreignKey:MatchRunID;constraint:OnDelete:CASCADE" json:"results"`
}

func (MatchRun) TableName() string {
	return "match_runs"
}

type MatchRunResult struct {
	ID               uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"-"`
	MatchRunID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"-"`
	Rank             int              `gorm:"not null" json:"rank"`
	CandidateName    string           `gorm:"type:text" json:"name"`
	Score            float64          `gorm:"type:decimal(5,2)" json:"score"`
	ExtractionStatus ExtractionStatus `gorm:"type:text" json:"extraction_status"`
}

func (MatchRunResult) TableName() string {
	return "match_run_results"
}

// ScoreResults returns the persisted results in rank order.
func (r *MatchRun) ScoreResults() []ScoreResult {
	out := make([]ScoreResult, len(r.Results))
	for i, res := range r.Results {
		out[i] = ScoreResult{
			Name:   res.CandidateName,
			Score:  res.Score,
			Status: res.ExtractionStatus,
		}
	}
	return out
}
